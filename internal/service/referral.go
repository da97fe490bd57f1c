package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "sevaportal/internal/errors"
	"sevaportal/internal/repository"
)

const (
	referralCodeLength   = 8
	referralCodeAttempts = 5
	referralPath         = "/auth?ref="
)

// ReferralLink builds the shareable sign-up link for a referral code. The
// code is embedded as is.
func ReferralLink(origin, code string) string {
	return strings.TrimRight(origin, "/") + referralPath + code
}

// ReferralSummary is what a user sees on their referral card.
type ReferralSummary struct {
	Code          string `json:"referral_code"`
	Link          string `json:"referral_link"`
	Rewards       int    `json:"referral_rewards"`
	ReferredCount int64  `json:"referred_count"`
}

// ReferralService exposes referral read operations.
type ReferralService interface {
	Summary(ctx context.Context, userID uint, origin string) (*ReferralSummary, error)
}

type referralService struct {
	users repository.UserRepository
}

// NewReferralService creates a referral service.
func NewReferralService(users repository.UserRepository) ReferralService {
	return &referralService{users: users}
}

func (s *referralService) Summary(ctx context.Context, userID uint, origin string) (*ReferralSummary, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	count, err := s.users.CountReferredBy(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count referrals: %w", err)
	}
	return &ReferralSummary{
		Code:          user.ReferralCode,
		Link:          ReferralLink(origin, user.ReferralCode),
		Rewards:       user.ReferralRewards,
		ReferredCount: count,
	}, nil
}

func newReferralCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:referralCodeLength])
}

// uniqueReferralCode draws codes until one is unused.
func uniqueReferralCode(ctx context.Context, users repository.UserRepository) (string, error) {
	for i := 0; i < referralCodeAttempts; i++ {
		code := newReferralCode()
		_, err := users.FindByReferralCode(ctx, code)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return code, nil
		}
		if err != nil {
			return "", fmt.Errorf("check referral code: %w", err)
		}
	}
	return "", errors.New("could not allocate a unique referral code")
}
