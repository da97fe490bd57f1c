package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"sevaportal/internal/auth"
	"sevaportal/internal/cache"
	"sevaportal/internal/model"
	"sevaportal/internal/repository"
)

const bcryptCost = 10

var (
	// ErrInvalidCredentials is returned when username or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUserAlreadyExists is returned when the username or email is taken.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrInvalidRefreshToken is returned when refresh token is invalid or expired.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

// RegisterInput carries the fields of a sign-up.
type RegisterInput struct {
	Username     string
	Password     string
	Name         string
	Email        string
	Phone        string
	Address      string
	ReferralCode string
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, username, password string) (accessToken, refreshToken string, user *model.User, err error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, refreshToken, accessToken string) error
	EnsureAdmin(ctx context.Context, username, password string) (*model.User, error)
}

type authService struct {
	users          repository.UserRepository
	jwtService     *auth.JWTService
	tokenStore     auth.TokenStore
	cache          *cache.Client
	referralReward int
}

// NewAuthService creates a new authentication service. referralReward is
// credited to a referrer for every sign-up using their code.
func NewAuthService(users repository.UserRepository, jwtService *auth.JWTService, tokenStore auth.TokenStore, cache *cache.Client, referralReward int) AuthService {
	return &authService{
		users:          users,
		jwtService:     jwtService,
		tokenStore:     tokenStore,
		cache:          cache,
		referralReward: referralReward,
	}
}

func (s *authService) taken(ctx context.Context, username, email string) error {
	_, err := s.users.FindByUsername(ctx, username)
	if err == nil {
		return ErrUserAlreadyExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check username: %w", err)
	}
	_, err = s.users.FindByEmail(ctx, email)
	if err == nil {
		return ErrUserAlreadyExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check email: %w", err)
	}
	return nil
}

// Register creates a user with a hashed password and a fresh referral code,
// crediting the referrer when a known referral code is supplied.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if err := s.taken(ctx, in.Username, in.Email); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	code, err := uniqueReferralCode(ctx, s.users)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     in.Username,
		PasswordHash: string(hashedPassword),
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		Address:      in.Address,
		Role:         model.RoleUser,
		ReferralCode: code,
	}

	var referrer *model.User
	if ref := strings.ToUpper(strings.TrimSpace(in.ReferralCode)); ref != "" {
		referrer, err = s.users.FindByReferralCode(ctx, ref)
		switch {
		case err == nil:
			user.ReferredBy = &referrer.ID
		case errors.Is(err, gorm.ErrRecordNotFound):
			// Unknown codes do not block sign-up.
			referrer = nil
		default:
			return nil, fmt.Errorf("find referrer: %w", err)
		}
	}

	// A racing sign-up can pass taken and still lose at insert time.
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if referrer != nil && s.referralReward > 0 {
		if err := s.users.AddReferralReward(ctx, referrer.ID, s.referralReward); err != nil {
			log.Printf("credit referral reward to user %d: %v", referrer.ID, err)
		} else {
			_ = s.cache.Delete(ctx, userCacheKey(referrer.ID))
		}
	}

	return user, nil
}

// Login authenticates a user and returns access and refresh tokens.
func (s *authService) Login(ctx context.Context, username, password string) (accessToken, refreshToken string, user *model.User, err error) {
	user, err = s.users.FindByUsername(ctx, username)
	if err != nil {
		return "", "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", nil, ErrInvalidCredentials
	}

	accessToken, err = s.jwtService.GenerateAccessToken(user.ID, user.Username, user.Role)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate access token: %w", err)
	}

	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(user.ID, user.Username, user.Role)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, user.ID, auth.RefreshTokenExpiry); err != nil {
		return "", "", nil, fmt.Errorf("store refresh token: %w", err)
	}

	return accessToken, refreshToken, user, nil
}

// RefreshToken validates a refresh token and returns a new access token. The
// role is re-read so elevations take effect on refresh.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	storedUserID, err := s.tokenStore.GetRefreshToken(ctx, claims.ID)
	if err != nil || storedUserID != claims.UserID {
		return "", ErrInvalidRefreshToken
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user.ID, user.Username, user.Role)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, nil
}

// Logout invalidates a refresh token and, when given, the current access token.
func (s *authService) Logout(ctx context.Context, refreshToken, accessToken string) error {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return ErrInvalidRefreshToken
	}
	if err := s.tokenStore.DeleteRefreshToken(ctx, claims.ID); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}

	if accessToken == "" {
		return nil
	}
	access, err := s.jwtService.ValidateAccessToken(accessToken)
	if err != nil {
		return nil
	}
	if err := s.tokenStore.BlacklistAccessToken(ctx, access.ID, s.jwtService.RemainingTTL(access)); err != nil {
		return fmt.Errorf("blacklist access token: %w", err)
	}
	return nil
}

// EnsureAdmin creates the named account when missing and elevates it to the
// admin role.
func (s *authService) EnsureAdmin(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user, err = s.Register(ctx, RegisterInput{
			Username: username,
			Password: password,
			Name:     "Administrator",
			Email:    username + "@admin.local",
		})
	}
	if err != nil {
		return nil, fmt.Errorf("ensure admin %q: %w", username, err)
	}

	if !user.IsAdmin() {
		if err := s.users.UpdateRole(ctx, user.ID, model.RoleAdmin); err != nil {
			return nil, fmt.Errorf("elevate admin %q: %w", username, err)
		}
		user.Role = model.RoleAdmin
		_ = s.cache.Delete(ctx, userCacheKey(user.ID))
	}
	return user, nil
}
