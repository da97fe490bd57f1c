package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"sevaportal/internal/cache"
	apperrors "sevaportal/internal/errors"
	"sevaportal/internal/model"
	"sevaportal/internal/repository"
)

const userCacheTTL = 5 * time.Minute

func userCacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	Name  string `validate:"required,max=255"`
	Email string `validate:"required,email,max=255"`
	Phone string `validate:"omitempty,min=7,max=20"`
}

// UserService exposes user and profile operations.
type UserService interface {
	GetUser(ctx context.Context, id uint) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateProfile(ctx context.Context, id uint, update ProfileUpdate) (*model.User, error)
}

type userService struct {
	repo     repository.UserRepository
	cache    *cache.Client
	validate *validator.Validate
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache, validate: validator.New()}
}

func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, userCacheKey(id), &cached) {
		return &cached, nil
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	s.cache.SetJSON(ctx, userCacheKey(id), user, userCacheTTL)
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

// UpdateProfile validates and stores name, email and phone. On any error the
// stored user is left untouched.
func (s *userService) UpdateProfile(ctx context.Context, id uint, update ProfileUpdate) (*model.User, error) {
	if strings.TrimSpace(update.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", apperrors.ErrInvalidProfile)
	}
	if err := s.validate.Struct(update); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidProfile, describeValidation(err))
	}

	other, err := s.repo.FindByEmail(ctx, update.Email)
	switch {
	case err == nil && other.ID != id:
		return nil, apperrors.ErrEmailTaken
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("check email: %w", err)
	}

	user, err := s.repo.UpdateProfile(ctx, id, update.Name, update.Email, update.Phone)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, apperrors.ErrUserNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, apperrors.ErrEmailTaken
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	_ = s.cache.Delete(ctx, userCacheKey(id))
	return user, nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return strings.Join(parts, ", ")
}
