package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sevaportal/internal/model"
)

// ErrDuplicate is returned when a write would reuse a username, email or
// referral code already held by another user.
var ErrDuplicate = errors.New("duplicate record")

func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

// lockRow loads the row with id into dst and holds it exclusively until tx ends.
func lockRow(tx *gorm.DB, dst interface{}, id uint) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(dst, id)
}

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	// FindByUsername and FindByEmail match case-insensitively.
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByReferralCode(ctx context.Context, code string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	UpdateProfile(ctx context.Context, id uint, name, email, phone string) (*model.User, error)
	UpdateRole(ctx context.Context, id uint, role string) error
	AddReferralReward(ctx context.Context, id uint, amount int) error
	CountReferredBy(ctx context.Context, referrerID uint) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("LOWER(username) = LOWER(?)", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByReferralCode(ctx context.Context, code string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("referral_code = ?", code).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id uint, name, email, phone string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockRow(tx, &user, id).Error; err != nil {
			return err
		}
		if err := profileUpdate(tx, id, name, email, phone).Error; err != nil {
			return err
		}
		user = model.User{}
		return tx.First(&user, id).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// profileUpdate writes only the profile columns of one user.
func profileUpdate(tx *gorm.DB, id uint, name, email, phone string) *gorm.DB {
	return tx.Model(&model.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{"name": name, "email": email, "phone": phone})
}

func (r *userRepository) UpdateRole(ctx context.Context, id uint, role string) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// MySQL reports zero for an unchanged row, so confirm existence.
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *userRepository) AddReferralReward(ctx context.Context, id uint, amount int) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		UpdateColumn("referral_rewards", gorm.Expr("referral_rewards + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 && amount != 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) CountReferredBy(ctx context.Context, referrerID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("referred_by = ?", referrerID).Count(&count).Error
	return count, err
}
