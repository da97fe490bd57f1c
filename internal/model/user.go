package model

import "time"

const (
	// RoleUser is assigned to every registered user.
	RoleUser = "user"
	// RoleAdmin can see all orders and move them through their lifecycle.
	RoleAdmin = "admin"
)

// User represents a registered citizen.
type User struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	Username        string    `json:"username" gorm:"uniqueIndex;size:100;not null"`
	PasswordHash    string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Name            string    `json:"name" gorm:"size:255;not null"`
	Email           string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Phone           string    `json:"phone,omitempty" gorm:"size:32"`
	Address         string    `json:"address,omitempty" gorm:"type:text"`
	Role            string    `json:"role" gorm:"size:50;default:'user'"`
	ReferralCode    string    `json:"referral_code" gorm:"uniqueIndex;size:16;not null"`
	ReferralRewards int       `json:"referral_rewards" gorm:"not null;default:0"`
	ReferredBy      *uint     `json:"referred_by,omitempty" gorm:"index"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
