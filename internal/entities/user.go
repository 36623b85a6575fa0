package entities

import "time"

type UserRole string

const (
	UserRoleAdmin  UserRole = "admin"
	UserRoleEditor UserRole = "editor"
	UserRoleViewer UserRole = "viewer"
)

type User struct {
	ID           uint     `gorm:"primaryKey" json:"id"`
	Username     string   `gorm:"uniqueIndex;size:64" json:"username"`
	Email        string   `gorm:"uniqueIndex;size:254" json:"email"`
	PasswordHash string   `gorm:"size:100" json:"-"`
	FullName     string   `gorm:"size:200" json:"full_name"`
	Role         UserRole `gorm:"size:20;default:'viewer'" json:"role"`

	// Login lockout bookkeeping
	FailedLoginCount int        `json:"-"`
	LockedUntil      *time.Time `json:"-"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`

	// Remember-me token (hash only, plaintext lives in the cookie)
	RememberTokenHash string     `gorm:"size:64;index" json:"-"`
	RememberExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
