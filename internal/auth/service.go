package auth

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"gorm.io/gorm"

	"github.com/causeway-org/causeway/internal/config"
	"github.com/causeway-org/causeway/internal/entities"
	applog "github.com/causeway-org/causeway/internal/logger"
)

// Validation patterns
var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,64}$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUserExists       = errors.New("user already exists")
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidRole      = errors.New("invalid role")
	ErrUsernameRequired = errors.New("username is required")
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrAccountLocked    = errors.New("account is locked due to too many failed login attempts")
	ErrUsernameInvalid  = errors.New("username must be 3-64 characters, alphanumeric and underscore/hyphen only")
	ErrEmailInvalid     = errors.New("invalid email format")
)

// Service handles authentication and user management.
type Service struct {
	db     *gorm.DB
	config config.Auth
	log    *applog.Logger
}

// NewService creates a new authentication service.
func NewService(db *gorm.DB, cfg config.Auth, log *applog.Logger) *Service {
	return &Service{
		db:     db,
		config: cfg,
		log:    log,
	}
}

// CreateUser creates a new user with password authentication.
func (s *Service) CreateUser(username, email, password, fullName string, role entities.UserRole) (*entities.User, error) {
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if email == "" {
		return nil, ErrEmailRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}

	if !usernamePattern.MatchString(username) {
		return nil, ErrUsernameInvalid
	}

	// RFC 5321 caps addresses at 254 characters
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return nil, ErrEmailInvalid
	}

	switch role {
	case entities.UserRoleAdmin, entities.UserRoleEditor, entities.UserRoleViewer:
	default:
		return nil, ErrInvalidRole
	}

	var existing entities.User
	err := s.db.Where("username = ? OR email = ?", username, email).First(&existing).Error
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	passwordHash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		FullName:     fullName,
		Role:         role,
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info("user {username} created with role {role}", map[string]any{
		"username": username,
		"role":     string(role),
	})
	return user, nil
}

// Authenticate validates credentials and returns the user.
// Accounts lock after too many failed attempts.
func (s *Service) Authenticate(username, password string) (*entities.User, error) {
	var user entities.User
	err := s.db.Where("username = ? OR email = ?", username, username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if user.LockedUntil != nil && time.Now().Before(*user.LockedUntil) {
		return nil, ErrAccountLocked
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		s.recordFailedLogin(&user)
		return nil, err
	}

	// Successful login resets the lockout bookkeeping.
	now := time.Now()
	s.db.Model(&user).Updates(map[string]any{
		"last_login_at":      now,
		"failed_login_count": 0,
		"locked_until":       nil,
	})

	return &user, nil
}

// recordFailedLogin increments the failed login counter and locks the
// account once the configured threshold is reached.
func (s *Service) recordFailedLogin(user *entities.User) {
	user.FailedLoginCount++

	updates := map[string]any{
		"failed_login_count": user.FailedLoginCount,
	}

	maxAttempts := s.config.MaxLoginAttempts
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if user.FailedLoginCount >= maxAttempts {
		lockoutDuration := s.config.LockoutDuration
		if lockoutDuration == 0 {
			lockoutDuration = 30 * time.Minute
		}
		lockedUntil := time.Now().Add(lockoutDuration)
		updates["locked_until"] = lockedUntil

		s.log.Warning("account {username} locked after {attempts} failed logins", map[string]any{
			"username": user.Username,
			"attempts": user.FailedLoginCount,
		})
	}

	s.db.Model(user).Updates(updates)
}

// GetUserByID retrieves a user by their ID.
func (s *Service) GetUserByID(id uint) (*entities.User, error) {
	var user entities.User
	err := s.db.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// IssueRememberToken creates a remember-me token for a user. The plaintext
// goes into the cookie once; only the hash is stored.
func (s *Service) IssueRememberToken(userID uint) (string, time.Time, error) {
	plaintext, hash, err := GenerateRememberToken()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate remember token: %w", err)
	}

	lifetime := s.config.RememberLifetime
	if lifetime <= 0 {
		lifetime = 30 * 24 * time.Hour
	}
	expiresAt := time.Now().Add(lifetime)

	result := s.db.Model(&entities.User{}).Where("id = ?", userID).Updates(map[string]any{
		"remember_token_hash": hash,
		"remember_expires_at": expiresAt,
	})
	if result.Error != nil {
		return "", time.Time{}, fmt.Errorf("failed to save remember token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return "", time.Time{}, ErrUserNotFound
	}

	return plaintext, expiresAt, nil
}

// ConsumeRememberToken resolves a remember-me cookie value to its user.
// Expired tokens are cleared from the row and rejected.
func (s *Service) ConsumeRememberToken(token string) (*entities.User, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	var user entities.User
	err := s.db.Where("remember_token_hash = ?", HashToken(token)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if user.RememberExpiresAt == nil || time.Now().After(*user.RememberExpiresAt) {
		s.clearRememberToken(user.ID)
		return nil, ErrTokenExpired
	}

	return &user, nil
}

// RevokeRememberToken drops a user's remember-me token, e.g. on logout.
func (s *Service) RevokeRememberToken(userID uint) error {
	return s.clearRememberToken(userID)
}

func (s *Service) clearRememberToken(userID uint) error {
	return s.db.Model(&entities.User{}).Where("id = ?", userID).Updates(map[string]any{
		"remember_token_hash": "",
		"remember_expires_at": nil,
	}).Error
}

// ChangePassword updates a user's password after verifying the old one.
func (s *Service) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	if err := CheckPassword(oldPassword, user.PasswordHash); err != nil {
		return err
	}

	newHash, err := HashPassword(newPassword, s.config.BcryptCost)
	if err != nil {
		return err
	}

	return s.db.Model(user).Update("password_hash", newHash).Error
}

// HasUsers reports whether any users exist at all, for first-run setup.
func (s *Service) HasUsers() (bool, error) {
	var count int64
	err := s.db.Model(&entities.User{}).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
