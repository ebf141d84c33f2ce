// Package auth provides local accounts, cookie sessions and the session-state
// bridge the storage router uses to decide between the local and remote
// backends. The remote store's access token travels inside the session.
package auth

import (
	"errors"
	"fmt"
	"log"
	"regexp"

	"gorm.io/gorm"

	"github.com/JordiMolto/MyMediaVerse/internal/config"
	"github.com/JordiMolto/MyMediaVerse/internal/crypto"
	"github.com/JordiMolto/MyMediaVerse/internal/entities"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,64}$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUserExists       = errors.New("user already exists")
	ErrUsernameRequired = errors.New("username is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrUsernameInvalid  = errors.New("username must be 3-64 characters, alphanumeric and underscore/hyphen only")
	ErrEmailInvalid     = errors.New("invalid email format")
)

// Service handles local account management and credential checks.
type Service struct {
	db     *gorm.DB
	config config.Auth
	tokens *crypto.Encryptor
}

// NewService creates the authentication service.
func NewService(db *gorm.DB, cfg config.Auth) *Service {
	return &Service{db: db, config: cfg}
}

// SetTokenEncryptor enables encryption at rest for stored remote access
// tokens. Without it tokens are stored as-is.
func (s *Service) SetTokenEncryptor(enc *crypto.Encryptor) {
	s.tokens = enc
}

// CreateUser registers a local account.
func (s *Service) CreateUser(username, email, password string, role entities.UserRole) (*entities.User, error) {
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}
	if !usernamePattern.MatchString(username) {
		return nil, ErrUsernameInvalid
	}
	if email != "" && (len(email) > 254 || !emailPattern.MatchString(email)) {
		return nil, ErrEmailInvalid
	}
	if role != entities.RoleAdmin && role != entities.RoleUser {
		role = entities.RoleUser
	}

	var existing entities.User
	err := s.db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	passwordHash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Authenticate validates credentials and returns the user.
func (s *Service) Authenticate(username, password string) (*entities.User, error) {
	var user entities.User
	err := s.db.Where("username = ? OR email = ?", username, username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		return nil, err
	}
	user.RemoteToken = s.decryptToken(user.RemoteToken)
	return &user, nil
}

// GetUserByID retrieves a user by id.
func (s *Service) GetUserByID(id uint) (*entities.User, error) {
	var user entities.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.RemoteToken = s.decryptToken(user.RemoteToken)
	return &user, nil
}

// SetRemoteToken stores the remote record store access token for a user. The
// token is copied into the session on the next login.
func (s *Service) SetRemoteToken(userID uint, token string) error {
	if s.tokens != nil {
		encrypted, err := s.tokens.Encrypt(token)
		if err != nil {
			return fmt.Errorf("encrypt remote token: %w", err)
		}
		token = encrypted
	}

	result := s.db.Model(&entities.User{}).Where("id = ?", userID).Update("remote_token", token)
	if result.Error != nil {
		return fmt.Errorf("save remote token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// decryptToken returns the plaintext remote token. A token that fails to
// decrypt (key rotated, or stored before encryption was enabled) counts as
// absent, which keeps the session on the local store.
func (s *Service) decryptToken(stored string) string {
	if s.tokens == nil || stored == "" {
		return stored
	}
	token, err := s.tokens.Decrypt(stored)
	if err != nil {
		log.Printf("[auth] stored remote token could not be decrypted, ignoring it")
		return ""
	}
	return token
}

// HasUsers reports whether any account exists; used to gate first-run setup.
func (s *Service) HasUsers() (bool, error) {
	var count int64
	if err := s.db.Model(&entities.User{}).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsEnabled reports whether local authentication is required.
func (s *Service) IsEnabled() bool {
	return s.config.Mode == config.AuthModeLocal
}
