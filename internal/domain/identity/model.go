package identity

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("invalid role")
	ErrEmailRequired      = errors.New("email is required")
	ErrWeakPassword       = errors.New("password does not meet requirements")
	ErrTokenNotFound      = errors.New("recovery token not found")
	ErrTokenExpired       = errors.New("recovery token expired")
)

// User is an account in the system: an admin managing the catalog or a
// patient booking appointments.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`

	// Password recovery state. A token is single-use: once consumed it is
	// marked used and can never reset a password again.
	RecoveryToken     *string    `json:"-"`
	RecoveryExpiresAt *time.Time `json:"-"`
	RecoveryUsed      bool       `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NormalizeEmail lowercases and trims an address so equality checks and the
// unique index agree on a canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidatePassword enforces the account password policy: at least 7
// characters and must not contain the word "password".
func ValidatePassword(pw string) error {
	if len(pw) < 7 {
		return ErrWeakPassword
	}
	if strings.Contains(strings.ToLower(pw), "password") {
		return ErrWeakPassword
	}
	return nil
}
