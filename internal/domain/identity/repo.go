package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByRecoveryToken(ctx context.Context, token string) (*User, error)

	// SetRecovery stores a fresh recovery token for the user, replacing any
	// previous one.
	SetRecovery(ctx context.Context, id uuid.UUID, token string, expiresAt time.Time) error

	// ConsumeRecovery sets the new password hash and marks the recovery
	// token used in one statement. Returns ErrTokenNotFound when the token
	// was already consumed or replaced.
	ConsumeRecovery(ctx context.Context, id uuid.UUID, token, passwordHash string) error
}
