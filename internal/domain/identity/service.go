package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/turnero/turnero/internal/platform/auth"
)

// Mailer delivers rendered notification templates. Satisfied by
// notification.Mailer.
type Mailer interface {
	Send(ctx context.Context, to, templateID string, data map[string]string) error
}

type Service struct {
	repo        Repository
	mailer      Mailer
	logger      zerolog.Logger
	jwtSecret   string
	jwtTTL      time.Duration
	recoveryTTL time.Duration
	baseURL     string
	now         func() time.Time
}

type ServiceConfig struct {
	JWTSecret   string
	JWTTTL      time.Duration
	RecoveryTTL time.Duration
	BaseURL     string
}

func NewService(repo Repository, mailer Mailer, logger zerolog.Logger, cfg ServiceConfig) *Service {
	return &Service{
		repo:        repo,
		mailer:      mailer,
		logger:      logger,
		jwtSecret:   cfg.JWTSecret,
		jwtTTL:      cfg.JWTTTL,
		recoveryTTL: cfg.RecoveryTTL,
		baseURL:     cfg.BaseURL,
		now:         time.Now,
	}
}

// Register creates an account and returns it with a signed session token.
// The email is normalized before the uniqueness check so "Ana@X.com" and
// "ana@x.com" are the same account.
func (s *Service) Register(ctx context.Context, email, password, role string) (*User, string, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, "", ErrEmailRequired
	}
	if err := ValidatePassword(password); err != nil {
		return nil, "", err
	}
	if role == "" {
		role = auth.RolePatient
	}
	if role != auth.RoleAdmin && role != auth.RolePatient {
		return nil, "", ErrInvalidRole
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	u := &User{Email: email, PasswordHash: hash, Role: role}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, "", err
	}

	tok, err := auth.Sign(u.ID.String(), u.Role, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

// Login checks credentials and returns the user with a signed session token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	u, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	tok, err := auth.Sign(u.ID.String(), u.Role, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

// RequestRecovery issues a fresh single-use recovery token for the account
// and mails the reset link. The token is persisted before the mail is sent:
// a delivery failure surfaces as an error but does not roll the token back.
func (s *Service) RequestRecovery(ctx context.Context, email string) error {
	u, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return err
	}

	token, err := auth.GenerateRecoveryToken()
	if err != nil {
		return err
	}
	expiresAt := s.now().Add(s.recoveryTTL)
	if err := s.repo.SetRecovery(ctx, u.ID, token, expiresAt); err != nil {
		return err
	}

	err = s.mailer.Send(ctx, u.Email, "password-recovery", map[string]string{
		"recovery_link": fmt.Sprintf("%s/reset-password/%s", s.baseURL, token),
		"ttl":           s.recoveryTTL.String(),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", u.ID.String()).Msg("recovery mail delivery failed")
		return fmt.Errorf("send recovery mail: %w", err)
	}
	return nil
}

// ResetPassword consumes a recovery token and sets a new password. Both the
// used flag and the expiration are checked at call time; a consumed token
// fails any second reset.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	u, err := s.repo.GetByRecoveryToken(ctx, token)
	if err != nil {
		return err
	}
	if u.RecoveryUsed {
		return ErrTokenNotFound
	}
	if u.RecoveryExpiresAt == nil || s.now().After(*u.RecoveryExpiresAt) {
		return ErrTokenExpired
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.repo.ConsumeRecovery(ctx, u.ID, token, hash)
}
