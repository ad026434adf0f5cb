package auth

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/motorlane/motorlane/internal/shared"
)

// Default credential lifetimes. A plain login lasts a day; "remember me"
// stretches to a week.
const (
	DefaultSessionTTL  = 24 * time.Hour
	DefaultRememberTTL = 7 * 24 * time.Hour
)

// ServiceConfig tunes credential lifetimes.
type ServiceConfig struct {
	SessionTTL  time.Duration
	RememberTTL time.Duration
}

// Service wraps authentication business rules.
type Service struct {
	repo        Repository
	codec       *TokenCodec
	sessionTTL  time.Duration
	rememberTTL time.Duration
}

// NewService constructs a new Service.
func NewService(repo Repository, codec *TokenCodec, cfg ServiceConfig) *Service {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	if cfg.RememberTTL <= 0 {
		cfg.RememberTTL = DefaultRememberTTL
	}
	return &Service{
		repo:        repo,
		codec:       codec,
		sessionTTL:  cfg.SessionTTL,
		rememberTTL: cfg.RememberTTL,
	}
}

// Login validates the credentials and issues a signed token. Unknown
// username, inactive account and password mismatch are indistinguishable
// to the caller.
func (s *Service) Login(ctx context.Context, username, password string, remember bool) (string, time.Duration, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", 0, shared.ErrInvalidCredentials
		}
		return "", 0, shared.ErrRepositoryUnavailable
	}
	if !user.IsActive {
		return "", 0, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", 0, shared.ErrInvalidCredentials
	}

	ttl := s.sessionTTL
	if remember {
		ttl = s.rememberTTL
	}
	identity := shared.Identity{UserID: user.ID, Username: user.Username, Role: user.RoleKey}
	token, err := s.codec.Issue(identity, ttl)
	if err != nil {
		return "", 0, err
	}
	return token, ttl, nil
}

// Identify resolves the identity embedded in a raw token.
func (s *Service) Identify(raw string) (*shared.Identity, error) {
	return s.codec.Verify(raw)
}
