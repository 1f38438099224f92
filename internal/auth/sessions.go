// Package auth issues and resolves opaque session tokens.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/apperr"
	"github.com/spigell/jobmatch/internal/logger"
	"github.com/spigell/jobmatch/internal/users"
)

const (
	TokenLength = 32
	DefaultTTL  = 24 * time.Hour
)

// ErrSessionNotFound is returned by stores for unknown or expired tokens.
var ErrSessionNotFound = errors.New("session not found")

// Store keeps identities by token until they expire or are revoked.
type Store interface {
	Save(ctx context.Context, token string, id users.Identity, ttl time.Duration) error
	Load(ctx context.Context, token string) (users.Identity, error)
	Delete(ctx context.Context, token string) error
}

type Sessions struct {
	store  Store
	ttl    time.Duration
	logger *zap.Logger
}

func NewSessions(store Store, ttl time.Duration, log *zap.Logger) *Sessions {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Sessions{
		store:  store,
		ttl:    ttl,
		logger: logger.Component(log, "sessions"),
	}
}

// TTL is the lifetime of issued sessions.
func (s *Sessions) TTL() time.Duration { return s.ttl }

// Issue starts a session for id and returns its token.
func (s *Sessions) Issue(ctx context.Context, id users.Identity) (string, error) {
	token, err := gonanoid.New(TokenLength)
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, err, "generate session token")
	}
	if err := s.store.Save(ctx, token, id, s.ttl); err != nil {
		return "", apperr.Dependency(err, "save session")
	}

	s.logger.Debug("session issued", zap.String("user_id", id.UserID))
	return token, nil
}

// Resolve returns the identity bound to token.
func (s *Sessions) Resolve(ctx context.Context, token string) (users.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return users.Identity{}, apperr.Unauthenticated("not authenticated")
	}

	id, err := s.store.Load(ctx, token)
	if errors.Is(err, ErrSessionNotFound) {
		return users.Identity{}, apperr.Unauthenticated("session expired or invalid")
	}
	if err != nil {
		return users.Identity{}, apperr.Dependency(err, "load session")
	}
	return id, nil
}

// Revoke ends the session. Unknown tokens are ignored.
func (s *Sessions) Revoke(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	if err := s.store.Delete(ctx, token); err != nil {
		return apperr.Dependency(err, "delete session")
	}
	return nil
}
