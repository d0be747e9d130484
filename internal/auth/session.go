package auth

import (
	"context"
	"errors"
	"time"

	"github.com/ibrahimGoumrane/pfeManagerFront/internal/model"
)

const SessionCookie = "pfe_session"

var ErrSessionExpired = errors.New("session expired")

// Session ties a browser cookie to a backend token and the identity the
// backend returned for it.
type Session struct {
	ID        string      `json:"id"`
	Token     string      `json:"token"`
	User      *model.User `json:"user,omitempty"`
	ExpiresAt time.Time   `json:"expires_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store keeps sessions by id. Get returns (nil, nil) for unknown or expired
// sessions.
type Store interface {
	Create(ctx context.Context, token string, user *model.User) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}
