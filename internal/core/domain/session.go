package domain

import (
	"time"

	"github.com/google/uuid"
)

type Session struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	UserAgent string    `json:"user_agent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Active reports whether the session can still back a token refresh.
// The stored expiry is the source of truth, not the token's own.
func (s *Session) Active(now time.Time) bool {
	return s.ExpiresAt.After(now)
}
