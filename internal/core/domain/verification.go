package domain

import (
	"time"

	"github.com/google/uuid"
)

type CodeKind string

const (
	CodeEmailVerification CodeKind = "email_verification"
	CodePasswordReset     CodeKind = "password_reset"
)

// VerificationCode is a single-use, time-boxed code tied to a user.
// Consumption deletes it; there is no "used" flag.
type VerificationCode struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Kind      CodeKind  `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
