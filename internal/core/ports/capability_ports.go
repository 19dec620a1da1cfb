package ports

import (
	"context"
	"time"
)

// Hasher is the opaque one-way password hash capability.
type Hasher interface {
	Hash(password string) (string, error)
	// Compare reports whether password matches hash; any comparison
	// failure is treated as a mismatch.
	Compare(hash, password string) bool
}

type Email struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// EmailSender delivers a message and returns a provider message id.
// Whether a delivery error is fatal is the caller's decision.
type EmailSender interface {
	Send(ctx context.Context, email Email) (string, error)
}

// Clock supplies the current time; injectable so expiry arithmetic is
// testable.
type Clock interface {
	Now() time.Time
}
