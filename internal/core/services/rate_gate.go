package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/passport/internal/core/domain"
	"github.com/vncsmyrnk/passport/internal/core/ports"
)

// RateGate limits how often an action may be repeated per identity
// within a sliding window, by counting the verification codes the
// action has already produced. Only the password-reset path uses it
// today, but it is not tied to that kind.
type RateGate struct {
	codes ports.VerificationRepository
	clock ports.Clock
}

func NewRateGate(codes ports.VerificationRepository, clock ports.Clock) *RateGate {
	return &RateGate{codes: codes, clock: clock}
}

// WithinLimit reports whether issuing one more code of the given kind
// would keep the user at or under max codes per window.
func (g *RateGate) WithinLimit(ctx context.Context, userID uuid.UUID, kind domain.CodeKind, window time.Duration, max int) (bool, error) {
	since := g.clock.Now().Add(-window)
	count, err := g.codes.CountByUserSince(ctx, userID, kind, since)
	if err != nil {
		return false, err
	}
	return count < max, nil
}
