package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/passport/internal/core/domain"
)

type VerificationRepository interface {
	Create(ctx context.Context, code *domain.VerificationCode) error
	// Consume atomically deletes and returns the code matching id, kind
	// and an expiry in the future. Returns nil when nothing matched, so
	// concurrent redemptions of the same code cannot both succeed.
	Consume(ctx context.Context, id uuid.UUID, kind domain.CodeKind) (*domain.VerificationCode, error)
	CountByUserSince(ctx context.Context, userID uuid.UUID, kind domain.CodeKind, since time.Time) (int, error)
}
