package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/passport/internal/core/domain"
)

type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Session, error)
	UpdateExpiry(ctx context.Context, id uuid.UUID, expiresAt time.Time) error
	DeleteByID(ctx context.Context, id uuid.UUID) error
	// DeleteByUser removes every session owned by the user in a single
	// statement so revocation is atomic.
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

type SessionService interface {
	List(ctx context.Context, userID uuid.UUID) ([]*domain.Session, error)
	Revoke(ctx context.Context, userID, sessionID uuid.UUID) error
}
