package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/passport/internal/core/domain"
	"github.com/vncsmyrnk/passport/internal/core/ports"
)

type VerificationRepository struct {
	db *sql.DB
}

func NewVerificationRepository(db *sql.DB) ports.VerificationRepository {
	return &VerificationRepository{db: db}
}

func (r *VerificationRepository) Create(ctx context.Context, code *domain.VerificationCode) error {
	query := `
		INSERT INTO verification_codes (id, user_id, kind, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, code.ID, code.UserID, code.Kind, code.CreatedAt, code.ExpiresAt)
	return err
}

// Consume deletes and returns the code in one statement, so two
// concurrent redemptions of the same code cannot both succeed.
func (r *VerificationRepository) Consume(ctx context.Context, id uuid.UUID, kind domain.CodeKind) (*domain.VerificationCode, error) {
	query := `
		DELETE FROM verification_codes
		WHERE id = $1 AND kind = $2 AND expires_at > now()
		RETURNING id, user_id, kind, created_at, expires_at
	`
	code := &domain.VerificationCode{}
	err := r.db.QueryRowContext(ctx, query, id, kind).Scan(
		&code.ID,
		&code.UserID,
		&code.Kind,
		&code.CreatedAt,
		&code.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return code, nil
}

func (r *VerificationRepository) CountByUserSince(ctx context.Context, userID uuid.UUID, kind domain.CodeKind, since time.Time) (int, error) {
	query := `
		SELECT count(*) FROM verification_codes
		WHERE user_id = $1 AND kind = $2 AND created_at > $3
	`
	var count int
	if err := r.db.QueryRowContext(ctx, query, userID, kind, since).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
