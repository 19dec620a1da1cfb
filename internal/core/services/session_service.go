package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/passport/internal/core/domain"
	"github.com/vncsmyrnk/passport/internal/core/ports"
)

type sessionService struct {
	sessions ports.SessionRepository
}

func NewSessionService(sessions ports.SessionRepository) ports.SessionService {
	return &sessionService{sessions: sessions}
}

func (s *sessionService) List(ctx context.Context, userID uuid.UUID) ([]*domain.Session, error) {
	sessions, err := s.sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

func (s *sessionService) Revoke(ctx context.Context, userID, sessionID uuid.UUID) error {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	// Callers may only revoke their own sessions.
	if session == nil || session.UserID != userID {
		return domain.ErrSessionNotFound
	}

	return s.sessions.DeleteByID(ctx, sessionID)
}
