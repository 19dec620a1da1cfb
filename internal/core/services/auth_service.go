package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/passport/internal/core/domain"
	"github.com/vncsmyrnk/passport/internal/core/ports"
	"github.com/vncsmyrnk/passport/internal/token"
)

// AuthConfig carries the TTL profile and origin URL used by the
// credential flows. Built once at startup, immutable afterwards.
type AuthConfig struct {
	AppOrigin         string
	SessionTTL        time.Duration // default 30 days
	RenewalThreshold  time.Duration // refresh within this of expiry renews the session
	EmailVerifyTTL    time.Duration // default ~1 year
	PasswordResetTTL  time.Duration // default 1 hour
	ResetWindow       time.Duration // rate-gate window for reset requests
	ResetMaxPerWindow int
}

type AuthService struct {
	users    ports.UserRepository
	sessions ports.SessionRepository
	codes    ports.VerificationRepository
	codec    *token.Codec
	hasher   ports.Hasher
	email    ports.EmailSender
	clock    ports.Clock
	gate     *RateGate
	cfg      AuthConfig
	logger   *slog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	sessions ports.SessionRepository,
	codes ports.VerificationRepository,
	codec *token.Codec,
	hasher ports.Hasher,
	email ports.EmailSender,
	clock ports.Clock,
	cfg AuthConfig,
	logger *slog.Logger,
) ports.AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		codes:    codes,
		codec:    codec,
		hasher:   hasher,
		email:    email,
		clock:    clock,
		gate:     NewRateGate(codes, clock),
		cfg:      cfg,
		logger:   logger,
	}
}

func (s *AuthService) CreateAccount(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	exists, err := s.users.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, domain.ErrEmailInUse
	}

	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.clock.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Email:        input.Email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// The unique index on email closes the race the exists-check
		// alone cannot; the repository maps that violation to ErrEmailInUse.
		if errors.Is(err, domain.ErrEmailInUse) {
			return nil, domain.ErrEmailInUse
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	code := &domain.VerificationCode{
		ID:        uuid.New(),
		UserID:    user.ID,
		Kind:      domain.CodeEmailVerification,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.EmailVerifyTTL),
	}
	if err := s.codes.Create(ctx, code); err != nil {
		return nil, fmt.Errorf("failed to create verification code: %w", err)
	}

	// Delivery failure is logged, not fatal: registration still succeeds.
	url := fmt.Sprintf("%s/email/verify/%s", s.cfg.AppOrigin, code.ID)
	if _, err := s.email.Send(ctx, verifyEmailTemplate(user.Email, url)); err != nil {
		s.logger.WarnContext(ctx, "failed to send verification email",
			"user_id", user.ID.String(), "error", err)
	}

	return s.openSession(ctx, user, input.UserAgent)
}

func (s *AuthService) Login(ctx context.Context, input ports.LoginInput) (*ports.AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	// Same error whether the email is unknown or the password is wrong,
	// so responses do not reveal which accounts exist.
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !s.hasher.Compare(user.PasswordHash, input.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	// Sessions are additive per login, never reused.
	return s.openSession(ctx, user, input.UserAgent)
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.RefreshResult, error) {
	claims, err := s.codec.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, domain.ErrInvalidRefreshToken
	}
	sessionID := uuid.MustParse(claims.SessionID)

	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	now := s.clock.Now()
	if session == nil || !session.Active(now) {
		return nil, domain.ErrSessionExpired
	}

	result := &ports.RefreshResult{}

	// Rolling renewal: only extend and rotate when the session is
	// within the threshold of expiring, to bound write load.
	if session.ExpiresAt.Sub(now) <= s.cfg.RenewalThreshold {
		newExpiry := now.Add(s.cfg.SessionTTL)
		if err := s.sessions.UpdateExpiry(ctx, session.ID, newExpiry); err != nil {
			return nil, fmt.Errorf("failed to extend session: %w", err)
		}

		rotated, err := s.codec.SignRefresh(session.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to sign refresh token: %w", err)
		}
		result.RefreshToken = rotated
	}

	access, err := s.codec.SignAccess(session.UserID, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	result.AccessToken = access

	return result, nil
}

func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.codec.VerifyAccess(accessToken)
	if err != nil {
		// Nothing to close; logout is idempotent from the client's view.
		return nil
	}
	return s.sessions.DeleteByID(ctx, uuid.MustParse(claims.SessionID))
}

func (s *AuthService) VerifyEmail(ctx context.Context, code string) (*domain.User, error) {
	codeID, err := uuid.Parse(code)
	if err != nil {
		return nil, domain.ErrCodeNotFound
	}

	consumed, err := s.codes.Consume(ctx, codeID, domain.CodeEmailVerification)
	if err != nil {
		return nil, fmt.Errorf("failed to consume verification code: %w", err)
	}
	if consumed == nil {
		return nil, domain.ErrCodeNotFound
	}

	user, err := s.users.SetVerified(ctx, consumed.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if user == nil {
		// A consumed code pointing at a missing user is a data-integrity
		// fault, not a user error.
		return nil, domain.ErrInternal
	}

	return user, nil
}

func (s *AuthService) SendPasswordResetEmail(ctx context.Context, email string) (*ports.ResetRequestResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	ok, err := s.gate.WithinLimit(ctx, user.ID, domain.CodePasswordReset, s.cfg.ResetWindow, s.cfg.ResetMaxPerWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to check reset rate limit: %w", err)
	}
	if !ok {
		return nil, domain.ErrTooManyRequests
	}

	now := s.clock.Now()
	code := &domain.VerificationCode{
		ID:        uuid.New(),
		UserID:    user.ID,
		Kind:      domain.CodePasswordReset,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.PasswordResetTTL),
	}
	if err := s.codes.Create(ctx, code); err != nil {
		return nil, fmt.Errorf("failed to create reset code: %w", err)
	}

	url := fmt.Sprintf("%s/password/reset?code=%s&exp=%d", s.cfg.AppOrigin, code.ID, code.ExpiresAt.UnixMilli())

	// Unlike registration, the reset email is the whole point of this
	// operation, so a failed delivery is surfaced.
	emailID, err := s.email.Send(ctx, passwordResetTemplate(user.Email, url))
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to send password reset email",
			"user_id", user.ID.String(), "error", err)
		return nil, domain.ErrInternal
	}

	return &ports.ResetRequestResult{URL: url, EmailID: emailID}, nil
}

func (s *AuthService) ResetPassword(ctx context.Context, code string, password string) (*domain.User, error) {
	codeID, err := uuid.Parse(code)
	if err != nil {
		return nil, domain.ErrCodeNotFound
	}

	consumed, err := s.codes.Consume(ctx, codeID, domain.CodePasswordReset)
	if err != nil {
		return nil, fmt.Errorf("failed to consume reset code: %w", err)
	}
	if consumed == nil {
		return nil, domain.ErrCodeNotFound
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.UpdatePassword(ctx, consumed.UserID, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}
	if user == nil {
		return nil, domain.ErrInternal
	}

	// Force logout everywhere: every outstanding refresh token dies
	// with its session.
	if err := s.sessions.DeleteByUser(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to close sessions: %w", err)
	}

	return user, nil
}

func (s *AuthService) openSession(ctx context.Context, user *domain.User, userAgent string) (*ports.AuthResult, error) {
	now := s.clock.Now()
	session := &domain.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		UserAgent: userAgent,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.SessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	accessToken, err := s.codec.SignAccess(user.ID, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	refreshToken, err := s.codec.SignRefresh(session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return &ports.AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
