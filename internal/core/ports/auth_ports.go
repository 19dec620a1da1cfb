package ports

import (
	"context"

	"github.com/vncsmyrnk/passport/internal/core/domain"
)

type RegisterInput struct {
	Email     string
	Password  string
	UserAgent string
}

type LoginInput struct {
	Email     string
	Password  string
	UserAgent string
}

type AuthResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

type RefreshResult struct {
	AccessToken string
	// RefreshToken is empty when the session was not close enough to
	// expiry to be renewed; the caller keeps using the old one.
	RefreshToken string
}

type ResetRequestResult struct {
	URL     string
	EmailID string
}

type AuthService interface {
	CreateAccount(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error)
	Logout(ctx context.Context, accessToken string) error
	VerifyEmail(ctx context.Context, code string) (*domain.User, error)
	SendPasswordResetEmail(ctx context.Context, email string) (*ResetRequestResult, error)
	ResetPassword(ctx context.Context, code string, password string) (*domain.User, error)
}
