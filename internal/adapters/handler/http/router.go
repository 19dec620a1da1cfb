package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/vncsmyrnk/passport/internal/token"
)

type CookieConfig struct {
	Domain     string
	SameSite   http.SameSite
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func NewCookieWriter(cfg CookieConfig) *CookieWriter {
	return &CookieWriter{
		domain:     cfg.Domain,
		sameSite:   cfg.SameSite,
		accessTTL:  int(cfg.AccessTTL.Seconds()),
		refreshTTL: int(cfg.RefreshTTL.Seconds()),
	}
}

func NewHandler(
	authHandler *AuthHandler,
	userHandler *UserHandler,
	sessionHandler *SessionHandler,
	codec *token.Codec,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Get("/refresh", authHandler.Refresh)
		r.Get("/logout", authHandler.Logout)
		r.Get("/email/verify/{code}", authHandler.VerifyEmail)
		r.Post("/password/forgot", authHandler.ForgotPassword)
		r.Post("/password/reset", authHandler.ResetPassword)
	})

	r.Group(func(r chi.Router) {
		r.Use(Authenticate(codec))

		r.Get("/user", userHandler.GetMe)

		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", sessionHandler.List)
			r.Delete("/{id}", sessionHandler.Delete)
		})
	})

	return r
}
