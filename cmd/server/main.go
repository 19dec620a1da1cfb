package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/vncsmyrnk/passport/internal/adapters/clock"
	"github.com/vncsmyrnk/passport/internal/adapters/email"
	"github.com/vncsmyrnk/passport/internal/adapters/handler/http"
	"github.com/vncsmyrnk/passport/internal/adapters/hash/bcrypt"
	repo "github.com/vncsmyrnk/passport/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/passport/internal/config"
	"github.com/vncsmyrnk/passport/internal/core/ports"
	"github.com/vncsmyrnk/passport/internal/core/services"
	"github.com/vncsmyrnk/passport/internal/token"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded, using environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := sql.Open("postgres", cfg.DBConnString())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	userRepo := repo.NewUserRepository(db)
	sessionRepo := repo.NewSessionRepository(db)
	verificationRepo := repo.NewVerificationRepository(db)

	codec := token.NewCodec(
		[]byte(cfg.JWTAccessSecret),
		[]byte(cfg.JWTRefreshSecret),
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
		nil,
	)

	var sender ports.EmailSender
	if cfg.SMTPAddr != "" {
		sender = email.NewSMTPSender(cfg.SMTPAddr, cfg.SMTPUsername, cfg.SMTPPassword, cfg.EmailSender)
	} else {
		sender = email.NewLogSender(logger)
	}

	authSvc := services.NewAuthService(
		userRepo,
		sessionRepo,
		verificationRepo,
		codec,
		bcrypt.NewHasher(cfg.BcryptCost),
		sender,
		clock.NewSystemClock(),
		services.AuthConfig{
			AppOrigin:         cfg.AppOrigin,
			SessionTTL:        cfg.SessionTTL,
			RenewalThreshold:  cfg.RenewalThreshold,
			EmailVerifyTTL:    cfg.EmailVerifyTTL,
			PasswordResetTTL:  cfg.PasswordResetTTL,
			ResetWindow:       cfg.ResetWindow,
			ResetMaxPerWindow: cfg.ResetMaxPerWindow,
		},
		logger,
	)
	userSvc := services.NewUserService(userRepo)
	sessionSvc := services.NewSessionService(sessionRepo)

	cookies := http.NewCookieWriter(http.CookieConfig{
		SameSite:   stdhttp.SameSiteStrictMode,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	})

	authHandler := http.NewAuthHandler(authSvc, cookies)
	userHandler := http.NewUserHandler(userSvc)
	sessionHandler := http.NewSessionHandler(sessionSvc)
	handler := http.NewHandler(authHandler, userHandler, sessionHandler, codec)

	server := &stdhttp.Server{Addr: cfg.Addr, Handler: handler}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	logger.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
}
