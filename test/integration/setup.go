package integration

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	stdhttp "net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/vncsmyrnk/passport/internal/adapters/clock"
	handler "github.com/vncsmyrnk/passport/internal/adapters/handler/http"
	"github.com/vncsmyrnk/passport/internal/adapters/hash/bcrypt"
	repo "github.com/vncsmyrnk/passport/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/passport/internal/core/ports"
	"github.com/vncsmyrnk/passport/internal/core/services"
	"github.com/vncsmyrnk/passport/internal/token"
)

// RecordingSender keeps sent emails in memory so tests can fish the
// verification and reset links out of them.
type RecordingSender struct {
	mu   sync.Mutex
	Sent []ports.Email
	Err  error
}

func (s *RecordingSender) Send(ctx context.Context, email ports.Email) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	s.Sent = append(s.Sent, email)
	return uuid.New().String(), nil
}

type TestApp struct {
	DB          *sql.DB
	Server      *httptest.Server
	Client      *stdhttp.Client
	Sender      *RecordingSender
	Codec       *token.Codec
	DBContainer testcontainers.Container
}

func (app *TestApp) Teardown(t *testing.T) {
	t.Helper()
	app.Server.Close()
	require.NoError(t, app.DB.Close())
	require.NoError(t, app.DBContainer.Terminate(context.Background()))
}

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	dbName := "testdb"
	user := "user"
	password := "password"

	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(user),
		postgres.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func applyMigrations(db *sql.DB) error {
	dirPath := "../../internal/adapters/repository/postgres/migrations"

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if !strings.HasSuffix(entry.Name(), "up.sql") {
			continue
		}

		fullPath := filepath.Join(dirPath, entry.Name())
		content, err := os.ReadFile(fullPath)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		_, err = db.Exec(string(content))
		if err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

func setupApp(t *testing.T) *TestApp {
	t.Helper()

	ctx := context.Background()
	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)

	err = applyMigrations(db)
	require.NoError(t, err)

	userRepo := repo.NewUserRepository(db)
	sessionRepo := repo.NewSessionRepository(db)
	verificationRepo := repo.NewVerificationRepository(db)

	codec := token.NewCodec([]byte("test-access-secret"), []byte("test-refresh-secret"), 15*time.Minute, 30*24*time.Hour, nil)
	sender := &RecordingSender{}
	logger := slog.New(slog.DiscardHandler)

	authSvc := services.NewAuthService(
		userRepo,
		sessionRepo,
		verificationRepo,
		codec,
		bcrypt.NewHasher(4), // low cost to keep tests fast
		sender,
		clock.NewSystemClock(),
		services.AuthConfig{
			AppOrigin:         "https://app.example.com",
			SessionTTL:        30 * 24 * time.Hour,
			RenewalThreshold:  24 * time.Hour,
			EmailVerifyTTL:    365 * 24 * time.Hour,
			PasswordResetTTL:  time.Hour,
			ResetWindow:       5 * time.Minute,
			ResetMaxPerWindow: 1,
		},
		logger,
	)
	userSvc := services.NewUserService(userRepo)
	sessionSvc := services.NewSessionService(sessionRepo)

	cookies := handler.NewCookieWriter(handler.CookieConfig{
		SameSite:   stdhttp.SameSiteStrictMode,
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 30 * 24 * time.Hour,
	})

	authHandler := handler.NewAuthHandler(authSvc, cookies)
	userHandler := handler.NewUserHandler(userSvc)
	sessionHandler := handler.NewSessionHandler(sessionSvc)
	router := handler.NewHandler(authHandler, userHandler, sessionHandler, codec)

	server := httptest.NewServer(router)

	return &TestApp{
		DB:          db,
		Server:      server,
		Client:      server.Client(),
		Sender:      sender,
		Codec:       codec,
		DBContainer: dbContainer,
	}
}
