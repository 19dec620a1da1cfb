package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is built once at startup and treated as immutable; secrets
// and TTL profiles never change while the process runs.
type Config struct {
	Addr      string
	AppOrigin string

	PostgresDB       string
	PostgresUser     string
	PostgresPassword string
	PostgresHost     string
	PostgresPort     string

	JWTAccessSecret  string
	JWTRefreshSecret string

	AccessTokenTTL    time.Duration
	RefreshTokenTTL   time.Duration
	SessionTTL        time.Duration
	RenewalThreshold  time.Duration
	EmailVerifyTTL    time.Duration
	PasswordResetTTL  time.Duration
	ResetWindow       time.Duration
	ResetMaxPerWindow int

	BcryptCost int

	SMTPAddr     string
	SMTPUsername string
	SMTPPassword string
	EmailSender  string
}

func Load() (*Config, error) {
	cfg := &Config{
		Addr:      getEnv("ADDR", "0.0.0.0:8080"),
		AppOrigin: getEnv("APP_ORIGIN", "http://localhost:5173"),

		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),

		JWTAccessSecret:  os.Getenv("JWT_ACCESS_SECRET"),
		JWTRefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),

		AccessTokenTTL:    getDurationEnv("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL:   getDurationEnv("REFRESH_TOKEN_TTL", 30*24*time.Hour),
		SessionTTL:        getDurationEnv("SESSION_TTL", 30*24*time.Hour),
		RenewalThreshold:  getDurationEnv("SESSION_RENEWAL_THRESHOLD", 24*time.Hour),
		EmailVerifyTTL:    getDurationEnv("EMAIL_VERIFY_TTL", 365*24*time.Hour),
		PasswordResetTTL:  getDurationEnv("PASSWORD_RESET_TTL", time.Hour),
		ResetWindow:       getDurationEnv("RESET_WINDOW", 5*time.Minute),
		ResetMaxPerWindow: getIntEnv("RESET_MAX_PER_WINDOW", 1),

		BcryptCost: getIntEnv("BCRYPT_COST", 10),

		SMTPAddr:     os.Getenv("SMTP_ADDR"),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		EmailSender:  getEnv("EMAIL_SENDER", "no-reply@localhost"),
	}

	if cfg.JWTAccessSecret == "" || cfg.JWTRefreshSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET are required")
	}
	if cfg.JWTAccessSecret == cfg.JWTRefreshSecret {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
	}

	return cfg, nil
}

func (c *Config) DBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.PostgresUser, c.PostgresPassword, c.PostgresHost, c.PostgresPort, c.PostgresDB)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getIntEnv(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
