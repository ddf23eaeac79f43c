package config

import (
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Config collects every external parameter at process start. Components
// receive the values they need by injection; nothing reads the environment
// after Load returns.
type Config struct {
	HTTPAddr    string
	DatabaseURL string

	JWTSecret []byte
	JWTIssuer string

	ResendAPIKey string
	EmailFrom    string
	AppBaseURL   string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFrom       string

	RecoveryTTL    time.Duration
	AccessTokenTTL time.Duration
}

func Load() (*Config, error) {
	// .env is a developer convenience; absence is fine.
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret: []byte(os.Getenv("JWT_SECRET")),
		JWTIssuer: os.Getenv("JWT_ISSUER"),

		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		EmailFrom:    os.Getenv("EMAIL_FROM"),
		AppBaseURL:   os.Getenv("APP_BASE_URL"),

		TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFrom:       os.Getenv("TWILIO_PHONE_NUMBER"),

		RecoveryTTL:    15 * time.Minute,
		AccessTokenTTL: 15 * time.Minute,
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if len(cfg.JWTSecret) == 0 {
		return nil, errors.New("JWT_SECRET is required")
	}
	return cfg, nil
}

// OpenDatabase connects to Postgres. TranslateError lets the repository
// recognize unique-constraint violations as gorm.ErrDuplicatedKey.
func OpenDatabase(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DatabaseURL,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt:    false,
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}

func getenv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
