// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// minSecretLength is the minimum JWT secret size in bytes for HS256.
const minSecretLength = 32

// Config is the application configuration.
type Config struct {
	Port      string
	ClientURL string

	JWTSecret     string
	JWTExpiration time.Duration

	// StoreDriver selects the persistence backend.
	StoreDriver string
	MongoURI    string
	MongoDB     string
	SQLitePath  string

	// DB* are used when StoreDriver is postgres.
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// RedisAddr is optional; an empty value disables the candidate cache.
	RedisAddr     string
	RedisPassword string
	CandidateTTL  time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	NotificationWorkers int
	NotificationQueue   int

	// S3Bucket is optional; an empty value disables picture uploads.
	S3Bucket        string
	S3PublicBaseURL string
	// ModeratePictures enables Cloud Vision SafeSearch on uploads.
	ModeratePictures bool

	CORSOrigins []string
}

// Load reads .env (if present) and the process environment, then validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}
	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a Config from environment variables without validating it.
func FromEnv() *Config {
	return &Config{
		Port:      getEnvOrDefault("PORT", "5000"),
		ClientURL: strings.TrimRight(getEnvOrDefault("CLIENT_URL", "http://localhost:3000"), "/"),

		JWTSecret:     os.Getenv("JWT_SECRET"),
		JWTExpiration: getDurationOrDefault("JWT_EXPIRATION", 24*time.Hour),

		StoreDriver: getEnvOrDefault("STORE_DRIVER", StoreMongo),
		MongoURI:    getEnvOrDefault("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDB:     getEnvOrDefault("MONGODB_DATABASE", "heartlink"),
		SQLitePath:  getEnvOrDefault("SQLITE_PATH", "heartlink.db"),

		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     getEnvOrDefault("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSSLMode:  getEnvOrDefault("DB_SSLMODE", "disable"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		CandidateTTL:  getDurationOrDefault("CANDIDATE_CACHE_TTL", time.Minute),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvOrDefault("SMTP_PORT", "587"),
		SMTPUser:     os.Getenv("EMAIL_USER"),
		SMTPPassword: os.Getenv("EMAIL_PASSWORD"),
		MailFrom:     getEnvOrDefault("EMAIL_FROM", os.Getenv("EMAIL_USER")),

		NotificationWorkers: getIntOrDefault("NOTIFICATION_WORKERS", 2),
		NotificationQueue:   getIntOrDefault("NOTIFICATION_QUEUE", 256),

		S3Bucket:         os.Getenv("S3_BUCKET"),
		S3PublicBaseURL:  strings.TrimRight(os.Getenv("S3_PUBLIC_BASE_URL"), "/"),
		ModeratePictures: os.Getenv("MODERATE_PICTURES") == "true",

		CORSOrigins: splitList(getEnvOrDefault("CORS_ORIGINS", getEnvOrDefault("CLIENT_URL", "http://localhost:3000"))),
	}
}

// Validate fails fast on settings the server cannot run without.
func (c *Config) Validate() error {
	var errs []error
	if len(c.JWTSecret) < minSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes", minSecretLength))
	}
	switch c.StoreDriver {
	case StoreMongo:
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGODB_URI is required for the mongo store"))
		}
	case StorePostgres:
		if c.DBHost == "" || c.DBName == "" {
			errs = append(errs, errors.New("DB_HOST and DB_NAME are required for the postgres store"))
		}
	case StoreSQLite:
	default:
		errs = append(errs, fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver))
	}
	if c.JWTExpiration <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRATION must be positive"))
	}
	if c.NotificationWorkers < 1 || c.NotificationQueue < 1 {
		errs = append(errs, errors.New("NOTIFICATION_WORKERS and NOTIFICATION_QUEUE must be positive"))
	}
	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
