package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const strongSecret = "0123456789abcdef0123456789abcdef"

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "CLIENT_URL", "STORE_DRIVER", "JWT_EXPIRATION", "CORS_ORIGINS", "NOTIFICATION_WORKERS"} {
		t.Setenv(k, "")
	}
	t.Setenv("JWT_SECRET", strongSecret)

	cfg := FromEnv()

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, StoreMongo, cfg.StoreDriver)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiration)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, 2, cfg.NotificationWorkers)
	assert.NoError(t, cfg.Validate())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("CLIENT_URL", "https://heartlink.example/")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("STORE_DRIVER", StoreSQLite)
	t.Setenv("CANDIDATE_CACHE_TTL", "30s")
	t.Setenv("NOTIFICATION_WORKERS", "4")

	cfg := FromEnv()

	assert.Equal(t, "https://heartlink.example", cfg.ClientURL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, StoreSQLite, cfg.StoreDriver)
	assert.Equal(t, 30*time.Second, cfg.CandidateTTL)
	assert.Equal(t, 4, cfg.NotificationWorkers)
}

func TestFromEnv_Postgres(t *testing.T) {
	t.Setenv("STORE_DRIVER", StorePostgres)
	t.Setenv("DB_USER", "envuser")
	t.Setenv("DB_PASSWORD", "envpass")
	t.Setenv("DB_NAME", "envdb")
	t.Setenv("DB_HOST", "envhost")
	t.Setenv("DB_PORT", "")
	t.Setenv("DB_SSLMODE", "")
	t.Setenv("JWT_SECRET", strongSecret)

	cfg := FromEnv()

	assert.Equal(t, "envhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "envuser", cfg.DBUser)
	assert.Equal(t, "envpass", cfg.DBPassword)
	assert.Equal(t, "envdb", cfg.DBName)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.NoError(t, cfg.Validate())

	t.Setenv("DB_HOST", "")
	assert.ErrorContains(t, FromEnv().Validate(), "DB_HOST")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		return &Config{
			JWTSecret:           strongSecret,
			JWTExpiration:       time.Hour,
			StoreDriver:         StorePostgres,
			DBHost:              "localhost",
			DBName:              "heartlink",
			NotificationWorkers: 1,
			NotificationQueue:   1,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing secret", func(c *Config) { c.JWTSecret = "" }, "JWT_SECRET"},
		{"short secret", func(c *Config) { c.JWTSecret = "short" }, "JWT_SECRET"},
		{"unknown driver", func(c *Config) { c.StoreDriver = "cassandra" }, "STORE_DRIVER"},
		{"mongo without uri", func(c *Config) { c.StoreDriver = StoreMongo }, "MONGODB_URI"},
		{"postgres without host", func(c *Config) { c.DBHost = "" }, "DB_HOST"},
		{"postgres without database", func(c *Config) { c.DBName = "" }, "DB_NAME"},
		{"sqlite ignores db settings", func(c *Config) { c.StoreDriver, c.DBHost = StoreSQLite, "" }, ""},
		{"no workers", func(c *Config) { c.NotificationWorkers = 0 }, "NOTIFICATION_WORKERS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
