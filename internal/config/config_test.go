package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("PORT", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, 100, cfg.RateLimit.Requests)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window)
	assert.True(t, cfg.AutoMigrate)
	assert.False(t, cfg.AuthRequiredForWrites)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("PORT", "8081")
	t.Setenv("JWT_SECRET", "a-real-production-secret")
	t.Setenv("JWT_EXPIRY", "2h")
	t.Setenv("DB_MAX_OPEN_CONNS", "")
	t.Setenv("AUTH_REQUIRED_FOR_WRITES", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.False(t, cfg.AutoMigrate)
	assert.True(t, cfg.AuthRequiredForWrites)
}

func TestLoadRejectsDefaultSecretInProduction(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrDefaultSecretInProduction)
}

func TestLoadRejectsUnknownEnv(t *testing.T) {
	t.Setenv("ENV", "staging")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsWindowShorterThanRequests(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("RATE_LIMIT_REQUESTS", "100")
	t.Setenv("RATE_LIMIT_WINDOW", "50ns")

	_, err := Load()
	assert.ErrorIs(t, err, ErrRateLimitWindowTooShort)
}

func TestDataSourceName(t *testing.T) {
	db := DatabaseConfig{
		Host:     "db.internal",
		Port:     "3307",
		User:     "library",
		Password: "s3cret",
		Name:     "catalog",
	}

	dsn := db.DataSourceName()

	assert.Contains(t, dsn, "library:s3cret@tcp(db.internal:3307)/catalog")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "collation=utf8mb4_unicode_ci")
	assert.Contains(t, dsn, "clientFoundRows=true")
}

func TestDataSourceNameOverride(t *testing.T) {
	db := DatabaseConfig{DSN: "u:p@tcp(localhost:3306)/x?parseTime=true"}

	assert.Equal(t, "u:p@tcp(localhost:3306)/x?parseTime=true", db.DataSourceName())
}
