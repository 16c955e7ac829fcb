package config

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"

	defaultJWTSecret = "dev-secret-change-in-production"
)

var (
	ErrDefaultSecretInProduction = errors.New("JWT_SECRET must be set in production environment")
	ErrRateLimitWindowTooShort   = errors.New("RATE_LIMIT_WINDOW must be at least RATE_LIMIT_REQUESTS nanoseconds")
)

type Config struct {
	Port     string `validate:"required,numeric"`
	Env      string `validate:"required,oneof=development production test"`
	LogLevel string `validate:"omitempty,oneof=debug info warn error"`

	Database  DatabaseConfig
	JWTSecret string        `validate:"required"`
	JWTExpiry time.Duration `validate:"gt=0"`
	RateLimit RateLimitConfig

	// AutoMigrate applies pending schema migrations on start-up.
	AutoMigrate bool
	// AuthRequiredForWrites puts book mutations behind required authentication.
	AuthRequiredForWrites bool
}

type DatabaseConfig struct {
	Host     string `validate:"required_without=DSN"`
	Port     string `validate:"required_without=DSN"`
	User     string `validate:"required_without=DSN"`
	Password string
	Name     string `validate:"required_without=DSN"`
	// DSN, when set, overrides the individual connection fields.
	DSN string

	MaxOpenConns    int           `validate:"gte=1"`
	MaxIdleConns    int           `validate:"gte=0"`
	ConnMaxLifetime time.Duration `validate:"gte=0"`
}

type RateLimitConfig struct {
	Requests int           `validate:"gte=0"`
	Window   time.Duration `validate:"gt=0"`
}

// Load reads configuration from the environment. Call godotenv before it if a
// .env file should be honoured.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "3000")
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("DB_HOST", "127.0.0.1")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_USER", "root")
	v.SetDefault("DB_NAME", "library")
	v.SetDefault("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_EXPIRY", 24*time.Hour)
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_WINDOW", 15*time.Minute)
	v.SetDefault("AUTH_REQUIRED_FOR_WRITES", false)

	env := v.GetString("ENV")

	// Production gets a larger pool and no implicit schema changes.
	if env == EnvProduction {
		v.SetDefault("DB_MAX_OPEN_CONNS", 20)
		v.SetDefault("DB_MAX_IDLE_CONNS", 5)
		v.SetDefault("AUTO_MIGRATE", false)
	} else {
		v.SetDefault("DB_MAX_OPEN_CONNS", 10)
		v.SetDefault("DB_MAX_IDLE_CONNS", 2)
		v.SetDefault("AUTO_MIGRATE", true)
	}

	cfg := Config{
		Port:     v.GetString("PORT"),
		Env:      env,
		LogLevel: v.GetString("LOG_LEVEL"),
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetString("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			DSN:             v.GetString("DATABASE_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		JWTSecret: v.GetString("JWT_SECRET"),
		JWTExpiry: v.GetDuration("JWT_EXPIRY"),
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   v.GetDuration("RATE_LIMIT_WINDOW"),
		},
		AutoMigrate:           v.GetBool("AUTO_MIGRATE"),
		AuthRequiredForWrites: v.GetBool("AUTH_REQUIRED_FOR_WRITES"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks field constraints and the production secret rule.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Env == EnvProduction && c.JWTSecret == defaultJWTSecret {
		return ErrDefaultSecretInProduction
	}
	if c.RateLimit.Requests > 0 && c.RateLimit.Window < time.Duration(c.RateLimit.Requests) {
		return ErrRateLimitWindowTooShort
	}
	return nil
}

// IsDevelopment reports whether stack detail and verbose logging are enabled.
func (c Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// DataSourceName returns the MySQL DSN for the configured database.
func (c DatabaseConfig) DataSourceName() string {
	if c.DSN != "" {
		return c.DSN
	}

	mc := mysql.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(c.Host, c.Port)
	mc.DBName = c.Name
	mc.ParseTime = true
	mc.Collation = "utf8mb4_unicode_ci"
	mc.Loc = time.UTC
	mc.ClientFoundRows = true

	return mc.FormatDSN()
}
