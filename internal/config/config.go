package config

import (
	"fmt"
	"strings"

	"volunteer-connect/internal/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	defaultJWTSecret        = "default_secret"
	defaultJWTRefreshSecret = "default_refresh_secret"
)

// Config holds all configuration for the application
type Config struct {
	AppMode   string `envconfig:"APP_MODE" default:"dev"`
	Port      string `envconfig:"PORT" default:"3000"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	Database  DatabaseConfig
	JWT       JWTConfig
	Cookie    CookieConfig
	Cron      CronConfig
	RateLimit RateLimitConfig
	Seed      SeedConfig

	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string `envconfig:"DB_DRIVER" default:"mysql"`
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"3306"`
	User     string `envconfig:"DB_USER" default:"root"`
	Password string `envconfig:"DB_PASS"`
	DBName   string `envconfig:"DB_NAME" default:"volunteer_connect"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	// Path is the database file for the sqlite driver
	Path string `envconfig:"DB_PATH" default:"volunteer_connect.db"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string `envconfig:"JWT_SECRET" default:"default_secret"`
	RefreshSecret    string `envconfig:"JWT_REFRESH_SECRET" default:"default_refresh_secret"`
	AccessTokenMins  int    `envconfig:"ACCESS_TOKEN_MINUTES" default:"15"`
	RefreshTokenDays int    `envconfig:"REFRESH_TOKEN_DAYS" default:"7"`
}

// CookieConfig holds cookie configuration
type CookieConfig struct {
	Secure   bool   `envconfig:"COOKIE_SECURE" default:"false"`
	SameSite string `envconfig:"COOKIE_SAMESITE" default:"lax"`
	Domain   string `envconfig:"COOKIE_DOMAIN"`
}

// CronConfig holds housekeeping scheduler configuration
type CronConfig struct {
	Enabled bool `envconfig:"CRON_ENABLED" default:"true"`

	// CompleteAfterHours is how long after its date an ACTIVE mission is
	// moved to COMPLETED
	CompleteAfterHours int `envconfig:"MISSION_COMPLETE_AFTER_HOURS" default:"24"`
}

// RateLimitConfig holds per-IP request limits per minute. Zero disables a limiter.
type RateLimitConfig struct {
	General int `envconfig:"RATE_LIMIT_GENERAL" default:"100"`
	Auth    int `envconfig:"RATE_LIMIT_AUTH" default:"5"`
}

// SeedConfig holds the credentials of the bootstrap admin account
type SeedConfig struct {
	AdminEmail    string `envconfig:"SEED_ADMIN_EMAIL" default:"admin@volunteerconnect.org"`
	AdminPassword string `envconfig:"SEED_ADMIN_PASSWORD" default:"admin123456"`
}

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// .env is optional; production supplies real environment variables
	if err := godotenv.Load(); err != nil {
		logger.Log.Debug(".env file not found, using environment variables")
	}

	cfg := new(Config)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// normalize trims and validates values that envconfig cannot check
func (c *Config) normalize() error {
	// trim spaces for Windows compatibility
	c.AppMode = strings.TrimSpace(c.AppMode)
	if c.AppMode != "dev" && c.AppMode != "prod" {
		return fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", c.AppMode)
	}

	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("invalid DB_DRIVER: '%s' (must be mysql, postgres or sqlite)", c.Database.Driver)
	}

	if c.JWT.Secret == "" || c.JWT.RefreshSecret == "" {
		return fmt.Errorf("JWT_SECRET and JWT_REFRESH_SECRET must not be empty")
	}
	if c.IsProd() && (c.JWT.Secret == defaultJWTSecret || c.JWT.RefreshSecret == defaultJWTRefreshSecret) {
		return fmt.Errorf("JWT_SECRET and JWT_REFRESH_SECRET must be set in prod mode")
	}

	if c.JWT.AccessTokenMins < 1 {
		c.JWT.AccessTokenMins = 15
	}
	if c.JWT.RefreshTokenDays < 1 {
		c.JWT.RefreshTokenDays = 7
	}
	c.Seed.AdminEmail = strings.ToLower(strings.TrimSpace(c.Seed.AdminEmail))

	if c.Cron.CompleteAfterHours < 0 {
		c.Cron.CompleteAfterHours = 0
	}

	return nil
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	if c.AllowedOrigins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://volunteerconnect.org"
	}
	return c.AllowedOrigins
}
