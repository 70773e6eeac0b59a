package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	HRAPI    HRAPIConfig
	Lock     LockConfig
	JWT      JWTConfig
	Database DatabaseConfig
	Watch    WatchConfig
}

// AppConfig holds gateway application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// HRAPIConfig points the gateway at the HR backend.
type HRAPIConfig struct {
	BaseURL string
	Token   string
	State   string
	Country string
}

// LockConfig points the gateway at the record-lock service.
type LockConfig struct {
	BaseURL    string
	SessionTTL time.Duration
}

type JWTConfig struct {
	Secret string
}

// DatabaseConfig holds the record-lock daemon's PostgreSQL settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// WatchConfig tunes the upstream pollers.
type WatchConfig struct {
	Interval time.Duration
	Cooldown time.Duration
}

func Load() (*Config, error) {
	// A missing .env file is fine in deployed environments.
	_ = godotenv.Load()

	config := &Config{}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}
	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	config.HRAPI = HRAPIConfig{
		BaseURL: getEnv("HRAPI_BASE_URL", ""),
		Token:   getEnv("HRAPI_TOKEN", ""),
		State:   getEnv("HOLIDAY_STATE", "VIC"),
		Country: getEnv("HOLIDAY_COUNTRY", "AU"),
	}

	sessionTTL, err := time.ParseDuration(getEnv("LOCK_SESSION_TTL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOCK_SESSION_TTL: %w", err)
	}
	config.Lock = LockConfig{
		BaseURL:    getEnv("LOCK_BASE_URL", ""),
		SessionTTL: sessionTTL,
	}

	config.JWT = JWTConfig{
		Secret: getEnv("JWT_SECRET_KEY", ""),
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hrops-locks"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	watchInterval, err := time.ParseDuration(getEnv("WATCH_INTERVAL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid WATCH_INTERVAL: %w", err)
	}
	watchCooldown, err := time.ParseDuration(getEnv("WATCH_COOLDOWN", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid WATCH_COOLDOWN: %w", err)
	}
	config.Watch = WatchConfig{
		Interval: watchInterval,
		Cooldown: watchCooldown,
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the gateway configuration.
func (c *Config) Validate() error {
	if c.HRAPI.BaseURL == "" {
		return fmt.Errorf("HRAPI_BASE_URL is required")
	}
	if c.HRAPI.Token == "" {
		return fmt.Errorf("HRAPI_TOKEN is required")
	}
	if c.Lock.BaseURL == "" {
		return fmt.Errorf("LOCK_BASE_URL is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	return nil
}

// ValidateLockService validates the settings the record-lock daemon needs.
func (c *Config) ValidateLockService() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
