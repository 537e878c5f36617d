package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Catalog sources selectable with CATALOG_SOURCE.
const (
	CatalogSourceFile     = "file"
	CatalogSourceS3       = "s3"
	CatalogSourcePostgres = "postgres"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Catalog  CatalogConfig
	S3       S3Config
	Cart     CartConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database-related configuration. It is only used
// when the catalog is served from PostgreSQL.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// AuthConfig holds the API key and the identity token settings. An empty
// SessionSecret turns identity tokens off.
type AuthConfig struct {
	APIKey        string
	SessionSecret string
	SessionTTL    time.Duration
}

// CatalogConfig selects where products come from.
type CatalogConfig struct {
	Source string
	File   string // gzipped JSON lines; also the S3 key suffix and fallback path
}

// S3Config holds AWS S3 configuration for the catalog feed.
type S3Config struct {
	Bucket string
	Region string
	Prefix string // Path prefix within bucket (e.g., "catalog/")
}

// CartConfig holds the timings of the cart and checkout.
type CartConfig struct {
	AddDelay   time.Duration
	ClearDelay time.Duration
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "furnistore"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 25),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 5),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			APIKey:        getEnv("API_KEY", ""),
			SessionSecret: getEnv("SESSION_SECRET", ""),
			SessionTTL:    getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		},
		Catalog: CatalogConfig{
			Source: getEnv("CATALOG_SOURCE", CatalogSourceFile),
			File:   getEnv("CATALOG_FILE", "data/catalog/products.jsonl.gz"),
		},
		S3: S3Config{
			Bucket: getEnv("S3_BUCKET", ""),
			Region: getEnv("S3_REGION", "us-east-1"),
			Prefix: getEnv("S3_PREFIX", "catalog/"),
		},
		Cart: CartConfig{
			AddDelay:   getEnvAsDuration("CART_ADD_DELAY", 500*time.Millisecond),
			ClearDelay: getEnvAsDuration("CHECKOUT_CLEAR_DELAY", 3*time.Second),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Auth.APIKey == "" {
		return fmt.Errorf("API key is required")
	}

	if c.Auth.SessionSecret != "" && c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("session TTL must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.Cart.AddDelay < 0 {
		return fmt.Errorf("cart add delay must not be negative")
	}

	if c.Cart.ClearDelay < 0 {
		return fmt.Errorf("checkout clear delay must not be negative")
	}

	switch c.Catalog.Source {
	case CatalogSourceFile:
		if c.Catalog.File == "" {
			return fmt.Errorf("catalog file is required")
		}
	case CatalogSourceS3:
		if c.Catalog.File == "" {
			return fmt.Errorf("catalog file is required")
		}
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when the catalog source is s3")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required when the catalog source is s3")
		}
	case CatalogSourcePostgres:
		return c.Database.validate()
	default:
		return fmt.Errorf("invalid catalog source: %s (must be file, s3, or postgres)", c.Catalog.Source)
	}

	return nil
}

func (c *DatabaseConfig) validate() error {
	if c.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Port)
	}

	if c.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.MinConnections > c.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration parses values such as "500ms" or "3s". Unparsable values
// fall back to the default.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
