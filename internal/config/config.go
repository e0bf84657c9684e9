package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Store drivers accepted in STORE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Database  DatabaseConfig
	SQLite    SQLiteConfig
	Redis     RedisConfig
	Shortener ShortenerConfig
	App       AppConfig
	Reporting ReportingConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `envconfig:"SERVER_PORT" required:"true"`
	Host            string        `envconfig:"SERVER_HOST" required:"true"`
	BaseURL         string        `envconfig:"SERVER_BASE_URL" required:"true"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" required:"true"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" required:"true"`
	IdleTimeout     time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" required:"true"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" required:"true"`
	// AllowedOrigins lists CORS origins, comma-separated. Empty allows any.
	AllowedOrigins  []string      `envconfig:"SERVER_ALLOWED_ORIGINS"`
}

// Validate validates the server configuration.
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port cannot be empty")
	}
	if c.Host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive")
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("write timeout must be positive")
	}
	if c.IdleTimeout <= 0 {
		return fmt.Errorf("idle timeout must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}
	return nil
}

// StoreConfig selects the mapping store backend.
type StoreConfig struct {
	Driver string `envconfig:"STORE_DRIVER" default:"postgres"`
}

// Validate validates the store configuration.
func (c *StoreConfig) Validate() error {
	switch c.Driver {
	case DriverPostgres, DriverSQLite, DriverRedis, DriverMemory:
		return nil
	default:
		return fmt.Errorf("invalid store driver: %s (must be one of: postgres, sqlite, redis, memory)", c.Driver)
	}
}

// DatabaseConfig holds PostgreSQL connection configuration. It is only
// loaded when the postgres driver is selected.
//
// Two credential tiers are accepted: the restricted DB_USER/DB_PASSWORD and
// an optional privileged DB_SERVICE_USER/DB_SERVICE_PASSWORD. The privileged
// tier wins when both of its fields are set.
type DatabaseConfig struct {
	Host            string `envconfig:"DB_HOST" required:"true"`
	Port            string `envconfig:"DB_PORT" required:"true"`
	User            string `envconfig:"DB_USER"`
	Password        string `envconfig:"DB_PASSWORD"`
	ServiceUser     string `envconfig:"DB_SERVICE_USER"`
	ServicePassword string `envconfig:"DB_SERVICE_PASSWORD"`
	Name            string `envconfig:"DB_NAME" required:"true"`
	SSLMode         string `envconfig:"DB_SSLMODE" required:"true"`
	MaxConns        int32  `envconfig:"DB_MAX_CONNS" required:"true"`
	MinConns        int32  `envconfig:"DB_MIN_CONNS" required:"true"`
}

// Credential tiers reported by DatabaseConfig.Credentials.
const (
	TierService    = "service"
	TierRestricted = "restricted"
)

// Validate validates the database configuration.
func (c *DatabaseConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if c.Port == "" {
		return fmt.Errorf("port cannot be empty")
	}
	if (c.ServiceUser == "") != (c.ServicePassword == "") {
		return fmt.Errorf("service user and service password must be set together")
	}
	if c.ServiceUser == "" {
		if c.User == "" {
			return fmt.Errorf("user cannot be empty")
		}
		if c.Password == "" {
			return fmt.Errorf("password cannot be empty")
		}
	}
	if c.Name == "" {
		return fmt.Errorf("database name cannot be empty")
	}
	if c.MaxConns <= 0 {
		return fmt.Errorf("max connections must be positive")
	}
	if c.MinConns <= 0 {
		return fmt.Errorf("min connections must be positive")
	}
	if c.MinConns > c.MaxConns {
		return fmt.Errorf("min connections (%d) cannot be greater than max connections (%d)", c.MinConns, c.MaxConns)
	}

	validSSLModes := map[string]bool{
		"disable":     true,
		"require":     true,
		"verify-ca":   true,
		"verify-full": true,
	}
	if !validSSLModes[c.SSLMode] {
		return fmt.Errorf("invalid SSL mode: %s (must be one of: disable, require, verify-ca, verify-full)", c.SSLMode)
	}
	return nil
}

// Credentials returns the user and password to connect with and the tier
// they came from.
func (c *DatabaseConfig) Credentials() (user, password, tier string) {
	if c.ServiceUser != "" && c.ServicePassword != "" {
		return c.ServiceUser, c.ServicePassword, TierService
	}
	return c.User, c.Password, TierRestricted
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	user, password, _ := c.Credentials()
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, user, password, c.Name, c.SSLMode,
	)
}

// SQLiteConfig holds the SQLite or libSQL database location.
type SQLiteConfig struct {
	DSN string `envconfig:"SQLITE_DSN" default:"file:shortlinks.db"`
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr      string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password  string `envconfig:"REDIS_PASSWORD"`
	DB        int    `envconfig:"REDIS_DB" default:"0"`
	KeyPrefix string `envconfig:"REDIS_KEY_PREFIX" default:"shortlinks:"`
}

// Validate validates the redis configuration.
func (c *RedisConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("address cannot be empty")
	}
	if c.DB < 0 {
		return fmt.Errorf("db must not be negative")
	}
	return nil
}

// ShortenerConfig holds code allocation and resolution settings.
type ShortenerConfig struct {
	CodeLength       int           `envconfig:"CODE_LENGTH" default:"7"`
	MaxAttempts      int           `envconfig:"CODE_MAX_ATTEMPTS" default:"3"`
	IncrementTimeout time.Duration `envconfig:"INCREMENT_TIMEOUT" default:"5s"`
}

// Validate validates the shortener configuration.
func (c *ShortenerConfig) Validate() error {
	if c.CodeLength < 4 || c.CodeLength > 32 {
		return fmt.Errorf("code length must be between 4 and 32, got %d", c.CodeLength)
	}
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("max attempts must be positive")
	}
	if c.IncrementTimeout <= 0 {
		return fmt.Errorf("increment timeout must be positive")
	}
	return nil
}

// AppConfig holds application-specific configuration.
type AppConfig struct {
	Environment string `envconfig:"APP_ENV" required:"true"`   // development, staging, production, test
	LogLevel    string `envconfig:"LOG_LEVEL" required:"true"` // debug, info, warn, error

	// LogFile, when set, also writes logs to a size-rotated file.
	LogFile       string `envconfig:"LOG_FILE"`
	LogMaxSizeMB  int    `envconfig:"LOG_MAX_SIZE_MB" default:"100"`
	LogMaxBackups int    `envconfig:"LOG_MAX_BACKUPS" default:"5"`
	LogMaxAgeDays int    `envconfig:"LOG_MAX_AGE_DAYS" default:"30"`
}

// Validate validates the app configuration.
func (c *AppConfig) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
		"test":        true,
	}
	if !validEnvs[c.Environment] {
		return fmt.Errorf("invalid environment: %s (must be one of: development, staging, production, test)", c.Environment)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	if c.LogFile != "" {
		if c.LogMaxSizeMB <= 0 {
			return fmt.Errorf("log max size must be positive")
		}
		if c.LogMaxBackups < 0 || c.LogMaxAgeDays < 0 {
			return fmt.Errorf("log retention settings must not be negative")
		}
	}
	return nil
}

// ReportingConfig holds error reporting configuration. Reporting is off
// unless SENTRY_DSN is set.
type ReportingConfig struct {
	SentryDSN        string  `envconfig:"SENTRY_DSN"`
	TracesSampleRate float64 `envconfig:"SENTRY_TRACES_SAMPLE_RATE" default:"0"`
	ServiceName      string  `envconfig:"SERVICE_NAME" default:"shortlinks"`
	ServiceVersion   string  `envconfig:"SERVICE_VERSION" default:"dev"`
}

// Enabled reports whether errors are sent to Sentry.
func (c *ReportingConfig) Enabled() bool {
	return c.SentryDSN != ""
}

// Validate validates the reporting configuration.
func (c *ReportingConfig) Validate() error {
	if c.TracesSampleRate < 0 || c.TracesSampleRate > 1 {
		return fmt.Errorf("traces sample rate must be between 0 and 1, got %f", c.TracesSampleRate)
	}
	if c.ServiceName == "" {
		return fmt.Errorf("service name cannot be empty")
	}
	return nil
}

type section struct {
	name     string
	spec     any
	validate func() error
}

// Load loads configuration from environment variables only.
// (Do .env loading in cmd/*/main.go for dev, not here.)
func Load() (*Config, error) {
	cfg := &Config{}

	if err := process(section{"Store", &cfg.Store, cfg.Store.Validate}); err != nil {
		return nil, err
	}

	sections := []section{
		{"Server", &cfg.Server, cfg.Server.Validate},
		{"Shortener", &cfg.Shortener, cfg.Shortener.Validate},
		{"App", &cfg.App, cfg.App.Validate},
		{"Reporting", &cfg.Reporting, cfg.Reporting.Validate},
	}

	// Backend settings are only read, and only required, for the selected driver.
	switch cfg.Store.Driver {
	case DriverPostgres:
		sections = append(sections, section{"Database", &cfg.Database, cfg.Database.Validate})
	case DriverSQLite:
		sections = append(sections, section{"SQLite", &cfg.SQLite, nil})
	case DriverRedis:
		sections = append(sections, section{"Redis", &cfg.Redis, cfg.Redis.Validate})
	}

	for _, s := range sections {
		if err := process(s); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func process(s section) error {
	if err := envconfig.Process("", s.spec); err != nil {
		return fmt.Errorf("failed to load %s config: %w", s.name, err)
	}
	if s.validate == nil {
		return nil
	}
	if err := s.validate(); err != nil {
		return fmt.Errorf("invalid %s config: %w", s.name, err)
	}
	return nil
}
