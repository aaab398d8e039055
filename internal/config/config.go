package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/civicdoc/pkg/auth"
	"github.com/JaimeStill/civicdoc/pkg/database"
	"github.com/JaimeStill/civicdoc/pkg/events"
	"github.com/JaimeStill/civicdoc/pkg/idempotency"
	"github.com/JaimeStill/civicdoc/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvCivicdocEnv             = "CIVICDOC_ENV"
	EnvCivicdocShutdownTimeout = "CIVICDOC_SHUTDOWN_TIMEOUT"
	EnvCivicdocVersion         = "CIVICDOC_VERSION"
	EnvCivicdocLogLevel        = "CIVICDOC_LOG_LEVEL"
)

var databaseEnv = &database.Env{
	Host:            "CIVICDOC_DB_HOST",
	Port:            "CIVICDOC_DB_PORT",
	Name:            "CIVICDOC_DB_NAME",
	User:            "CIVICDOC_DB_USER",
	Password:        "CIVICDOC_DB_PASSWORD",
	SSLMode:         "CIVICDOC_DB_SSL_MODE",
	MaxOpenConns:    "CIVICDOC_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "CIVICDOC_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "CIVICDOC_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "CIVICDOC_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	Provider:         "CIVICDOC_STORAGE_PROVIDER",
	ContainerName:    "CIVICDOC_STORAGE_CONTAINER_NAME",
	ConnectionString: "CIVICDOC_STORAGE_CONNECTION_STRING",
	AccountURL:       "CIVICDOC_STORAGE_ACCOUNT_URL",
	Endpoint:         "CIVICDOC_STORAGE_ENDPOINT",
	AccessKey:        "CIVICDOC_STORAGE_ACCESS_KEY",
	SecretKey:        "CIVICDOC_STORAGE_SECRET_KEY",
	Region:           "CIVICDOC_STORAGE_REGION",
	UseSSL:           "CIVICDOC_STORAGE_USE_SSL",
}

var authEnv = &auth.Env{
	Secret:           "CIVICDOC_AUTH_SECRET",
	Issuer:           "CIVICDOC_AUTH_ISSUER",
	TokenTTL:         "CIVICDOC_AUTH_TOKEN_TTL",
	AllowAdminSignup: "CIVICDOC_AUTH_ALLOW_ADMIN_SIGNUP",
}

var eventsEnv = &events.Env{
	Brokers:      "CIVICDOC_EVENTS_BROKERS",
	Topic:        "CIVICDOC_EVENTS_TOPIC",
	WriteTimeout: "CIVICDOC_EVENTS_WRITE_TIMEOUT",
}

var idempotencyEnv = &idempotency.Env{
	URL:    "CIVICDOC_IDEMPOTENCY_URL",
	TTL:    "CIVICDOC_IDEMPOTENCY_TTL",
	Prefix: "CIVICDOC_IDEMPOTENCY_PREFIX",
}

// Config is the root configuration for the civicdoc service.
type Config struct {
	Server          ServerConfig       `toml:"server"`
	Database        database.Config    `toml:"database"`
	Storage         storage.Config     `toml:"storage"`
	API             APIConfig          `toml:"api"`
	Auth            auth.Config        `toml:"auth"`
	Events          events.Config      `toml:"events"`
	Idempotency     idempotency.Config `toml:"idempotency"`
	Enrichment      EnrichmentConfig   `toml:"enrichment"`
	Documents       DocumentsConfig    `toml:"documents"`
	LogLevel        string             `toml:"log_level"`
	ShutdownTimeout string             `toml:"shutdown_timeout"`
	Version         string             `toml:"version"`
}

// Env returns the CIVICDOC_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvCivicdocEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// SlogLevel returns LogLevel as a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.LogLevel != "" {
		c.LogLevel = overlay.LogLevel
	}
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Auth.Merge(&overlay.Auth)
	c.Events.Merge(&overlay.Events)
	c.Idempotency.Merge(&overlay.Idempotency)
	c.Enrichment.Merge(&overlay.Enrichment)
	c.Documents.Merge(&overlay.Documents)
}

// Finalize applies defaults, environment overrides, and validation to the
// root config and every sub-config.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Auth.Finalize(authEnv); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Events.Finalize(eventsEnv); err != nil {
		return fmt.Errorf("events: %w", err)
	}
	if err := c.Idempotency.Finalize(idempotencyEnv); err != nil {
		return fmt.Errorf("idempotency: %w", err)
	}
	if err := c.Enrichment.Finalize(); err != nil {
		return fmt.Errorf("enrichment: %w", err)
	}
	if err := c.Documents.Finalize(); err != nil {
		return fmt.Errorf("documents: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvCivicdocLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvCivicdocShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvCivicdocVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvCivicdocEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
