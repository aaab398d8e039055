package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/civicdoc/pkg/formatting"
	"github.com/JaimeStill/civicdoc/pkg/middleware"
	"github.com/JaimeStill/civicdoc/pkg/openapi"
	"github.com/JaimeStill/civicdoc/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "CIVICDOC_CORS_ENABLED",
	Origins:          "CIVICDOC_CORS_ORIGINS",
	AllowedMethods:   "CIVICDOC_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "CIVICDOC_CORS_ALLOWED_HEADERS",
	AllowCredentials: "CIVICDOC_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "CIVICDOC_CORS_MAX_AGE",
}

var rateLimitEnv = &middleware.RateLimitEnv{
	Enabled:           "CIVICDOC_RATE_LIMIT_ENABLED",
	RequestsPerSecond: "CIVICDOC_RATE_LIMIT_REQUESTS_PER_SECOND",
	Burst:             "CIVICDOC_RATE_LIMIT_BURST",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "CIVICDOC_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "CIVICDOC_PAGINATION_MAX_PAGE_SIZE",
}

var openAPIEnv = &openapi.ConfigEnv{
	Title:       "CIVICDOC_OPENAPI_TITLE",
	Description: "CIVICDOC_OPENAPI_DESCRIPTION",
}

// APIConfig holds API routing, CORS, rate limiting, pagination, and OpenAPI settings.
type APIConfig struct {
	BasePath      string                     `toml:"base_path"`
	MaxUploadSize string                     `toml:"max_upload_size"`
	CORS          middleware.CORSConfig      `toml:"cors"`
	RateLimit     middleware.RateLimitConfig `toml:"rate_limit"`
	Pagination    pagination.Config          `toml:"pagination"`
	OpenAPI       openapi.Config             `toml:"openapi"`
}

// MaxUploadSizeBytes returns MaxUploadSize in bytes.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return 20 * 1024 * 1024
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.RateLimit.Finalize(rateLimitEnv); err != nil {
		return fmt.Errorf("rate_limit: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.OpenAPI.Finalize(openAPIEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	if _, err := formatting.ParseBytes(c.MaxUploadSize); err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.RateLimit.Merge(&overlay.RateLimit)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "20MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("CIVICDOC_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("CIVICDOC_API_MAX_UPLOAD_SIZE"); v != "" {
		c.MaxUploadSize = v
	}
}
