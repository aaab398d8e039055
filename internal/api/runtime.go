package api

import (
	"github.com/JaimeStill/civicdoc/internal/config"
	"github.com/JaimeStill/civicdoc/internal/infrastructure"
	"github.com/JaimeStill/civicdoc/pkg/auth"
	"github.com/JaimeStill/civicdoc/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Tokens     *auth.Tokens
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle:   infra.Lifecycle,
			Logger:      infra.Logger.With("module", "api"),
			Database:    infra.Database,
			Storage:     infra.Storage,
			Events:      infra.Events,
			Idempotency: infra.Idempotency,
		},
		Pagination: cfg.API.Pagination,
		Tokens:     auth.NewTokens(&cfg.Auth),
	}
}
