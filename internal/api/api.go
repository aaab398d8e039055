// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/JaimeStill/civicdoc/internal/config"
	"github.com/JaimeStill/civicdoc/internal/infrastructure"
	"github.com/JaimeStill/civicdoc/pkg/auth"
	"github.com/JaimeStill/civicdoc/pkg/middleware"
	"github.com/JaimeStill/civicdoc/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// Requests are rate limited per client address before bearer tokens are
// verified; capability checks happen per route.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)

	domain, err := NewDomain(cfg, runtime)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	if err := registerRoutes(mux, domain, cfg); err != nil {
		return nil, err
	}

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(middleware.RateLimit(&cfg.API.RateLimit, runtime.Logger))
	m.Use(auth.Middleware(runtime.Tokens, runtime.Logger))

	return m, nil
}
