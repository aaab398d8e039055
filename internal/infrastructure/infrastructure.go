// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, storage, events, idempotency)
// that domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/JaimeStill/civicdoc/internal/config"
	"github.com/JaimeStill/civicdoc/pkg/database"
	"github.com/JaimeStill/civicdoc/pkg/events"
	"github.com/JaimeStill/civicdoc/pkg/idempotency"
	"github.com/JaimeStill/civicdoc/pkg/lifecycle"
	"github.com/JaimeStill/civicdoc/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// It provides a single point of initialization for lifecycle coordination,
// logging, database access, circular storage, event publishing, and
// idempotency keys.
type Infrastructure struct {
	Lifecycle   *lifecycle.Coordinator
	Logger      *slog.Logger
	Database    database.System
	Storage     storage.System
	Events      events.Publisher
	Idempotency idempotency.Store
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	idem, err := idempotency.New(&cfg.Idempotency, logger)
	if err != nil {
		return nil, fmt.Errorf("idempotency init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle:   lc,
		Logger:      logger,
		Database:    db,
		Storage:     store,
		Events:      events.NewPublisher(&cfg.Events, logger),
		Idempotency: idem,
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	if err := i.Events.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("events start failed: %w", err)
	}
	if err := i.Idempotency.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("idempotency start failed: %w", err)
	}
	return nil
}
