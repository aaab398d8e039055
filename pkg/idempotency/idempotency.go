// Package idempotency reserves client-supplied request keys so retried
// submissions resolve to the original result instead of creating duplicates.
package idempotency

import (
	"context"
	"errors"
	"log/slog"

	"github.com/JaimeStill/civicdoc/pkg/lifecycle"
)

// ErrInFlight indicates another request holds the key and has not completed.
var ErrInFlight = errors.New("request with this idempotency key is in progress")

// Reservation is the outcome of Reserve. When Acquired is false, Value holds
// the result recorded by Complete for the earlier request.
type Reservation struct {
	Acquired bool
	Value    string
}

// Store records idempotency keys and their results.
type Store interface {
	Start(lc *lifecycle.Coordinator) error
	// Reserve claims key. Returns ErrInFlight if the key is held by an incomplete request.
	Reserve(ctx context.Context, key string) (Reservation, error)
	// Complete records value as the result for a reserved key.
	Complete(ctx context.Context, key, value string) error
	// Release drops a reservation so the key can be retried.
	Release(ctx context.Context, key string) error
}

// New returns a Redis-backed store, or a no-op store when cfg has no URL.
func New(cfg *Config, logger *slog.Logger) (Store, error) {
	logger = logger.With("system", "idempotency")
	if !cfg.Enabled() {
		logger.Info("idempotency keys disabled")
		return Noop(), nil
	}
	return newRedis(cfg, logger)
}

type noop struct{}

// Noop returns a Store that grants every reservation and records nothing.
func Noop() Store {
	return noop{}
}

func (noop) Start(*lifecycle.Coordinator) error { return nil }

func (noop) Reserve(context.Context, string) (Reservation, error) {
	return Reservation{Acquired: true}, nil
}

func (noop) Complete(context.Context, string, string) error { return nil }
func (noop) Release(context.Context, string) error          { return nil }
