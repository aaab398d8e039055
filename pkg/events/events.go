// Package events publishes domain lifecycle events to Kafka.
package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/civicdoc/pkg/lifecycle"
)

// Event is the envelope written to the event topic.
type Event struct {
	ID         uuid.UUID `json:"id"`
	Type       string    `json:"type"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// New creates an Event with a fresh ID stamped at the current UTC time.
func New(eventType, key string, payload any) Event {
	return Event{
		ID:         uuid.New(),
		Type:       eventType,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// Publisher delivers events to the configured broker.
type Publisher interface {
	// Start registers a shutdown hook that flushes and closes the writer.
	Start(lc *lifecycle.Coordinator) error
	Publish(ctx context.Context, e Event) error
}

// NewPublisher returns a Kafka publisher, or a no-op publisher when cfg has no brokers.
func NewPublisher(cfg *Config, logger *slog.Logger) Publisher {
	logger = logger.With("system", "events")
	if !cfg.Enabled() {
		logger.Info("event publishing disabled")
		return Noop()
	}
	return newKafka(cfg, logger)
}

type noop struct{}

// Noop returns a Publisher that discards every event.
func Noop() Publisher {
	return noop{}
}

func (noop) Start(*lifecycle.Coordinator) error  { return nil }
func (noop) Publish(context.Context, Event) error { return nil }
