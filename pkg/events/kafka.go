package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/JaimeStill/civicdoc/pkg/lifecycle"
)

type kafkaPublisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

func newKafka(cfg *Config, logger *slog.Logger) *kafkaPublisher {
	return &kafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 10 * time.Millisecond,
			WriteTimeout: cfg.WriteTimeoutDuration(),
		},
		logger: logger.With("topic", cfg.Topic),
	}
}

func (k *kafkaPublisher) Start(lc *lifecycle.Coordinator) error {
	k.logger.Info("starting event publisher")

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		k.logger.Info("closing event publisher")

		if err := k.writer.Close(); err != nil {
			k.logger.Error("event publisher close failed", "error", err)
			return
		}

		k.logger.Info("event publisher closed")
	})

	return nil
}

func (k *kafkaPublisher) Publish(ctx context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", e.Type, err)
	}

	msg := kafka.Message{
		Key:   []byte(e.Key),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(e.Type)},
		},
	}

	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish event %s: %w", e.Type, err)
	}

	k.logger.Debug("event published", "type", e.Type, "key", e.Key, "id", e.ID)
	return nil
}
