package idempotency

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JaimeStill/civicdoc/pkg/lifecycle"
)

const pendingMarker = "pending"

type redisStore struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
	logger *slog.Logger
}

func newRedis(cfg *Config, logger *slog.Logger) (*redisStore, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	return &redisStore{
		rdb:    redis.NewClient(opt),
		ttl:    cfg.TTLDuration(),
		prefix: cfg.Prefix,
		logger: logger,
	}, nil
}

func (s *redisStore) Start(lc *lifecycle.Coordinator) error {
	s.logger.Info("starting idempotency store")

	lc.OnStartup(func() {
		if err := s.rdb.Ping(lc.Context()).Err(); err != nil {
			s.logger.Error("redis ping failed", "error", err)
			return
		}
		s.logger.Info("redis connection established")
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		if err := s.rdb.Close(); err != nil {
			s.logger.Error("redis close failed", "error", err)
			return
		}
		s.logger.Info("redis connection closed")
	})

	return nil
}

func (s *redisStore) Reserve(ctx context.Context, key string) (Reservation, error) {
	k := s.prefix + key

	// One retry covers a key that expired between SETNX and GET.
	for range 2 {
		set, err := s.rdb.SetNX(ctx, k, pendingMarker, s.ttl).Result()
		if err != nil {
			return Reservation{}, fmt.Errorf("reserve SETNX: %w", err)
		}
		if set {
			return Reservation{Acquired: true}, nil
		}

		val, err := s.rdb.Get(ctx, k).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return Reservation{}, fmt.Errorf("reserve GET: %w", err)
		}
		if val == pendingMarker {
			return Reservation{}, ErrInFlight
		}
		return Reservation{Value: val}, nil
	}

	return Reservation{}, ErrInFlight
}

func (s *redisStore) Complete(ctx context.Context, key, value string) error {
	if err := s.rdb.Set(ctx, s.prefix+key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("complete SET: %w", err)
	}
	return nil
}

func (s *redisStore) Release(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("release DEL: %w", err)
	}
	return nil
}
