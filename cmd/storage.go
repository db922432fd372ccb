package main

import (
	"context"
	"fmt"
	"time"

	"github.com/Shivanand-hulikatti/virtual-events/internal/activity"
	"github.com/Shivanand-hulikatti/virtual-events/internal/config"
	"github.com/Shivanand-hulikatti/virtual-events/internal/database"
	"github.com/Shivanand-hulikatti/virtual-events/internal/store"
	"github.com/rs/zerolog"
)

// openStore builds the configured backend. The returned func releases it.
func openStore(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*store.Store, func(), error) {
	var (
		backend store.Backend
		closeFn = func() {}
	)

	switch cfg.Storage.Backend {
	case "file":
		fb, err := store.NewFileBackend(cfg.Storage.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("open file store: %w", err)
		}
		backend = fb
	case "postgres":
		poolCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		pool, err := database.NewPool(poolCtx, cfg.Database, logger)
		if err != nil {
			return nil, nil, err
		}
		pb := store.NewPostgresBackend(pool)
		if err := pb.EnsureSchema(poolCtx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		backend = pb
		closeFn = pool.Close
	default:
		backend = store.NewMemoryBackend()
	}

	logger.Info().Str("backend", backend.Name()).Msg("store ready")
	return store.New(backend, cfg.Storage.KeyPrefix, logger), closeFn, nil
}

// newPublisher returns a Kafka publisher when brokers are configured.
func newPublisher(cfg config.KafkaConfig, logger zerolog.Logger) (activity.Publisher, func()) {
	if len(cfg.Brokers) == 0 {
		logger.Info().Msg("no kafka brokers configured, activity stream disabled")
		return activity.NopPublisher{}, func() {}
	}
	p := activity.NewKafkaPublisher(cfg.Brokers, cfg.Topic, logger)
	logger.Info().Strs("brokers", cfg.Brokers).Str("topic", cfg.Topic).Msg("activity stream enabled")
	return p, func() {
		if err := p.Close(); err != nil {
			logger.Error().Err(err).Msg("close kafka writer")
		}
	}
}
