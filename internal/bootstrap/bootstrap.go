// Package bootstrap builds the process-wide dependencies shared by cmd/api and cmd/worker.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/medreminder-api/internal/config"
	"github.com/jwalitptl/medreminder-api/internal/repository"
	"github.com/jwalitptl/medreminder-api/internal/repository/memory"
	"github.com/jwalitptl/medreminder-api/internal/repository/mongodb"
	"github.com/jwalitptl/medreminder-api/internal/repository/postgres"
	"github.com/jwalitptl/medreminder-api/internal/service/notification"
	"github.com/jwalitptl/medreminder-api/pkg/logger"
	"github.com/jwalitptl/medreminder-api/pkg/messaging/redis"
	"github.com/jwalitptl/medreminder-api/pkg/metrics"
)

// NewLogger configures the global zerolog logger and returns the service logger.
func NewLogger(cfg config.LogConfig) *logger.Logger {
	l := logger.NewLogger(&logger.Config{
		Level:  logger.ParseLevel(cfg.Level),
		Format: cfg.Format,
		Output: os.Stdout,
	})
	zerolog.SetGlobalLevel(logger.ParseLevel(cfg.Level))
	log.Logger = l.Zerolog()
	return l
}

// OpenStore connects the configured driver and prepares its schema.
func OpenStore(ctx context.Context, cfg config.DatabaseConfig, l *logger.Logger) (repository.Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := postgres.NewDB(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		store := postgres.NewStore(db)
		if err := store.Migrate(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		l.Info("connected to postgres")
		return store, nil

	case config.DriverMongo:
		client, err := mongodb.Connect(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		store := mongodb.NewStore(client, cfg.Mongo)
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("failed to create indexes: %w", err)
		}
		l.Info("connected to mongo", "database", cfg.Mongo.Name, "transactions", cfg.Mongo.Transactions)
		return store, nil

	case config.DriverMemory:
		l.Warn("using in-memory store; data is lost on exit")
		return memory.NewStore(), nil

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// NewDispatcher publishes through redis when a URL is configured and logs otherwise.
// The returned close function releases the broker connection.
func NewDispatcher(ctx context.Context, cfg config.RedisConfig, l *logger.Logger, m *metrics.Metrics) (notification.Dispatcher, func() error, error) {
	if cfg.URL == "" {
		l.Info("redis not configured; reminders are logged only")
		return notification.NewLogDispatcher(l), func() error { return nil }, nil
	}

	zl := l.Zerolog()
	broker, err := redis.NewRedisBroker(ctx, redis.Config{
		URL:          cfg.URL,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: 100 * time.Millisecond,
		PoolSize:     cfg.PoolSize,
	}, &zl, m)
	if err != nil {
		return nil, nil, err
	}
	return notification.NewBrokerDispatcher(broker, cfg.Channel), broker.Close, nil
}
