package postgres

import (
	"context"
	"fmt"
	"time"

	"inventoryservice/internal/platform/observability"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	connectAttempts = 30
	connectBackoff  = time.Second
)

// Connect opens a pool and waits for the database to answer a ping.
func Connect(ctx context.Context, dsn string, logger observability.Logger) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	config.MaxConns = 10
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute
	config.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	for i := 0; i < connectAttempts; i++ {
		if err := pool.Ping(ctx); err == nil {
			logger.Info("✅ Connected to inventory database")
			return pool, nil
		}
		logger.Info("⏳ Waiting for database...", zap.Int("attempt", i+1), zap.Int("max_attempts", connectAttempts))

		select {
		case <-ctx.Done():
			pool.Close()
			return nil, ctx.Err()
		case <-time.After(connectBackoff):
		}
	}

	pool.Close()
	return nil, fmt.Errorf("failed to connect to database after %d attempts", connectAttempts)
}
