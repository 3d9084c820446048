package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joy095/bayelite/logger"
)

var ErrMissingDSN = errors.New("DATABASE_URL not set")

// Connect builds the shared pool. The pool is handed to every store explicitly and
// released with Close at shutdown.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, ErrMissingDSN
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to parse DATABASE_URL: %w", err)
	}

	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 30 * time.Minute

	start := time.Now()

	// Bounded so a cold database does not hold startup for 30-40 seconds
	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection error: %w", err)
	}

	// Ping in the background; requests surface connectivity errors on their own.
	go func() {
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pingCancel()

		if err := pool.Ping(pingCtx); err != nil {
			logger.WarnLogger.Warnf("Database cold start or unreachable: %v", err)
			return
		}
		logger.InfoLogger.Infof("Database ready (ping ok in %v)", time.Since(start))
	}()

	logger.InfoLogger.Infof("Connected to PostgreSQL pool %s (async ping)", MaskDSN(dsn))
	return pool, nil
}

func Close(pool *pgxpool.Pool) {
	if pool != nil {
		pool.Close()
		logger.InfoLogger.Info("Disconnected from PostgreSQL.")
	}
}
