package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joy095/bayelite/logger"
	"github.com/redis/go-redis/v9"
)

// ErrNotConfigured is returned when REDIS_URL is empty; callers fall back to
// in-process alternatives.
var ErrNotConfigured = errors.New("redis not configured")

// NewClient parses redisURL and verifies connectivity with a bounded ping.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		return nil, ErrNotConfigured
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.InfoLogger.Infof("Connected to Redis at %s", opt.Addr)
	return client, nil
}

// Close closes the Redis connection.
func Close(client *redis.Client) {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		logger.ErrorLogger.Errorf("Error closing Redis connection: %v", err)
		return
	}
	logger.InfoLogger.Info("Redis connection closed")
}
