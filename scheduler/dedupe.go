package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduper remembers which reminders are in flight or already delivered so a booking is
// not reminded twice while its database flag is still catching up.
type Deduper interface {
	// Claim reserves key for ttl. It reports false when key is already held.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

type RedisDeduper struct {
	client *redis.Client
}

func NewRedisDeduper(client *redis.Client) *RedisDeduper {
	return &RedisDeduper{client: client}
}

func (d *RedisDeduper) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := d.client.SetNX(ctx, key, time.Now().Unix(), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim %s: %w", key, err)
	}
	return ok, nil
}

func (d *RedisDeduper) Release(ctx context.Context, key string) error {
	if err := d.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to release %s: %w", key, err)
	}
	return nil
}

// MemoryDeduper keeps claims in process memory. It is used when Redis is not configured.
type MemoryDeduper struct {
	mu     sync.Mutex
	claims map[string]time.Time
	now    func() time.Time
}

func NewMemoryDeduper() *MemoryDeduper {
	return &MemoryDeduper{claims: make(map[string]time.Time), now: time.Now}
}

func (d *MemoryDeduper) Claim(_ context.Context, key string, ttl time.Duration) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	for k, expires := range d.claims {
		if !now.Before(expires) {
			delete(d.claims, k)
		}
	}

	if _, held := d.claims[key]; held {
		return false, nil
	}
	d.claims[key] = now.Add(ttl)
	return true, nil
}

func (d *MemoryDeduper) Release(_ context.Context, key string) error {
	d.mu.Lock()
	delete(d.claims, key)
	d.mu.Unlock()
	return nil
}
