package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDeduper(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	d := NewMemoryDeduper()
	d.now = func() time.Time { return now }

	ok, err := d.Claim(ctx, "reminder:1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.Claim(ctx, "reminder:1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, _ = d.Claim(ctx, "reminder:2", time.Minute)
	assert.True(t, ok)

	require.NoError(t, d.Release(ctx, "reminder:1"))
	ok, _ = d.Claim(ctx, "reminder:1", time.Minute)
	assert.True(t, ok)
}

func TestMemoryDeduper_Expires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	d := NewMemoryDeduper()
	d.now = func() time.Time { return now }

	ok, _ := d.Claim(ctx, "reminder:1", time.Minute)
	require.True(t, ok)

	now = now.Add(time.Minute)
	ok, _ = d.Claim(ctx, "reminder:1", time.Minute)
	assert.True(t, ok)
	assert.Len(t, d.claims, 1)
}

func TestRedisDeduper_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	ok, err := NewRedisDeduper(client).Claim(context.Background(), "reminder:1", time.Minute)

	assert.Error(t, err)
	assert.False(t, ok)
}
