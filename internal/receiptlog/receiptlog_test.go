package receiptlog

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisLog(t *testing.T, ttl time.Duration) *RedisLog {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisLog(client, ttl)
}

func TestRedisLogFirstSend(t *testing.T) {
	log := newRedisLog(t, time.Hour)
	ctx := context.Background()

	first, err := log.FirstSend(ctx, "order-001")
	require.NoError(t, err)
	assert.True(t, first)

	second, err := log.FirstSend(ctx, "order-001")
	require.NoError(t, err)
	assert.False(t, second)

	other, err := log.FirstSend(ctx, "order-002")
	require.NoError(t, err)
	assert.True(t, other)
}

func TestRedisLogConnectionError(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	log := NewRedisLog(client, time.Hour)
	mr.Close()

	_, err := log.FirstSend(context.Background(), "order-001")
	assert.Error(t, err)
}

func TestNoopLog(t *testing.T) {
	log := NoopLog{}

	for i := 0; i < 3; i++ {
		first, err := log.FirstSend(context.Background(), "order-001")
		require.NoError(t, err)
		assert.True(t, first)
	}
}
