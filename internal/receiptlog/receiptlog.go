// Package receiptlog tracks which orders already had a receipt sent, so
// webhook redeliveries do not mail the customer twice. Deduplication is
// best-effort and opt-in; without it duplicate receipts are accepted.
package receiptlog

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Log records receipt sends. FirstSend reports true exactly once per order
// within the retention window.
type Log interface {
	FirstSend(ctx context.Context, orderID string) (bool, error)
}

// RedisLog implements Log with a SET NX key per order.
type RedisLog struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLog creates a redis-backed receipt log. Entries expire after ttl.
func NewRedisLog(client *redis.Client, ttl time.Duration) *RedisLog {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &RedisLog{client: client, ttl: ttl}
}

// FirstSend claims the send for an order. The claim is taken before the
// email goes out, so a failed send inside the window is not retried with
// another receipt.
func (l *RedisLog) FirstSend(ctx context.Context, orderID string) (bool, error) {
	ok, err := l.client.SetNX(ctx, "receipt:"+orderID, time.Now().UTC().Format(time.RFC3339), l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim receipt send: %w", err)
	}
	return ok, nil
}

// NoopLog is the default when deduplication is disabled: every send is the
// first send.
type NoopLog struct{}

// FirstSend always reports true.
func (NoopLog) FirstSend(context.Context, string) (bool, error) {
	return true, nil
}
