package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"

	"satire-press-api/internal/application/ratelimit"
)

// CounterStore 多实例共享的限流计数（INCR + PEXPIRE）
type CounterStore struct {
	client *Client
}

var _ ratelimit.CounterStore = (*CounterStore)(nil)

// NewCounterStore 创建共享计数存储
func NewCounterStore(client *Client) *CounterStore {
	return &CounterStore{client: client}
}

func (s *CounterStore) key(k string) string {
	return s.client.Key("ratelimit", k)
}

// Load 读取计数；窗口剩余时间取自键的 PTTL
func (s *CounterStore) Load(ctx context.Context, key string, now time.Time) (ratelimit.Counter, bool, error) {
	ctx, span := tracer.Start(ctx, "ratelimit.Load")
	span.SetAttributes(attribute.String("ratelimit.key", key))
	defer span.End()

	pipe := s.client.rdb.Pipeline()
	getCmd := pipe.Get(ctx, s.key(key))
	ttlCmd := pipe.PTTL(ctx, s.key(key))
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		span.RecordError(err)
		return ratelimit.Counter{}, false, err
	}

	count, err := getCmd.Int()
	if errors.Is(err, redis.Nil) {
		return ratelimit.Counter{}, false, nil
	}
	if err != nil {
		span.RecordError(err)
		return ratelimit.Counter{}, false, err
	}
	ttl := ttlCmd.Val()
	if ttl <= 0 {
		return ratelimit.Counter{}, false, nil
	}
	return ratelimit.Counter{Count: count, ResetAt: now.Add(ttl)}, true, nil
}

// Increment 计数加一，首次写入时设置窗口过期
func (s *CounterStore) Increment(ctx context.Context, key string, window time.Duration, now time.Time) (ratelimit.Counter, error) {
	ctx, span := tracer.Start(ctx, "ratelimit.Increment")
	span.SetAttributes(
		attribute.String("ratelimit.key", key),
		attribute.Int64("ratelimit.window_ms", window.Milliseconds()),
	)
	defer span.End()

	k := s.key(key)
	count, err := s.client.rdb.Incr(ctx, k).Result()
	if err != nil {
		span.RecordError(err)
		return ratelimit.Counter{}, err
	}
	if count == 1 {
		if err := s.client.rdb.PExpire(ctx, k, window).Err(); err != nil {
			span.RecordError(err)
			return ratelimit.Counter{}, err
		}
		return ratelimit.Counter{Count: 1, ResetAt: now.Add(window)}, nil
	}

	ttl, err := s.client.rdb.PTTL(ctx, k).Result()
	if err != nil {
		span.RecordError(err)
		return ratelimit.Counter{}, err
	}
	if ttl < 0 {
		// 键丢失过期时间时补设，避免永不过期
		_ = s.client.rdb.PExpire(ctx, k, window).Err()
		ttl = window
	}
	return ratelimit.Counter{Count: int(count), ResetAt: now.Add(ttl)}, nil
}
