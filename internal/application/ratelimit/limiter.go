// Package ratelimit 提供按客户端键的固定窗口限流
//
// 检查与记录分为两步：请求前 Check，成功后 Record，失败的请求不消耗配额。
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"satire-press-api/pkg/metrics"
)

// Counter 单个键在当前窗口内的计数
type Counter struct {
	Count   int
	ResetAt time.Time
}

// CounterStore 计数存储
type CounterStore interface {
	// Load 读取键的计数；不存在或已过期时 found=false
	Load(ctx context.Context, key string, now time.Time) (Counter, bool, error)
	// Increment 计数加一；键不存在或窗口已过期时开启新窗口
	Increment(ctx context.Context, key string, window time.Duration, now time.Time) (Counter, error)
}

// Clock 时间源
type Clock func() time.Time

// Decision 限流判定
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
	ResetAt    time.Time
}

// Limiter 固定窗口限流器
type Limiter struct {
	store  CounterStore
	now    Clock
	limit  int
	window time.Duration
	scope  string
}

// Option 限流器选项
type Option func(*Limiter)

// WithClock 替换时间源
func WithClock(c Clock) Option {
	return func(l *Limiter) { l.now = c }
}

// WithScope 指标中的作用域标签
func WithScope(scope string) Option {
	return func(l *Limiter) { l.scope = scope }
}

// NewLimiter 创建限流器
func NewLimiter(store CounterStore, limit int, window time.Duration, opts ...Option) *Limiter {
	l := &Limiter{
		store:  store,
		now:    time.Now,
		limit:  limit,
		window: window,
		scope:  "default",
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Check 判断 key 是否还有配额，不改变计数
func (l *Limiter) Check(ctx context.Context, key string) (Decision, error) {
	now := l.now()
	c, found, err := l.store.Load(ctx, key, now)
	if err != nil {
		return Decision{}, fmt.Errorf("load rate counter: %w", err)
	}

	d := Decision{Allowed: true, Limit: l.limit, Remaining: l.limit, ResetAt: now.Add(l.window)}
	if found {
		d.ResetAt = c.ResetAt
		d.Remaining = max(l.limit-c.Count, 0)
		if c.Count >= l.limit {
			d.Allowed = false
			d.RetryAfter = c.ResetAt.Sub(now)
		}
	}

	decision := "allow"
	if !d.Allowed {
		decision = "deny"
	}
	metrics.RateLimitDecisions.WithLabelValues(l.scope, decision).Inc()
	return d, nil
}

// Record 消耗一次配额
func (l *Limiter) Record(ctx context.Context, key string) error {
	if _, err := l.store.Increment(ctx, key, l.window, l.now()); err != nil {
		return fmt.Errorf("increment rate counter: %w", err)
	}
	return nil
}

// Limit 窗口内允许的次数
func (l *Limiter) Limit() int { return l.limit }

// Window 窗口长度
func (l *Limiter) Window() time.Duration { return l.window }
