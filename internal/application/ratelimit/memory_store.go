package ratelimit

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore 进程内计数存储，重启即清零
type MemoryStore struct {
	mu    sync.Mutex
	cache *gocache.Cache
}

// NewMemoryStore 创建进程内计数存储；过期条目按 cleanup 周期清理
func NewMemoryStore(cleanup time.Duration) *MemoryStore {
	if cleanup <= 0 {
		cleanup = 10 * time.Minute
	}
	return &MemoryStore{cache: gocache.New(gocache.NoExpiration, cleanup)}
}

// Load 读取计数
func (s *MemoryStore) Load(_ context.Context, key string, now time.Time) (Counter, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.cache.Get(key)
	if !ok {
		return Counter{}, false, nil
	}
	c := v.(Counter)
	if !now.Before(c.ResetAt) {
		return Counter{}, false, nil
	}
	return c, true, nil
}

// Increment 计数加一
func (s *MemoryStore) Increment(_ context.Context, key string, window time.Duration, now time.Time) (Counter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := Counter{Count: 0, ResetAt: now.Add(window)}
	if v, ok := s.cache.Get(key); ok {
		if prev := v.(Counter); now.Before(prev.ResetAt) {
			c = prev
		}
	}
	c.Count++
	// 窗口判定以 ResetAt 为准，go-cache 的过期只负责回收
	s.cache.Set(key, c, window)
	return c, nil
}

// Len 当前条目数
func (s *MemoryStore) Len() int {
	return s.cache.ItemCount()
}
