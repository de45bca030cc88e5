package memory

import (
	"context"
	"sync"
	"time"

	"satire-press-api/internal/domain/entity"
)

// UserRepository 内存用户仓储
type UserRepository struct {
	mu      sync.RWMutex
	byEmail map[string]*entity.User
}

// NewUserRepository 创建内存用户仓储
func NewUserRepository() *UserRepository {
	return &UserRepository{byEmail: make(map[string]*entity.User)}
}

// Create 创建用户
func (r *UserRepository) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.byEmail[entity.NormalizeEmail(user.Email)] = &cp
	return nil
}

// GetByEmail 根据邮箱获取用户
func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byEmail[entity.NormalizeEmail(email)]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

// ExistsByEmail 检查邮箱是否存在
func (r *UserRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byEmail[entity.NormalizeEmail(email)]
	return ok, nil
}

// UpdateLastLogin 更新最后登录时间
func (r *UserRepository) UpdateLastLogin(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, u := range r.byEmail {
		if u.ID == id {
			u.LastLoginAt = &now
		}
	}
	return nil
}
