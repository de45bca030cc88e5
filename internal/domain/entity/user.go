package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserRole 用户角色
type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
)

// User 后台用户
type User struct {
	ID           string     `json:"id" gorm:"type:uuid;primaryKey"`
	Email        string     `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string     `json:"-" gorm:"type:varchar(255);not null"`
	Name         string     `json:"name" gorm:"type:varchar(128)"`
	Role         UserRole   `json:"role" gorm:"type:varchar(32);not null;default:'admin'"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// NewAdmin 创建管理员
func NewAdmin(email, name string) *User {
	now := time.Now()
	return &User{
		ID:        uuid.NewString(),
		Email:     NormalizeEmail(email),
		Name:      name,
		Role:      UserRoleAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetPassword 设置密码（bcrypt）
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword 校验密码
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// IsAdmin 检查用户是否为管理员
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// NormalizeEmail 统一邮箱大小写
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
