// Package messaging 基于 Redis Stream 的后台任务与事件投递
package messaging

import (
	"context"
	"encoding/json"
	"time"

	"satire-press-api/pkg/logger"
)

// 消息类型
const (
	TypeBookAutorun     = "book_autorun"
	TypeChapterAccepted = "chapter_accepted"
)

// Message 流中传递的消息信封
type Message struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	BookID    string            `json:"book_id"`
	Payload   json.RawMessage   `json:"payload"`
	Metadata  map[string]string `json:"metadata"`
	CreatedAt time.Time         `json:"created_at"`
}

// NewMessage 创建新消息
func NewMessage(id, msgType, bookID string, payload any) (*Message, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Message{
		ID:        id,
		Type:      msgType,
		BookID:    bookID,
		Payload:   payloadBytes,
		Metadata:  make(map[string]string),
		CreatedAt: time.Now(),
	}, nil
}

// SetMetadata 设置元数据
func (m *Message) SetMetadata(key, value string) {
	if m.Metadata == nil {
		m.Metadata = make(map[string]string)
	}
	m.Metadata[key] = value
}

// GetMetadata 获取元数据
func (m *Message) GetMetadata(key string) string {
	if m.Metadata == nil {
		return ""
	}
	return m.Metadata[key]
}

// UnmarshalPayload 解析消息载荷
func (m *Message) UnmarshalPayload(v any) error {
	return json.Unmarshal(m.Payload, v)
}

// carryContext 把请求上的 request_id/trace_id 带进消息，消费端据此串联日志
func (m *Message) carryContext(ctx context.Context) {
	if v, ok := ctx.Value(logger.RequestIDKey).(string); ok && v != "" {
		m.SetMetadata("request_id", v)
	}
	if v, ok := ctx.Value(logger.TraceIDKey).(string); ok && v != "" {
		m.SetMetadata("trace_id", v)
	}
	if v, ok := ctx.Value(logger.UserIDKey).(string); ok && v != "" {
		m.SetMetadata("user_id", v)
	}
}

// restoreContext 消费端还原日志上下文
func (m *Message) restoreContext(ctx context.Context) context.Context {
	if m.BookID != "" {
		ctx = logger.WithContext(ctx, logger.BookIDKey, m.BookID)
	}
	if v := m.GetMetadata("request_id"); v != "" {
		ctx = logger.WithContext(ctx, logger.RequestIDKey, v)
	}
	if v := m.GetMetadata("trace_id"); v != "" {
		ctx = logger.WithContext(ctx, logger.TraceIDKey, v)
	}
	if v := m.GetMetadata("user_id"); v != "" {
		ctx = logger.WithContext(ctx, logger.UserIDKey, v)
	}
	return ctx
}

// Stream 流定义
type Stream string

const (
	StreamBookAutorun     Stream = "stream:book:autorun"
	StreamChapterAccepted Stream = "stream:chapter:accepted"
)

// DLQStream 获取对应的死信队列流名称
func (s Stream) DLQStream() string {
	return "dlq:" + string(s)
}

// ConsumerGroup 消费者组定义
type ConsumerGroup string

// GroupName 按前缀拼接消费者组名
func GroupName(prefix, name string) ConsumerGroup {
	if prefix == "" {
		return ConsumerGroup(name)
	}
	return ConsumerGroup(prefix + "-" + name)
}

// AutorunJob 整书自动生成任务
type AutorunJob struct {
	JobID       string `json:"job_id"`
	BookID      string `json:"book_id"`
	RequestedBy string `json:"requested_by,omitempty"`
}

// BackoffConfig 退避配置
type BackoffConfig struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
}

// DefaultBackoffConfig 默认退避配置
func DefaultBackoffConfig() BackoffConfig {
	return BackoffConfig{
		Initial:    5 * time.Second,
		Max:        5 * time.Minute,
		Multiplier: 2,
	}
}

// CalculateBackoff 计算第 retryCount 次重试前的等待时间
func (c BackoffConfig) CalculateBackoff(retryCount int) time.Duration {
	backoff := c.Initial
	for i := 0; i < retryCount; i++ {
		backoff = time.Duration(float64(backoff) * c.Multiplier)
		if backoff > c.Max {
			return c.Max
		}
	}
	return backoff
}
