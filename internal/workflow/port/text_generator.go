package port

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// CompletionRequest 一次非流式补全请求
type CompletionRequest struct {
	// Workflow 调用所属阶段，用于指标与追踪标签
	Workflow    string
	Provider    string
	Model       string
	Messages    []*schema.Message
	Temperature float32
	MaxTokens   int
}

// Completion 模型返回的原始文本及用量
type Completion struct {
	Text             string
	Model            string
	PromptTokens     int
	CompletionTokens int
}

// TextGenerator 生成客户端：发出单次补全请求并返回原始文本
type TextGenerator interface {
	Complete(ctx context.Context, req *CompletionRequest) (*Completion, error)
}
