package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	einocallbacks "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/model"

	llmctx "satire-press-api/internal/domain/service"
	workflowport "satire-press-api/internal/workflow/port"
)

// Client 生成客户端：一次请求，固定模型、温度与 token 上限，返回原始文本
type Client struct {
	factory         workflowport.ChatModelFactory
	defaultProvider string
}

// NewClient 创建生成客户端
func NewClient(factory workflowport.ChatModelFactory, defaultProvider string) *Client {
	return &Client{factory: factory, defaultProvider: defaultProvider}
}

// Complete 实现 port.TextGenerator
func (c *Client) Complete(ctx context.Context, req *workflowport.CompletionRequest) (*workflowport.Completion, error) {
	if c == nil || c.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if req == nil || len(req.Messages) == 0 {
		return nil, errors.New("completion request has no messages")
	}

	provider := strings.TrimSpace(req.Provider)
	if provider == "" {
		provider = c.defaultProvider
	}
	ctx = llmctx.WithWorkflowProvider(ctx, req.Workflow, provider)
	ctx = einocallbacks.InitCallbacks(ctx, &einocallbacks.RunInfo{
		Name:      req.Workflow,
		Type:      provider,
		Component: components.ComponentOfChatModel,
	})

	chatModel, err := c.factory.Get(ctx, provider)
	if err != nil {
		return nil, err
	}

	msg, err := chatModel.Generate(ctx, req.Messages, buildModelOptions(req)...)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, fmt.Errorf("empty llm response")
	}

	out := &workflowport.Completion{Text: msg.Content, Model: req.Model}
	if msg.ResponseMeta != nil && msg.ResponseMeta.Usage != nil {
		out.PromptTokens = msg.ResponseMeta.Usage.PromptTokens
		out.CompletionTokens = msg.ResponseMeta.Usage.CompletionTokens
	}
	return out, nil
}

func buildModelOptions(req *workflowport.CompletionRequest) []model.Option {
	opts := make([]model.Option, 0, 3)
	if req.Temperature > 0 {
		opts = append(opts, model.WithTemperature(req.Temperature))
	}
	if req.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(req.MaxTokens))
	}
	if m := strings.TrimSpace(req.Model); m != "" {
		opts = append(opts, model.WithModel(m))
	}
	return opts
}
