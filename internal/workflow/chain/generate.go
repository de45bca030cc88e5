// Package chain 实现各生成阶段：每个阶段恰好发起一次（或有限重试的）模型调用
package chain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"

	wfmodel "satire-press-api/internal/workflow/model"
	workflowport "satire-press-api/internal/workflow/port"
	workflowprompt "satire-press-api/internal/workflow/prompt"
	"satire-press-api/pkg/metrics"
)

const (
	StageTitle   = "title"
	StageOutline = "outline"
	StageContent = "content"
	StageReview  = "review"
)

// ErrEmptyCompletion 模型返回空文本
var ErrEmptyCompletion = errors.New("empty completion")

func formatMessages(ctx context.Context, prompts *workflowprompt.Registry, id workflowprompt.PromptID, vars map[string]any) ([]*schema.Message, error) {
	tpl, err := prompts.ChatTemplate(id)
	if err != nil {
		return nil, err
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return nil, fmt.Errorf("format %s prompt: %w", id, err)
	}
	return msgs, nil
}

func complete(ctx context.Context, gen workflowport.TextGenerator, stage string, p wfmodel.StageParams, msgs []*schema.Message) (string, error) {
	if gen == nil {
		return "", fmt.Errorf("text generator not configured")
	}
	out, err := gen.Complete(ctx, &workflowport.CompletionRequest{
		Workflow:    stage,
		Provider:    p.Provider,
		Model:       p.Model,
		Messages:    msgs,
		Temperature: p.Temperature,
		MaxTokens:   p.MaxTokens,
	})
	if err != nil {
		return "", err
	}
	if out == nil {
		return "", ErrEmptyCompletion
	}
	return strings.TrimSpace(out.Text), nil
}

// observe 记录阶段耗时与结果
func observe(stage string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.StageCallsTotal.WithLabelValues(stage, status).Inc()
	metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}
