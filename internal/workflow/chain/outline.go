package chain

import (
	"context"
	"fmt"
	"strings"
	"time"

	wfmodel "satire-press-api/internal/workflow/model"
	"satire-press-api/internal/workflow/node"
	workflowport "satire-press-api/internal/workflow/port"
	workflowprompt "satire-press-api/internal/workflow/prompt"
	apperrors "satire-press-api/pkg/errors"
)

type OutlineChain struct {
	gen     workflowport.TextGenerator
	prompts *workflowprompt.Registry
	params  wfmodel.StageParams
}

func NewOutlineChain(gen workflowport.TextGenerator, prompts *workflowprompt.Registry, params wfmodel.StageParams) *OutlineChain {
	return &OutlineChain{gen: gen, prompts: prompts, params: params}
}

// Invoke 生成章节标题列表。输出必须是字符串数组，否则直接失败，不做修复。
func (c *OutlineChain) Invoke(ctx context.Context, in *wfmodel.OutlineInput) (titles []string, err error) {
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	if in.ChapterCount <= 0 {
		return nil, fmt.Errorf("chapter count is required")
	}
	defer func(start time.Time) { observe(StageOutline, start, err) }(time.Now())

	msgs, err := formatMessages(ctx, c.prompts, workflowprompt.PromptOutlineV1, in.Voice.PromptVars(map[string]any{
		"title":         in.Title,
		"subtitle":      in.Subtitle,
		"chapter_count": in.ChapterCount,
	}))
	if err != nil {
		return nil, err
	}

	text, err := complete(ctx, c.gen, StageOutline, c.params, msgs)
	if err != nil {
		return nil, apperrors.ErrGenerationFailed.WithError(err)
	}

	var raw []string
	if err := node.DecodeJSONArray(text, &raw); err != nil {
		return nil, apperrors.ErrInvalidOutline.WithError(err)
	}

	titles = make([]string, 0, len(raw))
	for _, t := range raw {
		if t = strings.TrimSpace(t); t != "" {
			titles = append(titles, t)
		}
	}
	if len(titles) == 0 {
		return nil, apperrors.ErrInvalidOutline.WithDetail("outline contains no chapter titles")
	}
	return titles, nil
}
