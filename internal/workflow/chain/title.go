package chain

import (
	"context"
	"fmt"
	"time"

	wfmodel "satire-press-api/internal/workflow/model"
	"satire-press-api/internal/workflow/node"
	workflowport "satire-press-api/internal/workflow/port"
	workflowprompt "satire-press-api/internal/workflow/prompt"
	apperrors "satire-press-api/pkg/errors"
)

const (
	titlePrefix    = "TITLE:"
	subtitlePrefix = "SUBTITLE:"
)

type TitleChain struct {
	gen     workflowport.TextGenerator
	prompts *workflowprompt.Registry
	params  wfmodel.StageParams
}

func NewTitleChain(gen workflowport.TextGenerator, prompts *workflowprompt.Registry, params wfmodel.StageParams) *TitleChain {
	return &TitleChain{gen: gen, prompts: prompts, params: params}
}

// Invoke 生成标题与副标题。缺失的字段返回空字符串而不是错误；不重试。
func (c *TitleChain) Invoke(ctx context.Context, in *wfmodel.TitleInput) (out *wfmodel.TitleOutput, err error) {
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	defer func(start time.Time) { observe(StageTitle, start, err) }(time.Now())

	msgs, err := formatMessages(ctx, c.prompts, workflowprompt.PromptTitleV1, in.Voice.PromptVars(map[string]any{
		"context": in.Context,
	}))
	if err != nil {
		return nil, err
	}

	text, err := complete(ctx, c.gen, StageTitle, c.params, msgs)
	if err != nil {
		return nil, apperrors.ErrGenerationFailed.WithError(err)
	}

	fields := node.ScanPrefixed(text, titlePrefix, subtitlePrefix)
	return &wfmodel.TitleOutput{
		Title:    fields[titlePrefix],
		Subtitle: fields[subtitlePrefix],
	}, nil
}
