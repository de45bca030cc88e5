package chain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	wfmodel "satire-press-api/internal/workflow/model"
	workflowport "satire-press-api/internal/workflow/port"
	workflowprompt "satire-press-api/internal/workflow/prompt"
	apperrors "satire-press-api/pkg/errors"
	"satire-press-api/pkg/logger"
)

// ContentPolicy 内容阶段的采样与重试策略
type ContentPolicy struct {
	TemperatureStep float32
	TemperatureCap  float32
	RetryAttempts   uint
	RetryDelay      time.Duration
}

// WordTarget 章节目标字数区间
type WordTarget struct {
	Min int
	Max int
}

type ContentChain struct {
	gen     workflowport.TextGenerator
	prompts *workflowprompt.Registry
	params  wfmodel.StageParams
	policy  ContentPolicy
	rnd     workflowport.Random
}

func NewContentChain(gen workflowport.TextGenerator, prompts *workflowprompt.Registry, params wfmodel.StageParams, policy ContentPolicy, rnd workflowport.Random) *ContentChain {
	if policy.RetryAttempts == 0 {
		policy.RetryAttempts = 3
	}
	if policy.TemperatureCap <= 0 {
		policy.TemperatureCap = 0.95
	}
	return &ContentChain{gen: gen, prompts: prompts, params: params, policy: policy, rnd: rnd}
}

// TargetWords 首章较短；之后的章节上限随机浮动
func (c *ContentChain) TargetWords(chapter int) WordTarget {
	if chapter <= 1 {
		return WordTarget{Min: 1200, Max: 1800}
	}
	return WordTarget{Min: 1500, Max: 2200 + c.rnd.IntRange(0, 800)}
}

// Temperature 随章节号递增，封顶于 TemperatureCap
func (c *ContentChain) Temperature(chapter int) float32 {
	t := c.params.Temperature + c.policy.TemperatureStep*float32(max(chapter-1, 0))
	return min(t, c.policy.TemperatureCap)
}

// Invoke 生成章节正文。仅在空输出或调用错误时重试，质量问题交给编排器。
func (c *ContentChain) Invoke(ctx context.Context, in *wfmodel.ContentInput) (text string, err error) {
	if in == nil {
		return "", fmt.Errorf("input is nil")
	}
	if in.ChapterNumber < 1 || strings.TrimSpace(in.ChapterTitle) == "" {
		return "", fmt.Errorf("chapter number and title are required")
	}
	defer func(start time.Time) { observe(StageContent, start, err) }(time.Now())

	target := c.TargetWords(in.ChapterNumber)
	msgs, err := formatMessages(ctx, c.prompts, workflowprompt.PromptContentV1, in.Voice.PromptVars(map[string]any{
		"title":              in.BookTitle,
		"subtitle":           in.BookSubtitle,
		"chapter_number":     in.ChapterNumber,
		"total_chapters":     in.TotalChapters,
		"chapter_title":      in.ChapterTitle,
		"word_min":           target.Min,
		"word_max":           target.Max,
		"previous_summary":   orNone(in.PreviousSummary, "(this is the first chapter)"),
		"forbidden_patterns": formatPatterns(in.ForbiddenPatterns),
		"revision_block":     revisionBlock(in),
	}))
	if err != nil {
		return "", err
	}

	params := c.params
	params.Temperature = c.Temperature(in.ChapterNumber)

	err = retry.Do(
		func() error {
			out, callErr := complete(ctx, c.gen, StageContent, params, msgs)
			if callErr != nil {
				return callErr
			}
			if out == "" {
				return ErrEmptyCompletion
			}
			text = out
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.policy.RetryAttempts),
		retry.Delay(c.policy.RetryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn(ctx, "content generation attempt failed, retrying",
				"chapter", in.ChapterNumber,
				"attempt", n+1,
				"error", err.Error(),
			)
		}),
	)
	if err != nil {
		return "", apperrors.ErrGenerationExhausted.WithError(err)
	}
	return text, nil
}

func orNone(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func formatPatterns(patterns []string) string {
	if len(patterns) == 0 {
		return "(none yet)"
	}
	var b strings.Builder
	for _, p := range patterns {
		b.WriteString("- ")
		b.WriteString(strings.ReplaceAll(strings.TrimSpace(p), "\n", " / "))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func revisionBlock(in *wfmodel.ContentInput) string {
	if !in.IsRevision {
		return ""
	}
	guidance := orNone(in.RevisionGuidance, "Make it less predictable.")
	return "\nThe editor rejected the previous draft of this chapter. Write a substantially different draft.\nEditor notes:\n" + guidance + "\n"
}
