package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"satire-press-api/internal/domain/entity"
	wfmodel "satire-press-api/internal/workflow/model"
	"satire-press-api/internal/workflow/node"
	workflowport "satire-press-api/internal/workflow/port"
	workflowprompt "satire-press-api/internal/workflow/prompt"
	apperrors "satire-press-api/pkg/errors"
)

const verdictSchemaURL = "review_verdict.json"

const verdictSchema = `{
  "type": "object",
  "required": ["requiresRevision"],
  "properties": {
    "requiresRevision": {"type": "boolean"},
    "reason": {"type": "string"},
    "scores": {
      "type": "object",
      "additionalProperties": {"type": "integer", "minimum": 1, "maximum": 5}
    },
    "formulaicPatterns": {"type": "array", "items": {"type": "string"}},
    "bestLines": {"type": "array", "items": {"type": "string"}},
    "recommendations": {
      "type": "object",
      "properties": {
        "keep": {"type": "array", "items": {"type": "string"}},
        "consider": {"type": "array", "items": {"type": "string"}},
        "watch": {"type": "array", "items": {"type": "string"}}
      }
    }
  }
}`

type ReviewChain struct {
	gen     workflowport.TextGenerator
	prompts *workflowprompt.Registry
	params  wfmodel.StageParams
	schema  *jsonschema.Schema
}

func NewReviewChain(gen workflowport.TextGenerator, prompts *workflowprompt.Registry, params wfmodel.StageParams) (*ReviewChain, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(verdictSchemaURL, strings.NewReader(verdictSchema)); err != nil {
		return nil, fmt.Errorf("add verdict schema: %w", err)
	}
	sch, err := compiler.Compile(verdictSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile verdict schema: %w", err)
	}
	return &ReviewChain{gen: gen, prompts: prompts, params: params, schema: sch}, nil
}

// Invoke 审稿并返回结论。无法截取或校验的输出一律视为格式错误，不做默认通过。
func (c *ReviewChain) Invoke(ctx context.Context, in *wfmodel.ReviewInput) (verdict *entity.ReviewVerdict, err error) {
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, fmt.Errorf("content is required")
	}
	defer func(start time.Time) { observe(StageReview, start, err) }(time.Now())

	msgs, err := formatMessages(ctx, c.prompts, workflowprompt.PromptReviewV1, map[string]any{
		"chapter_number":    in.ChapterNumber,
		"chapter_title":     in.ChapterTitle,
		"content":           in.Content,
		"previous_chapters": formatPrior(in.Previous),
	})
	if err != nil {
		return nil, err
	}

	text, err := complete(ctx, c.gen, StageReview, c.params, msgs)
	if err != nil {
		return nil, apperrors.ErrGenerationFailed.WithError(err)
	}
	return c.Parse(text)
}

// Parse 从原始输出中截取并校验审稿结论
func (c *ReviewChain) Parse(text string) (*entity.ReviewVerdict, error) {
	raw, err := node.ExtractJSONObject(text)
	if err != nil {
		return nil, apperrors.ErrInvalidReviewFormat.WithError(err)
	}

	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, apperrors.ErrInvalidReviewFormat.WithError(err)
	}
	if err := c.schema.Validate(doc); err != nil {
		return nil, apperrors.ErrInvalidReviewFormat.WithError(err)
	}

	var verdict entity.ReviewVerdict
	if err := json.Unmarshal([]byte(raw), &verdict); err != nil {
		return nil, apperrors.ErrInvalidReviewFormat.WithError(err)
	}
	return &verdict, nil
}

func formatPrior(prev []wfmodel.PriorChapter) string {
	if len(prev) == 0 {
		return "(none; this is the opening chapter)"
	}
	var b strings.Builder
	for _, p := range prev {
		fmt.Fprintf(&b, "Chapter %d: %s\n%s\n\n", p.Number, p.Title, p.Excerpt)
	}
	return strings.TrimSpace(b.String())
}
