package prompt

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRendersAllPrompts(t *testing.T) {
	r := NewRegistry()
	vars := map[string]any{
		"industry_name":      "Self-Help",
		"target_audience":    "readers",
		"myths":              "m",
		"jargon":             "j",
		"context":            "The Art of...",
		"title":              "T",
		"subtitle":           "S",
		"chapter_count":      5,
		"chapter_number":     2,
		"total_chapters":     5,
		"chapter_title":      "C",
		"word_min":           1500,
		"word_max":           3000,
		"previous_summary":   "none",
		"forbidden_patterns": "none",
		"revision_block":     "",
		"previous_chapters":  "none",
		"content":            "body",
	}

	for _, id := range []PromptID{PromptTitleV1, PromptOutlineV1, PromptContentV1, PromptReviewV1} {
		tpl, err := r.ChatTemplate(id)
		require.NoError(t, err, id)

		msgs, err := tpl.Format(context.Background(), vars)
		require.NoError(t, err, id)
		require.Len(t, msgs, 2)
		assert.Equal(t, schema.System, msgs[0].Role)
		assert.Equal(t, schema.User, msgs[1].Role)
		assert.NotContains(t, msgs[1].Content, "{chapter_title}", id)
	}
}

func TestReviewPromptKeepsLiteralBraces(t *testing.T) {
	tpl, err := NewRegistry().ChatTemplate(PromptReviewV1)
	require.NoError(t, err)

	msgs, err := tpl.Format(context.Background(), map[string]any{
		"chapter_number":    1,
		"chapter_title":     "C",
		"previous_chapters": "none",
		"content":           "body",
	})
	require.NoError(t, err)
	assert.Contains(t, msgs[1].Content, `"requiresRevision": false`)
	assert.Contains(t, msgs[1].Content, `{"originality": 3`)
}

func TestRegistryUnknownPrompt(t *testing.T) {
	_, err := NewRegistry().ChatTemplate(PromptID("nope"))
	assert.Error(t, err)
}
