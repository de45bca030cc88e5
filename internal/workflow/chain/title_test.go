package chain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"satire-press-api/internal/domain/industry"
	wfmodel "satire-press-api/internal/workflow/model"
	apperrors "satire-press-api/pkg/errors"
)

func selfHelpVoice(t *testing.T) wfmodel.Voice {
	t.Helper()
	p, ok := industry.Get("self-help")
	require.True(t, ok)
	return wfmodel.Voice{Profile: p}
}

func TestTitleChainParsesPrefixedLines(t *testing.T) {
	gen := newScripted(reply("TITLE: The Art of Doing Nothing\nSUBTITLE: A lazy guide to pretending you're busy"))
	c := NewTitleChain(gen, testPrompts, wfmodel.StageParams{Temperature: 0.9, MaxTokens: 200})

	out, err := c.Invoke(context.Background(), &wfmodel.TitleInput{Voice: selfHelpVoice(t), Context: "The Art of..."})
	require.NoError(t, err)
	assert.Equal(t, "The Art of Doing Nothing", out.Title)
	assert.Equal(t, "A lazy guide to pretending you're busy", out.Subtitle)

	require.Equal(t, 1, gen.calls())
	req := gen.requests[0]
	assert.Equal(t, StageTitle, req.Workflow)
	assert.InDelta(t, 0.9, req.Temperature, 1e-6)
	assert.Contains(t, req.Messages[1].Content, "The Art of...")
}

func TestTitleChainMissingPrefixesYieldsEmptyFields(t *testing.T) {
	gen := newScripted(reply("I would rather write a poem."))
	c := NewTitleChain(gen, testPrompts, wfmodel.StageParams{})

	out, err := c.Invoke(context.Background(), &wfmodel.TitleInput{Voice: selfHelpVoice(t), Context: "x"})
	require.NoError(t, err)
	assert.Empty(t, out.Title)
	assert.Empty(t, out.Subtitle)
}

func TestTitleChainGenerationErrorDoesNotRetry(t *testing.T) {
	gen := newScripted(fail(errors.New("connection reset")), reply("TITLE: never"))
	c := NewTitleChain(gen, testPrompts, wfmodel.StageParams{})

	_, err := c.Invoke(context.Background(), &wfmodel.TitleInput{Voice: selfHelpVoice(t), Context: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrGenerationFailed)
	assert.Equal(t, 1, gen.calls())
}
