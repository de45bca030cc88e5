package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	llmctx "satire-press-api/internal/domain/service"
	workflowport "satire-press-api/internal/workflow/port"
)

type recordingModel struct {
	reply    *schema.Message
	err      error
	opts     *model.Options
	workflow string
	provider string
}

func (m *recordingModel) Generate(ctx context.Context, _ []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.opts = model.GetCommonOptions(nil, opts...)
	m.workflow = llmctx.WorkflowFromContext(ctx)
	m.provider = llmctx.ProviderFromContext(ctx)
	return m.reply, m.err
}

func (m *recordingModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not supported")
}

type staticFactory struct {
	m    model.BaseChatModel
	name string
}

func (f *staticFactory) Get(_ context.Context, name string) (model.BaseChatModel, error) {
	f.name = name
	return f.m, nil
}

func TestClientCompletePassesSamplingOptions(t *testing.T) {
	m := &recordingModel{reply: &schema.Message{
		Role:    schema.Assistant,
		Content: "TITLE: x",
		ResponseMeta: &schema.ResponseMeta{
			Usage: &schema.TokenUsage{PromptTokens: 12, CompletionTokens: 5},
		},
	}}
	factory := &staticFactory{m: m}
	c := NewClient(factory, "openai")

	out, err := c.Complete(context.Background(), &workflowport.CompletionRequest{
		Workflow:    "title",
		Model:       "gpt-4o",
		Messages:    []*schema.Message{schema.UserMessage("hi")},
		Temperature: 0.9,
		MaxTokens:   200,
	})
	require.NoError(t, err)
	assert.Equal(t, "TITLE: x", out.Text)
	assert.Equal(t, 12, out.PromptTokens)
	assert.Equal(t, 5, out.CompletionTokens)

	assert.Equal(t, "openai", factory.name)
	assert.Equal(t, "title", m.workflow)
	assert.Equal(t, "openai", m.provider)
	require.NotNil(t, m.opts.Temperature)
	assert.InDelta(t, 0.9, *m.opts.Temperature, 1e-6)
	require.NotNil(t, m.opts.MaxTokens)
	assert.Equal(t, 200, *m.opts.MaxTokens)
	require.NotNil(t, m.opts.Model)
	assert.Equal(t, "gpt-4o", *m.opts.Model)
}

func TestClientCompletePropagatesErrors(t *testing.T) {
	c := NewClient(&staticFactory{m: &recordingModel{err: errors.New("429 slow down")}}, "openai")

	_, err := c.Complete(context.Background(), &workflowport.CompletionRequest{
		Messages: []*schema.Message{schema.UserMessage("hi")},
	})
	assert.EqualError(t, err, "429 slow down")

	_, err = c.Complete(context.Background(), &workflowport.CompletionRequest{})
	assert.Error(t, err)
}
