package book

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"satire-press-api/internal/infrastructure/persistence/memory"
	"satire-press-api/internal/workflow/chain"
	wfmodel "satire-press-api/internal/workflow/model"
	workflowport "satire-press-api/internal/workflow/port"
	workflowprompt "satire-press-api/internal/workflow/prompt"
)

type stubGenerator struct {
	mu       sync.Mutex
	replies  []string
	errs     []error
	requests []*workflowport.CompletionRequest
}

func newStub(replies ...string) *stubGenerator {
	return &stubGenerator{replies: replies}
}

func (g *stubGenerator) Complete(_ context.Context, req *workflowport.CompletionRequest) (*workflowport.Completion, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	i := len(g.requests)
	g.requests = append(g.requests, req)
	if i < len(g.errs) && g.errs[i] != nil {
		return nil, g.errs[i]
	}
	if len(g.replies) == 0 {
		return &workflowport.Completion{}, nil
	}
	if i >= len(g.replies) {
		i = len(g.replies) - 1
	}
	return &workflowport.Completion{Text: g.replies[i]}, nil
}

func (g *stubGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.requests)
}

func (g *stubGenerator) lastPrompt() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.requests) == 0 {
		return ""
	}
	var b strings.Builder
	for _, m := range g.requests[len(g.requests)-1].Messages {
		b.WriteString(m.Content)
		b.WriteString("\n")
	}
	return b.String()
}

type fixedRandom int

func (f fixedRandom) IntRange(min, max int) int {
	return clampInt(int(f), min, max)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

type fixture struct {
	svc      *Service
	books    *memory.BookRepository
	patterns *memory.PatternRepository
	title    *stubGenerator
	outline  *stubGenerator
	content  *stubGenerator
	review   *stubGenerator
}

func newFixture(t *testing.T, rnd int) *fixture {
	t.Helper()
	prompts := workflowprompt.NewRegistry()
	f := &fixture{
		books:    memory.NewBookRepository(),
		patterns: memory.NewPatternRepository(),
		title:    newStub(),
		outline:  newStub(),
		content:  newStub(),
		review:   newStub(),
	}
	reviewChain, err := chain.NewReviewChain(f.review, prompts, wfmodel.StageParams{Temperature: 0.3})
	require.NoError(t, err)

	f.svc = NewService(f.books, f.patterns, Stages{
		Title:   chain.NewTitleChain(f.title, prompts, wfmodel.StageParams{Temperature: 0.9}),
		Outline: chain.NewOutlineChain(f.outline, prompts, wfmodel.StageParams{Temperature: 0.8}),
		Content: chain.NewContentChain(f.content, prompts, wfmodel.StageParams{Temperature: 0.7},
			chain.ContentPolicy{TemperatureStep: 0.03, TemperatureCap: 0.95, RetryAttempts: 3}, fixedRandom(rnd)),
		Review: reviewChain,
	}, fixedRandom(rnd), Options{})
	return f
}

const passVerdict = `{"requiresRevision": false, "reason": "sharp", "scores": {"originality": 4, "humor": 4, "coherence": 5, "voice": 4, "pacing": 4}, "formulaicPatterns": [], "bestLines": ["a"], "recommendations": {"keep": ["tone"], "consider": [], "watch": []}}`

const reviseVerdict = `{"requiresRevision": true, "reason": "flat opening", "scores": {"originality": 2, "humor": 2, "coherence": 4, "voice": 3, "pacing": 3}, "formulaicPatterns": ["rhetorical question"], "bestLines": [], "recommendations": {"keep": [], "consider": ["open with an anecdote"], "watch": ["listicles"]}}`
