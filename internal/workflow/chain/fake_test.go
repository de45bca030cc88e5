package chain

import (
	"context"
	"sync"

	workflowport "satire-press-api/internal/workflow/port"
	workflowprompt "satire-press-api/internal/workflow/prompt"
)

// scriptedGenerator 依次返回预设的响应
type scriptedGenerator struct {
	mu        sync.Mutex
	responses []scriptedResponse
	requests  []*workflowport.CompletionRequest
}

type scriptedResponse struct {
	text string
	err  error
}

func newScripted(responses ...scriptedResponse) *scriptedGenerator {
	return &scriptedGenerator{responses: responses}
}

func reply(text string) scriptedResponse { return scriptedResponse{text: text} }

func fail(err error) scriptedResponse { return scriptedResponse{err: err} }

func (g *scriptedGenerator) Complete(_ context.Context, req *workflowport.CompletionRequest) (*workflowport.Completion, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, req)
	if len(g.responses) == 0 {
		return &workflowport.Completion{}, nil
	}
	r := g.responses[0]
	if len(g.responses) > 1 {
		g.responses = g.responses[1:]
	}
	if r.err != nil {
		return nil, r.err
	}
	return &workflowport.Completion{Text: r.text}, nil
}

func (g *scriptedGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.requests)
}

type fixedRandom int

func (f fixedRandom) IntRange(min, max int) int {
	v := int(f)
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

var testPrompts = workflowprompt.NewRegistry()
