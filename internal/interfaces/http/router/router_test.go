package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"satire-press-api/internal/application/book"
	"satire-press-api/internal/application/community"
	"satire-press-api/internal/application/pipeline"
	"satire-press-api/internal/application/ratelimit"
	"satire-press-api/internal/domain/entity"
	"satire-press-api/internal/infrastructure/persistence/memory"
	"satire-press-api/internal/interfaces/http/handler"
	"satire-press-api/internal/interfaces/http/middleware"
	"satire-press-api/internal/workflow/chain"
	wfmodel "satire-press-api/internal/workflow/model"
	workflowport "satire-press-api/internal/workflow/port"
	workflowprompt "satire-press-api/internal/workflow/prompt"
	"satire-press-api/pkg/utils"
)

const (
	testSecret = "test-secret"
	testIssuer = "satire-press"
)

const passVerdict = `{"requiresRevision": false, "reason": "sharp", "scores": {"humor": 4}, "recommendations": {"keep": ["tone"]}}`

type scriptedGenerator struct {
	mu      sync.Mutex
	replies []string
	err     error
	calls   int
}

func (g *scriptedGenerator) Complete(context.Context, *workflowport.CompletionRequest) (*workflowport.Completion, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	i := g.calls
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	if len(g.replies) == 0 {
		return &workflowport.Completion{}, nil
	}
	if i >= len(g.replies) {
		i = len(g.replies) - 1
	}
	return &workflowport.Completion{Text: g.replies[i]}, nil
}

type fixedRandom int

func (f fixedRandom) IntRange(lo, hi int) int {
	return min(max(int(f), lo), hi)
}

type fakeQueue struct {
	jobs []string
}

func (q *fakeQueue) EnqueueAutorun(_ context.Context, bookID, _ string) (string, error) {
	q.jobs = append(q.jobs, bookID)
	return "job-1", nil
}

type apiHarness struct {
	engine  *gin.Engine
	books   *memory.BookRepository
	users   *memory.UserRepository
	title   *scriptedGenerator
	outline *scriptedGenerator
	content *scriptedGenerator
	review  *scriptedGenerator
	queue   *fakeQueue
	now     time.Time
	token   string
}

func newAPIHarness(t *testing.T, rateLimit int) *apiHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := &apiHarness{
		books:   memory.NewBookRepository(),
		users:   memory.NewUserRepository(),
		title:   &scriptedGenerator{replies: []string{"TITLE: Synergy Is My Spirit Animal\nSUBTITLE: Leading from the back of the room"}},
		outline: &scriptedGenerator{replies: []string{`["Wake Up", "Align", "Pivot"]`}},
		content: &scriptedGenerator{replies: []string{"It was a Tuesday, as most disruptions are."}},
		review:  &scriptedGenerator{replies: []string{passVerdict}},
		queue:   &fakeQueue{},
		now:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	prompts := workflowprompt.NewRegistry()
	reviewChain, err := chain.NewReviewChain(h.review, prompts, wfmodel.StageParams{Temperature: 0.3})
	require.NoError(t, err)

	svc := book.NewService(h.books, memory.NewPatternRepository(), book.Stages{
		Title:   chain.NewTitleChain(h.title, prompts, wfmodel.StageParams{Temperature: 0.9}),
		Outline: chain.NewOutlineChain(h.outline, prompts, wfmodel.StageParams{Temperature: 0.8}),
		Content: chain.NewContentChain(h.content, prompts, wfmodel.StageParams{Temperature: 0.7},
			chain.ContentPolicy{RetryAttempts: 1}, fixedRandom(3)),
		Review: reviewChain,
	}, fixedRandom(3), book.Options{})
	orch := pipeline.NewOrchestrator(svc, svc, svc)
	communitySvc := community.NewService(memory.NewTitleRepository(), svc, nil, 0)

	authCfg := middleware.AuthConfig{Secret: testSecret, Issuer: testIssuer, Enabled: true}
	limiter := ratelimit.NewLimiter(ratelimit.NewMemoryStore(time.Minute), rateLimit, time.Hour,
		ratelimit.WithClock(func() time.Time { return h.now }),
		ratelimit.WithScope("community"),
	)

	handlers := &Handlers{
		Health:    handler.NewHealthHandler("test", nil, nil),
		Auth:      handler.NewAuthHandler(authCfg, time.Hour, h.users),
		Generate:  handler.NewGenerateHandler(svc),
		Admin:     handler.NewAdminEditHandler(svc),
		Books:     handler.NewBookHandler(svc, orch, h.queue),
		Community: handler.NewCommunityHandler(communitySvc),
	}

	h.engine = gin.New()
	RegisterAPIRoutes(h.engine.Group("/api"), middleware.Auth(authCfg), middleware.RateLimit(limiter), handlers)

	token, _, err := utils.NewJWTManager(testSecret, testIssuer).GenerateToken("admin-1", "admin@press.test", string(entity.UserRoleAdmin), time.Hour)
	require.NoError(t, err)
	h.token = token
	return h
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (h *apiHarness) do(t *testing.T, method, path string, body any, authed bool) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}
	w := httptest.NewRecorder()
	h.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func (h *apiHarness) seed(t *testing.T, chapters int) *entity.Book {
	t.Helper()
	b := entity.NewBook("Synergy", "Sub", "tech-startup", "")
	b.SetOutline([]string{"Wake Up", "Align", "Pivot"})
	for n := 1; n <= chapters; n++ {
		b.PutChapter(entity.NewChapterRecord(n, b.ChapterTitles[n-1], "some words in a chapter", 0))
	}
	require.NoError(t, h.books.Create(context.Background(), b))
	return b
}

func TestAdminRoutesRequireToken(t *testing.T) {
	h := newAPIHarness(t, 5)

	w, _ := h.do(t, http.MethodPost, "/api/generate/title", map[string]string{"industry": "self-help"}, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, h.title.calls)
}

func TestGenerateTitleAndChapters(t *testing.T) {
	h := newAPIHarness(t, 5)

	w, env := h.do(t, http.MethodPost, "/api/generate/title", map[string]string{"industry": "tech-startup"}, true)
	require.Equal(t, http.StatusOK, w.Code)
	var title book.TitleResult
	require.NoError(t, json.Unmarshal(env.Data, &title))
	assert.Equal(t, "Synergy Is My Spirit Animal", title.Title)
	assert.NotEmpty(t, title.Context)

	w, env = h.do(t, http.MethodPost, "/api/generate/chapters", map[string]string{
		"title": title.Title, "subtitle": title.Subtitle, "industry": "tech-startup",
	}, true)
	require.Equal(t, http.StatusOK, w.Code)
	var outline book.OutlineResult
	require.NoError(t, json.Unmarshal(env.Data, &outline))
	assert.Equal(t, []string{"Wake Up", "Align", "Pivot"}, outline.ChapterTitles)

	stored, err := h.books.GetByID(context.Background(), outline.BookID)
	require.NoError(t, err)
	assert.True(t, stored.TitleLocked)
}

func TestUnknownIndustryIsBadRequest(t *testing.T) {
	h := newAPIHarness(t, 5)

	w, env := h.do(t, http.MethodPost, "/api/generate/title", map[string]string{"industry": "astrology"}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Message, "unknown industry")

	w, _ = h.do(t, http.MethodPost, "/api/community/titles", map[string]string{"industry": "astrology"}, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, h.title.calls)
}

func TestReviewWithoutBook(t *testing.T) {
	h := newAPIHarness(t, 5)

	w, env := h.do(t, http.MethodPost, "/api/generate/review", map[string]string{
		"chapterTitle": "Wake Up", "content": "It was a Tuesday, as most disruptions are.",
	}, true)
	require.Equal(t, http.StatusOK, w.Code)
	var res struct {
		Review entity.ReviewVerdict `json:"review"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.False(t, res.Review.RequiresRevision)
	assert.Equal(t, 1, h.review.calls)
}

func TestGenerateContentForLastChapterCompletesBook(t *testing.T) {
	h := newAPIHarness(t, 5)
	b := h.seed(t, 2)

	w, _ := h.do(t, http.MethodPost, "/api/generate/content", map[string]any{
		"bookId": b.ID, "chapterNumber": 3,
	}, true)
	require.Equal(t, http.StatusOK, w.Code)

	w, env := h.do(t, http.MethodGet, "/api/admin/books/"+b.ID, nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		Book struct {
			Completed bool `json:"completed"`
		} `json:"book"`
		Session struct {
			Completed bool `json:"bookCompleted"`
		} `json:"session"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.True(t, detail.Book.Completed)
	assert.True(t, detail.Session.Completed)
}

func TestGenerateChaptersRejectsMalformedOutline(t *testing.T) {
	h := newAPIHarness(t, 5)
	h.outline.replies = []string{"1. Wake Up\n2. Align"}

	w, _ := h.do(t, http.MethodPost, "/api/generate/chapters", map[string]string{
		"title": "Synergy", "industry": "tech-startup",
	}, true)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestEditTitleLockedReturns400(t *testing.T) {
	h := newAPIHarness(t, 5)
	b := h.seed(t, 0)

	w, env := h.do(t, http.MethodPut, "/api/admin/edit/title", map[string]string{
		"bookId": b.ID, "title": "Something Else",
	}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Message, "title is locked")
}

func TestEditChaptersLockedReturns400(t *testing.T) {
	h := newAPIHarness(t, 5)
	b := h.seed(t, 1)

	w, env := h.do(t, http.MethodPut, "/api/admin/edit/chapters", map[string]any{
		"bookId": b.ID, "chapterTitles": []string{"New"},
	}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Message, "chapter list is locked")
}

func TestEditContentRecomputesWordCount(t *testing.T) {
	h := newAPIHarness(t, 5)
	b := h.seed(t, 1)

	w, env := h.do(t, http.MethodPut, "/api/admin/edit/content", map[string]any{
		"bookId": b.ID, "chapterNumber": 1, "content": "exactly five words right here",
	}, true)
	require.Equal(t, http.StatusOK, w.Code)
	var ch struct {
		WordCount int `json:"wordCount"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &ch))
	assert.Equal(t, 5, ch.WordCount)

	w, _ = h.do(t, http.MethodPut, "/api/admin/edit/content", map[string]any{
		"bookId": b.ID, "chapterNumber": 3, "content": "nope",
	}, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNextChapterAdvancesCursor(t *testing.T) {
	h := newAPIHarness(t, 5)
	b := h.seed(t, 1)

	w, env := h.do(t, http.MethodPost, "/api/admin/books/"+b.ID+"/next", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	var out struct {
		ChapterNumber int  `json:"chapterNumber"`
		Attempts      int  `json:"attempts"`
		Persisted     bool `json:"persisted"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, 2, out.ChapterNumber)
	assert.Equal(t, 1, out.Attempts)
	assert.True(t, out.Persisted)

	w, env = h.do(t, http.MethodGet, "/api/admin/books/"+b.ID, nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		Session pipeline.Session `json:"session"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, 3, detail.Session.NextChapter)
}

func TestUndoWithoutChaptersReturns400(t *testing.T) {
	h := newAPIHarness(t, 5)
	b := h.seed(t, 0)

	w, _ := h.do(t, http.MethodPost, "/api/admin/books/"+b.ID+"/undo", nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAutorunEnqueuesJob(t *testing.T) {
	h := newAPIHarness(t, 5)
	b := h.seed(t, 1)

	w, _ := h.do(t, http.MethodPost, "/api/admin/books/"+b.ID+"/autorun", nil, true)
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, []string{b.ID}, h.queue.jobs)

	w, _ = h.do(t, http.MethodPost, "/api/admin/books/00000000-0000-0000-0000-000000000000/autorun", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCommunityGenerateIsRateLimited(t *testing.T) {
	h := newAPIHarness(t, 2)
	body := map[string]string{"industry": "wellness"}

	for i := 0; i < 2; i++ {
		w, _ := h.do(t, http.MethodPost, "/api/community/titles", body, false)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, env := h.do(t, http.MethodPost, "/api/community/titles", body, false)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, http.StatusTooManyRequests, env.Code)
	assert.Equal(t, "rate limit exceeded, try again later", env.Message)
	assert.Equal(t, "3600", w.Header().Get("Retry-After"))
	assert.Equal(t, 2, h.title.calls)

	h.now = h.now.Add(time.Hour)
	w, _ = h.do(t, http.MethodPost, "/api/community/titles", body, false)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCommunityFailuresDoNotConsumeQuota(t *testing.T) {
	h := newAPIHarness(t, 1)
	h.title.err = errors.New("upstream down")

	w, _ := h.do(t, http.MethodPost, "/api/community/titles", map[string]string{"industry": "wellness"}, false)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	h.title.err = nil
	w, _ = h.do(t, http.MethodPost, "/api/community/titles", map[string]string{"industry": "wellness"}, false)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCommunityVoteOncePerClient(t *testing.T) {
	h := newAPIHarness(t, 10)

	w, env := h.do(t, http.MethodPost, "/api/community/titles", map[string]string{"industry": "finance"}, false)
	require.Equal(t, http.StatusCreated, w.Code)
	var sub struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &sub))

	w, env = h.do(t, http.MethodPost, "/api/community/titles/"+sub.ID+"/vote", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	var vote community.VoteResult
	require.NoError(t, json.Unmarshal(env.Data, &vote))
	assert.Equal(t, 1, vote.Votes)

	w, _ = h.do(t, http.MethodPost, "/api/community/titles/"+sub.ID+"/vote", nil, false)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, env = h.do(t, http.MethodGet, "/api/community/titles", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	var list []struct {
		Votes int `json:"votes"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].Votes)
}

func TestLogin(t *testing.T) {
	h := newAPIHarness(t, 5)
	admin := entity.NewAdmin("Admin@Press.test", "Admin")
	require.NoError(t, admin.SetPassword("correct horse"))
	require.NoError(t, h.users.Create(context.Background(), admin))

	w, _ := h.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "admin@press.test", "password": "wrong",
	}, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env := h.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "admin@press.test", "password": "correct horse",
	}, false)
	require.Equal(t, http.StatusOK, w.Code)
	var auth struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &auth))

	claims, err := utils.NewJWTManager(testSecret, testIssuer).ParseToken(auth.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, claims.UserID)
}
