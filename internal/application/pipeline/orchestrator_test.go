package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"satire-press-api/internal/application/book"
	"satire-press-api/internal/domain/entity"
	"satire-press-api/internal/infrastructure/persistence/memory"
	apperrors "satire-press-api/pkg/errors"
)

type stubContent struct {
	calls    []book.ContentRequest
	err      error
	failFrom int
}

func (s *stubContent) GenerateContent(_ context.Context, req book.ContentRequest) (*book.ContentResult, error) {
	s.calls = append(s.calls, req)
	if s.err != nil && len(s.calls) >= s.failFrom {
		return nil, s.err
	}
	text := fmt.Sprintf("draft %d of chapter %d", len(s.calls), req.ChapterNumber)
	return &book.ContentResult{Record: entity.NewChapterRecord(req.ChapterNumber, req.ChapterTitle, text, req.Revision)}, nil
}

type stubReviewer struct {
	calls  int
	revise bool
	err    error
}

func (s *stubReviewer) Review(context.Context, book.ReviewRequest) (*entity.ReviewVerdict, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &entity.ReviewVerdict{
		RequiresRevision: s.revise,
		Reason:           "too formulaic",
		Recommendations:  entity.Recommendations{Consider: []string{"cut the listicle"}},
	}, nil
}

type recordingPublisher struct {
	events []*ChapterAccepted
}

func (p *recordingPublisher) PublishChapterAccepted(_ context.Context, evt *ChapterAccepted) error {
	p.events = append(p.events, evt)
	return nil
}

type harness struct {
	orch     *Orchestrator
	books    *memory.BookRepository
	content  *stubContent
	reviewer *stubReviewer
	pub      *recordingPublisher
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		books:    memory.NewBookRepository(),
		content:  &stubContent{},
		reviewer: &stubReviewer{},
		pub:      &recordingPublisher{},
	}
	store := book.NewService(h.books, memory.NewPatternRepository(), book.Stages{}, nil, book.Options{})
	h.orch = NewOrchestrator(store, h.content, h.reviewer, WithPublisher(h.pub))
	return h
}

func (h *harness) seed(t *testing.T, outline, chapters int) *entity.Book {
	t.Helper()
	b := entity.NewBook("Book", "Sub", "self-help", "")
	titles := make([]string, outline)
	for i := range titles {
		titles[i] = fmt.Sprintf("Chapter %d", i+1)
	}
	b.SetOutline(titles)
	for i := 1; i <= chapters; i++ {
		b.PutChapter(entity.NewChapterRecord(i, titles[i-1], "existing", 0))
	}
	require.NoError(t, h.books.Create(context.Background(), b))
	return b
}

func TestRunNextAlwaysReviseStopsAtMaxAttempts(t *testing.T) {
	h := newHarness(t)
	h.reviewer.revise = true
	b := h.seed(t, 3, 0)

	out, err := h.orch.RunNext(context.Background(), b.ID, "admin")
	require.NoError(t, err)

	assert.Len(t, h.content.calls, 2)
	assert.Equal(t, 2, h.reviewer.calls)
	assert.Equal(t, 2, out.Attempts)
	assert.True(t, out.Revised)
	assert.True(t, out.Verdict.RequiresRevision)
	assert.Equal(t, entity.ProvenanceRevised, out.Record.Provenance)
	assert.Equal(t, []State{StateGenerating, StateReviewing, StateRegenerating, StateReviewing, StateAccepted}, out.States)

	second := h.content.calls[1]
	assert.Equal(t, 1, second.Revision)
	assert.Equal(t, "cut the listicle", second.RevisionGuidance)
	assert.True(t, second.Deferred)
}

func TestRunNextFirstPassAcceptedWithOneCall(t *testing.T) {
	h := newHarness(t)
	b := h.seed(t, 3, 0)

	out, err := h.orch.RunNext(context.Background(), b.ID, "admin")
	require.NoError(t, err)

	assert.Len(t, h.content.calls, 1)
	assert.Equal(t, 1, out.Attempts)
	assert.False(t, out.Revised)
	assert.Equal(t, entity.ProvenanceFirstDraft, out.Record.Provenance)
	assert.Empty(t, h.content.calls[0].RevisionGuidance)
	assert.True(t, out.Persisted)

	stored, err := h.books.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	rec := stored.Chapters[1]
	require.NotNil(t, rec)
	assert.True(t, rec.Accepted)
	assert.Equal(t, 1, rec.Attempts)
	assert.True(t, stored.ChaptersLocked)

	require.Len(t, h.pub.events, 1)
	assert.Equal(t, 1, h.pub.events[0].ChapterNumber)
}

func TestRunNextAdvancesCursorAndCompletesBook(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	b := h.seed(t, 2, 1)

	out, err := h.orch.RunNext(ctx, b.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, 2, out.ChapterNumber)
	assert.True(t, out.BookCompleted)

	session, err := h.orch.Resume(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, session.Completed)

	_, err = h.orch.RunNext(ctx, b.ID, "admin")
	assert.ErrorIs(t, err, apperrors.ErrBookCompleted)
}

func TestRunNextReviewFailureLeavesCursorUnmoved(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.reviewer.err = apperrors.ErrInvalidReviewFormat
	b := h.seed(t, 4, 1)

	_, err := h.orch.RunNext(ctx, b.ID, "admin")
	assert.ErrorIs(t, err, apperrors.ErrInvalidReviewFormat)

	session, err := h.orch.Resume(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, session.NextChapter)
	assert.Empty(t, h.pub.events)
}

func TestRunNextContentFailureOnRevisionAborts(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.reviewer.revise = true
	h.content.err = apperrors.ErrGenerationExhausted
	h.content.failFrom = 2
	b := h.seed(t, 3, 0)

	_, err := h.orch.RunNext(ctx, b.ID, "admin")
	assert.ErrorIs(t, err, apperrors.ErrGenerationExhausted)

	stored, err := h.books.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Chapters)
}

func TestRunNextPersistFailureStillReturnsChapter(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	b := h.seed(t, 3, 0)
	h.books.UpdateErr = errors.New("db down")

	out, err := h.orch.RunNext(ctx, b.ID, "admin")
	require.NoError(t, err)
	assert.False(t, out.Persisted)
	assert.NotEmpty(t, out.Record.Content)
	assert.Empty(t, h.pub.events)
}

func TestResumeFromPersistedState(t *testing.T) {
	h := newHarness(t)
	b := h.seed(t, 8, 3)

	session, err := h.orch.Resume(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, session.NextChapter)
	assert.Equal(t, 8, session.TotalChapters)
	assert.False(t, session.Completed)
}

func TestRunAllCompletesRemainingChapters(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	b := h.seed(t, 4, 1)

	outcomes, err := h.orch.RunAll(ctx, b.ID, "worker")
	require.NoError(t, err)
	require.Len(t, outcomes, 3)
	assert.Equal(t, []int{2, 3, 4}, []int{outcomes[0].ChapterNumber, outcomes[1].ChapterNumber, outcomes[2].ChapterNumber})
	assert.True(t, outcomes[2].BookCompleted)
	assert.Len(t, h.pub.events, 3)
}

func TestUndoLastRewindsCursor(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	b := h.seed(t, 2, 0)

	_, err := h.orch.RunAll(ctx, b.ID, "admin")
	require.NoError(t, err)

	res, err := h.orch.UndoLast(ctx, b.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, 2, res.RemovedChapter)
	assert.Equal(t, 2, res.Session.NextChapter)
	assert.False(t, res.Session.Completed)

	stored, err := h.books.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, stored.Completed)
	assert.True(t, stored.ChaptersLocked)

	_, err = h.orch.UndoLast(ctx, b.ID, "admin")
	require.NoError(t, err)
	_, err = h.orch.UndoLast(ctx, b.ID, "admin")
	assert.ErrorIs(t, err, apperrors.ErrNothingToUndo)
}

func TestRunNextWithoutOutline(t *testing.T) {
	h := newHarness(t)
	b := entity.NewBook("Draft", "", "self-help", "")
	require.NoError(t, h.books.Create(context.Background(), b))

	_, err := h.orch.RunNext(context.Background(), b.ID, "admin")
	assert.ErrorIs(t, err, apperrors.ErrInvalidParam)
	assert.Empty(t, h.content.calls)
}
