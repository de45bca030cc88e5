package book

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"satire-press-api/internal/domain/entity"
	"satire-press-api/internal/domain/repository"
	apperrors "satire-press-api/pkg/errors"
)

func TestGenerateTitleSelfHelpScenario(t *testing.T) {
	f := newFixture(t, 0)
	f.title.replies = []string{"TITLE: The Art of Doing Nothing\nSUBTITLE: A lazy guide to pretending you're busy"}

	got, err := f.svc.GenerateTitle(context.Background(), TitleRequest{Industry: "self-help", Context: "The Art of..."})
	require.NoError(t, err)
	assert.Equal(t, "The Art of Doing Nothing", got.Title)
	assert.Equal(t, "A lazy guide to pretending you're busy", got.Subtitle)
	assert.Equal(t, "The Art of...", got.Context)
	assert.Equal(t, "self-help", got.Industry)
	assert.Equal(t, 1, f.title.calls())
	assert.Contains(t, f.title.lastPrompt(), "The Art of...")
}

func TestGenerateTitleSamplesContextSeed(t *testing.T) {
	f := newFixture(t, 0)
	f.title.replies = []string{"TITLE: X"}

	got, err := f.svc.GenerateTitle(context.Background(), TitleRequest{Industry: "wellness"})
	require.NoError(t, err)
	assert.NotEmpty(t, got.Context)
	assert.Empty(t, got.Subtitle)
}

func TestGenerateTitleUnknownIndustry(t *testing.T) {
	f := newFixture(t, 0)

	_, err := f.svc.GenerateTitle(context.Background(), TitleRequest{Industry: "astrology"})
	assert.ErrorIs(t, err, apperrors.ErrIndustryNotFound)
	assert.Zero(t, f.title.calls())
}

func TestGenerateOutlinePersistsSampledCount(t *testing.T) {
	f := newFixture(t, 5)
	f.outline.replies = []string{`Here you go: ["One", "Two", "Three", "Four", "Five"]`}

	got, err := f.svc.GenerateOutline(context.Background(), OutlineRequest{
		Title: "The Art of Doing Nothing", Subtitle: "A lazy guide", Industry: "self-help",
	})
	require.NoError(t, err)
	assert.Len(t, got.ChapterTitles, 5)
	assert.Equal(t, 1, f.outline.calls())
	assert.Contains(t, f.outline.lastPrompt(), "5")

	b, err := f.books.GetByID(context.Background(), got.BookID)
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, []string{"One", "Two", "Three", "Four", "Five"}, []string(b.ChapterTitles))
	assert.True(t, b.TitleLocked)
	assert.False(t, b.ChaptersLocked)
}

func TestGenerateOutlineRejectsNonArray(t *testing.T) {
	f := newFixture(t, 5)
	f.outline.replies = []string{"Chapter one: something\nChapter two: else"}

	_, err := f.svc.GenerateOutline(context.Background(), OutlineRequest{Title: "T", Industry: "self-help"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidOutline)
	assert.Equal(t, 1, f.outline.calls())

	page, err := f.books.List(context.Background(), repository.NewPagination(1, 20))
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestGenerateOutlineUpdatesExistingBook(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 3)
	draft, err := f.svc.CreateDraft(ctx, DraftRequest{Title: "Draft", Industry: "finance"})
	require.NoError(t, err)

	f.outline.replies = []string{`["A", "B", "C"]`}
	got, err := f.svc.GenerateOutline(ctx, OutlineRequest{BookID: draft.ID})
	require.NoError(t, err)
	assert.Equal(t, draft.ID, got.BookID)

	b, err := f.svc.Get(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "Draft", b.Title)
	assert.Len(t, b.ChapterTitles, 3)
	assert.Equal(t, 2, b.Version)
}

func TestGenerateOutlineRejectedOnceContentExists(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 3)
	b := seedBook(t, f, 3, 1)

	_, err := f.svc.GenerateOutline(ctx, OutlineRequest{BookID: b.ID})
	assert.ErrorIs(t, err, apperrors.ErrChaptersLocked)
	assert.Zero(t, f.outline.calls())
}

func TestGenerateContentPersistsChapterAndPattern(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0)
	b := seedBook(t, f, 3, 1)
	f.content.replies = []string{"Stop trying.\nSeriously, stop.\nNow breathe.\nThe rest of the chapter."}

	res, err := f.svc.GenerateContent(ctx, ContentRequest{BookID: b.ID, ChapterNumber: 2})
	require.NoError(t, err)
	assert.Empty(t, res.Effects)
	assert.True(t, res.Persisted)
	assert.Equal(t, "Two", res.Record.Title)
	assert.Equal(t, 11, res.Record.WordCount)
	assert.Equal(t, entity.ProvenanceFirstDraft, res.Record.Provenance)

	prompt := f.content.lastPrompt()
	assert.Contains(t, prompt, "Chapter 1: One")
	assert.Contains(t, prompt, "- opening of chapter 1")

	stored, err := f.svc.Get(ctx, b.ID)
	require.NoError(t, err)
	require.Contains(t, stored.Chapters, 2)
	assert.Equal(t, res.Record.Content, stored.Chapters[2].Content)

	patterns, err := f.patterns.ListRecent(ctx, b.ID, 10)
	require.NoError(t, err)
	require.Len(t, patterns, 2)
	assert.Equal(t, "Stop trying.\nSeriously, stop.\nNow breathe.", patterns[0].PatternText)
}

func TestGenerateContentMarksBookCompleteOnLastChapter(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0)
	b := seedBook(t, f, 2, 1)
	f.content.replies = []string{"The final word on synergy."}

	res, err := f.svc.GenerateContent(ctx, ContentRequest{BookID: b.ID, ChapterNumber: 2})
	require.NoError(t, err)
	require.True(t, res.Persisted)

	stored, err := f.svc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, stored.Completed)
}

func TestGenerateContentSurvivesPatternStoreFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0)
	b := seedBook(t, f, 3, 0)
	f.patterns.AppendErr = errors.New("pattern table unavailable")
	f.content.replies = []string{"Chapter text here."}

	res, err := f.svc.GenerateContent(ctx, ContentRequest{BookID: b.ID, ChapterNumber: 1})
	require.NoError(t, err)
	require.NotNil(t, res.Record)
	assert.Equal(t, "Chapter text here.", res.Record.Content)
	assert.True(t, res.Failed(EffectPatternAppend))
	assert.True(t, res.Persisted)
}

func TestGenerateContentReturnsTextWhenBookWriteFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0)
	b := seedBook(t, f, 3, 0)
	f.books.UpdateErr = errors.New("disk full")
	f.content.replies = []string{"Precious words."}

	res, err := f.svc.GenerateContent(ctx, ContentRequest{BookID: b.ID, ChapterNumber: 1})
	require.NoError(t, err)
	assert.Equal(t, "Precious words.", res.Record.Content)
	assert.False(t, res.Persisted)
}

func TestGenerateContentRetriesVersionConflict(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0)
	b := seedBook(t, f, 3, 0)
	bumped := false
	f.books.UpdateHook = func(book *entity.Book) {
		if !bumped {
			bumped = true
			f.books.Bump(book.ID)
		}
	}
	f.content.replies = []string{"Words."}

	res, err := f.svc.GenerateContent(ctx, ContentRequest{BookID: b.ID, ChapterNumber: 1})
	require.NoError(t, err)
	assert.True(t, res.Persisted)

	stored, err := f.svc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Contains(t, stored.Chapters, 1)
	assert.True(t, stored.ChaptersLocked)
}

func TestGenerateContentUnknownBook(t *testing.T) {
	f := newFixture(t, 0)

	_, err := f.svc.GenerateContent(context.Background(), ContentRequest{BookID: "missing", ChapterNumber: 1})
	assert.ErrorIs(t, err, apperrors.ErrBookNotFound)
	assert.Zero(t, f.content.calls())
}

func TestGenerateContentRevisionMode(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0)
	b := seedBook(t, f, 3, 0)
	f.content.replies = []string{"Second draft."}

	res, err := f.svc.GenerateContent(ctx, ContentRequest{
		BookID: b.ID, ChapterNumber: 1, Revision: 1, RevisionGuidance: "open with an anecdote",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ProvenanceRevised, res.Record.Provenance)
	assert.Equal(t, 1, res.Record.Revision)
	assert.Contains(t, f.content.lastPrompt(), "open with an anecdote")
}

func TestReviewIncludesPriorChapters(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0)
	b := seedBook(t, f, 3, 2)
	f.review.replies = []string{"Sure! Here is my verdict:\n" + passVerdict + "\nHope this helps."}

	v, err := f.svc.Review(ctx, ReviewRequest{BookID: b.ID, ChapterNumber: 3, ChapterTitle: "Three", Content: "text"})
	require.NoError(t, err)
	assert.False(t, v.RequiresRevision)
	assert.Equal(t, 5, v.Scores.Coherence)

	prompt := f.review.lastPrompt()
	assert.Contains(t, prompt, "Chapter 1: One")
	assert.Contains(t, prompt, "Chapter 2: Two")
}

func TestReviewInvalidFormatIsHardFailure(t *testing.T) {
	f := newFixture(t, 0)
	f.review.replies = []string{"I liked it a lot."}

	_, err := f.svc.Review(context.Background(), ReviewRequest{ChapterNumber: 1, ChapterTitle: "One", Content: "text"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidReviewFormat)
}

// seedBook 创建带大纲的图书，并写入前 chapters 章内容
func seedBook(t *testing.T, f *fixture, outline, chapters int) *entity.Book {
	t.Helper()
	names := []string{"One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight"}
	b := entity.NewBook("Book", "Sub", "self-help", "")
	b.SetOutline(names[:outline])
	for i := 1; i <= chapters; i++ {
		b.PutChapter(entity.NewChapterRecord(i, names[i-1], "opening of chapter "+strings.Repeat("x", i), 0))
	}
	require.NoError(t, f.books.Create(context.Background(), b))
	for i := 1; i <= chapters; i++ {
		require.NoError(t, f.patterns.Append(context.Background(), entity.NewOpeningPattern(b.ID, i, "opening of chapter "+string(rune('0'+i)))))
	}
	return b
}
