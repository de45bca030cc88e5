package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"satire-press-api/internal/domain/entity"
	"satire-press-api/internal/domain/repository"
)

func TestBookRepositoryCompareAndSwap(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository()
	book := entity.NewBook("T", "S", "self-help", "")
	require.NoError(t, repo.Create(ctx, book))

	a, err := repo.GetByID(ctx, book.ID)
	require.NoError(t, err)
	b, err := repo.GetByID(ctx, book.ID)
	require.NoError(t, err)

	a.Title = "first"
	require.NoError(t, repo.Update(ctx, a))
	assert.Equal(t, 2, a.Version)

	b.Title = "second"
	assert.ErrorIs(t, repo.Update(ctx, b), repository.ErrVersionConflict)

	got, err := repo.GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Title)
}

func TestBookRepositoryReturnsIsolatedCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository()
	book := entity.NewBook("T", "S", "self-help", "")
	book.PutChapter(entity.NewChapterRecord(1, "One", "a b c", 0))
	require.NoError(t, repo.Create(ctx, book))

	got, err := repo.GetByID(ctx, book.ID)
	require.NoError(t, err)
	got.Chapters[1].Content = "mutated"

	again, err := repo.GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "a b c", again.Chapters[1].Content)

	missing, err := repo.GetByID(ctx, "nope")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPatternRepositoryListRecentNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewPatternRepository()
	for i := 1; i <= 4; i++ {
		require.NoError(t, repo.Append(ctx, entity.NewOpeningPattern("b1", i, "p")))
	}
	require.NoError(t, repo.Append(ctx, entity.NewOpeningPattern("b2", 1, "other")))

	got, err := repo.ListRecent(ctx, "b1", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 4, got[0].ChapterNumber)
	assert.Equal(t, 3, got[1].ChapterNumber)
	assert.Equal(t, 4, repo.Count("b1"))
}

func TestTitleRepositoryVoteOncePerVoter(t *testing.T) {
	ctx := context.Background()
	repo := NewTitleRepository()
	s := entity.NewTitleSubmission("T", "S", "wellness", "", "k")
	require.NoError(t, repo.Create(ctx, s))

	n, err := repo.Vote(ctx, s.ID, "v1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = repo.Vote(ctx, s.ID, "v1")
	assert.ErrorIs(t, err, repository.ErrAlreadyVoted)

	n, err = repo.Vote(ctx, s.ID, "v2")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
