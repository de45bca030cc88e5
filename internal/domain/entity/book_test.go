package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookLocks(t *testing.T) {
	b := NewBook("T", "S", "self-help", "")
	assert.True(t, b.CanEditTitle())
	assert.True(t, b.CanEditChapters())

	b.SetOutline([]string{"a", "b", "c"})
	assert.False(t, b.CanEditTitle())
	assert.True(t, b.CanEditChapters())

	b.PutChapter(NewChapterRecord(1, "a", "one two", 0))
	assert.False(t, b.CanEditChapters())
	assert.True(t, b.ChaptersLocked)

	delete(b.Chapters, 1)
	assert.False(t, b.CanEditChapters(), "lock flags are one-way")
}

func TestContiguousChapters(t *testing.T) {
	b := NewBook("T", "S", "self-help", "")
	b.SetOutline([]string{"1", "2", "3", "4", "5", "6", "7", "8"})
	for i := 1; i <= 3; i++ {
		b.PutChapter(NewChapterRecord(i, "x", "word", 0))
	}
	b.PutChapter(NewChapterRecord(5, "x", "word", 0))

	assert.Equal(t, 3, b.ContiguousChapters())
	before := b.Chapters.Before(4, 2)
	if assert.Len(t, before, 2) {
		assert.Equal(t, 2, before[0].Number)
		assert.Equal(t, 3, before[1].Number)
	}
}

func TestChapterRecordWordCount(t *testing.T) {
	rec := NewChapterRecord(2, "Two", "  alpha\tbeta\n\ngamma  ", 1)
	assert.Equal(t, 3, rec.WordCount)
	assert.Equal(t, ProvenanceRevised, rec.Provenance)

	rec.WordCount = 99
	rec.SetContent("just two")
	assert.Equal(t, 2, rec.WordCount)
}

func TestRevisionGuidance(t *testing.T) {
	v := &ReviewVerdict{
		Reason: "too formulaic",
		Recommendations: Recommendations{
			Keep:     []string{"the goat bit"},
			Consider: []string{"open in medias res", " "},
			Watch:    []string{"listicles"},
		},
	}
	assert.Equal(t, "open in medias res\nlisticles", v.RevisionGuidance())

	assert.Equal(t, "too formulaic", (&ReviewVerdict{Reason: " too formulaic "}).RevisionGuidance())
	assert.Empty(t, (*ReviewVerdict)(nil).RevisionGuidance())
}
