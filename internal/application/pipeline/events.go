package pipeline

import (
	"context"
	"time"

	"satire-press-api/pkg/logger"
)

// ChapterAccepted 章节定稿事件
type ChapterAccepted struct {
	BookID        string    `json:"book_id"`
	ChapterNumber int       `json:"chapter_number"`
	Attempts      int       `json:"attempts"`
	Revised       bool      `json:"revised"`
	WordCount     int       `json:"word_count"`
	BookCompleted bool      `json:"book_completed"`
	AcceptedAt    time.Time `json:"accepted_at"`
}

// Publisher 事件发布
type Publisher interface {
	PublishChapterAccepted(ctx context.Context, evt *ChapterAccepted) error
}

func (o *Orchestrator) publish(ctx context.Context, bookID string, out *Outcome) {
	if o.publisher == nil {
		return
	}
	evt := &ChapterAccepted{
		BookID:        bookID,
		ChapterNumber: out.ChapterNumber,
		Attempts:      out.Attempts,
		Revised:       out.Revised,
		WordCount:     out.Record.WordCount,
		BookCompleted: out.BookCompleted,
		AcceptedAt:    o.now(),
	}
	if err := o.publisher.PublishChapterAccepted(ctx, evt); err != nil {
		logger.Warn(ctx, "failed to publish chapter accepted event", "chapter", out.ChapterNumber, "error", err.Error())
	}
}
