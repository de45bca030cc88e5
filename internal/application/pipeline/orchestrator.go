// Package pipeline 实现章节生成编排：内容 -> 审稿 -> 按需重写，轮数有上限
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"satire-press-api/internal/application/book"
	"satire-press-api/internal/domain/entity"
	apperrors "satire-press-api/pkg/errors"
	"satire-press-api/pkg/logger"
	"satire-press-api/pkg/metrics"
)

// DefaultMaxAttempts 每章内容+审稿的默认轮数
const DefaultMaxAttempts = 2

// State 编排状态
type State string

const (
	StateGenerating   State = "GENERATING"
	StateReviewing    State = "REVIEWING"
	StateRegenerating State = "REGENERATING"
	StateAccepted     State = "ACCEPTED"
)

// ContentGenerator 内容阶段
type ContentGenerator interface {
	GenerateContent(ctx context.Context, req book.ContentRequest) (*book.ContentResult, error)
}

// ChapterReviewer 审稿阶段
type ChapterReviewer interface {
	Review(ctx context.Context, req book.ReviewRequest) (*entity.ReviewVerdict, error)
}

// BookStore 图书读取与比较交换写回
type BookStore interface {
	Get(ctx context.Context, id string) (*entity.Book, error)
	Mutate(ctx context.Context, id string, fn func(b *entity.Book) error) (*entity.Book, error)
}

// Session 由持久化状态重建的编排进度
type Session struct {
	BookID        string `json:"bookId"`
	NextChapter   int    `json:"nextChapter"`
	TotalChapters int    `json:"totalChapters"`
	Completed     bool   `json:"bookCompleted"`
}

// Outcome 单章编排结果
type Outcome struct {
	ChapterNumber int                   `json:"chapterNumber"`
	Attempts      int                   `json:"attempts"`
	Revised       bool                  `json:"revised"`
	Verdict       *entity.ReviewVerdict `json:"review"`
	States        []State               `json:"states"`
	Record        *entity.ChapterRecord `json:"chapter"`

	// Persisted 定稿已写回；为 false 时游标不前进，正文仍随结果返回
	Persisted     bool                   `json:"persisted"`
	BookCompleted bool                   `json:"bookCompleted"`
	Effects       []book.AncillaryEffect `json:"-"`
}

// Orchestrator 章节编排器
type Orchestrator struct {
	store       BookStore
	content     ContentGenerator
	reviewer    ChapterReviewer
	publisher   Publisher
	maxAttempts int
	now         func() time.Time
}

// Option 编排器选项
type Option func(*Orchestrator)

// WithMaxAttempts 设置每章轮数上限
func WithMaxAttempts(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxAttempts = n
		}
	}
}

// WithPublisher 定稿后发布事件
func WithPublisher(p Publisher) Option {
	return func(o *Orchestrator) { o.publisher = p }
}

// NewOrchestrator 创建编排器
func NewOrchestrator(store BookStore, content ContentGenerator, reviewer ChapterReviewer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:       store,
		content:     content,
		reviewer:    reviewer,
		maxAttempts: DefaultMaxAttempts,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Resume 仅凭已持久化的图书状态恢复进度
func (o *Orchestrator) Resume(ctx context.Context, bookID string) (*Session, error) {
	b, err := o.store.Get(ctx, bookID)
	if err != nil {
		return nil, err
	}
	return sessionOf(b), nil
}

func sessionOf(b *entity.Book) *Session {
	next := b.ContiguousChapters() + 1
	total := len(b.ChapterTitles)
	return &Session{
		BookID:        b.ID,
		NextChapter:   next,
		TotalChapters: total,
		Completed:     b.IsComplete(),
	}
}

// RunNext 生成并定稿下一章。
// 内容或审稿阶段的硬错误直接返回，游标不动；轮数耗尽时无论审稿结论如何都接受当前稿。
func (o *Orchestrator) RunNext(ctx context.Context, bookID, editedBy string) (*Outcome, error) {
	ctx = logger.WithContext(ctx, logger.BookIDKey, bookID)

	b, err := o.store.Get(ctx, bookID)
	if err != nil {
		return nil, err
	}
	session := sessionOf(b)
	if session.TotalChapters == 0 {
		return nil, apperrors.ErrInvalidParam.WithDetail("book has no chapter outline")
	}
	if session.Completed {
		return nil, apperrors.ErrBookCompleted
	}

	n := session.NextChapter
	title, _ := b.ChapterTitle(n)
	out := &Outcome{ChapterNumber: n}

	var (
		draft   *book.ContentResult
		verdict *entity.ReviewVerdict
	)
	for out.Attempts < o.maxAttempts {
		out.Attempts++
		if out.Attempts == 1 {
			out.States = append(out.States, StateGenerating)
		} else {
			out.States = append(out.States, StateRegenerating)
		}

		draft, err = o.content.GenerateContent(ctx, book.ContentRequest{
			BookID:           bookID,
			ChapterNumber:    n,
			ChapterTitle:     title,
			Revision:         out.Attempts - 1,
			RevisionGuidance: verdict.RevisionGuidance(),
			EditedBy:         editedBy,
			Deferred:         true,
		})
		if err != nil {
			logger.Warn(ctx, "chapter aborted in content stage", "chapter", n, "attempt", out.Attempts, "error", err.Error())
			return nil, err
		}
		out.Effects = append(out.Effects, draft.Effects...)

		out.States = append(out.States, StateReviewing)
		verdict, err = o.reviewer.Review(ctx, book.ReviewRequest{
			BookID:        bookID,
			ChapterNumber: n,
			ChapterTitle:  title,
			Content:       draft.Record.Content,
		})
		if err != nil {
			logger.Warn(ctx, "chapter aborted in review stage", "chapter", n, "attempt", out.Attempts, "error", err.Error())
			return nil, err
		}

		if verdict.RequiresRevision && out.Attempts < o.maxAttempts {
			logger.Info(ctx, "review requested revision", "chapter", n, "attempt", out.Attempts, "reason", verdict.Reason)
			continue
		}
		break
	}
	out.States = append(out.States, StateAccepted)

	rec := draft.Record
	rec.Attempts = out.Attempts
	rec.Accepted = true
	rec.Revision = out.Attempts - 1
	rec.Provenance = entity.ProvenanceFirstDraft
	if out.Attempts > 1 {
		rec.Provenance = entity.ProvenanceRevised
	}
	out.Record = rec
	out.Verdict = verdict
	out.Revised = out.Attempts > 1

	metrics.ChapterAttempts.Observe(float64(out.Attempts))
	metrics.ChaptersAccepted.WithLabelValues(string(rec.Provenance)).Inc()

	saved, err := o.store.Mutate(ctx, bookID, func(b *entity.Book) error {
		b.PutChapter(rec)
		b.LastEditedBy = editedBy
		b.Completed = b.IsComplete()
		return nil
	})
	if err != nil {
		logger.Error(ctx, "failed to persist accepted chapter", err, "chapter", n)
		metrics.AncillaryFailures.WithLabelValues(book.EffectChapterWrite).Inc()
		out.Effects = append(out.Effects, book.AncillaryEffect{Name: book.EffectChapterWrite, Err: err})
		return out, nil
	}
	out.Persisted = true
	out.BookCompleted = saved.Completed

	logger.Info(ctx, "chapter accepted",
		"chapter", n,
		"attempts", out.Attempts,
		"provenance", rec.Provenance,
		"word_count", rec.WordCount,
		"book_completed", out.BookCompleted,
	)
	o.publish(ctx, bookID, out)
	return out, nil
}

// RunAll 逐章运行直到完成或出错；返回已完成的各章结果
func (o *Orchestrator) RunAll(ctx context.Context, bookID, editedBy string) ([]*Outcome, error) {
	var outcomes []*Outcome
	for {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}
		session, err := o.Resume(ctx, bookID)
		if err != nil {
			return outcomes, err
		}
		if session.Completed {
			return outcomes, nil
		}

		out, err := o.RunNext(ctx, bookID, editedBy)
		if err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, out)
		if !out.Persisted {
			return outcomes, fmt.Errorf("chapter %d was generated but not persisted", out.ChapterNumber)
		}
		if out.BookCompleted {
			return outcomes, nil
		}
	}
}

// UndoResult 撤销结果
type UndoResult struct {
	RemovedChapter int      `json:"removedChapter"`
	Session        *Session `json:"session"`
}

// UndoLast 删除最近定稿的一章，游标回退一步并清除完成标记
func (o *Orchestrator) UndoLast(ctx context.Context, bookID, editedBy string) (*UndoResult, error) {
	removed := 0
	b, err := o.store.Mutate(ctx, bookID, func(b *entity.Book) error {
		numbers := make([]int, 0, len(b.Chapters))
		for n := range b.Chapters {
			numbers = append(numbers, n)
		}
		if len(numbers) == 0 {
			return apperrors.ErrNothingToUndo
		}
		sort.Ints(numbers)
		removed = numbers[len(numbers)-1]
		delete(b.Chapters, removed)
		b.Completed = false
		b.LastEditedBy = editedBy
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "chapter undone", "book_id", bookID, "chapter", removed)
	return &UndoResult{RemovedChapter: removed, Session: sessionOf(b)}, nil
}
