// Package book 提供图书生成的应用服务：各阶段的存储副作用、后台编辑与草稿管理
package book

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"satire-press-api/internal/domain/entity"
	"satire-press-api/internal/domain/industry"
	"satire-press-api/internal/domain/repository"
	"satire-press-api/internal/workflow/chain"
	wfmodel "satire-press-api/internal/workflow/model"
	workflowport "satire-press-api/internal/workflow/port"
	apperrors "satire-press-api/pkg/errors"
)

// Options 服务参数
type Options struct {
	// PatternWindow 回读的禁用开头条数
	PatternWindow int
	// SummaryChapters / SummaryRunes 前文摘要的章节数与每章截断长度
	SummaryChapters int
	SummaryRunes    int
	MinChapters     int
	MaxChapters     int
	// WriteAttempts 比较交换冲突时的重试次数
	WriteAttempts uint
}

func (o Options) withDefaults() Options {
	if o.PatternWindow <= 0 {
		o.PatternWindow = 10
	}
	if o.SummaryChapters <= 0 {
		o.SummaryChapters = 2
	}
	if o.SummaryRunes <= 0 {
		o.SummaryRunes = 600
	}
	if o.MinChapters <= 0 {
		o.MinChapters = 3
	}
	if o.MaxChapters < o.MinChapters {
		o.MaxChapters = max(15, o.MinChapters)
	}
	if o.WriteAttempts == 0 {
		o.WriteAttempts = 3
	}
	return o
}

// Stages 各阶段调用链
type Stages struct {
	Title   *chain.TitleChain
	Outline *chain.OutlineChain
	Content *chain.ContentChain
	Review  *chain.ReviewChain
}

// Service 图书应用服务
type Service struct {
	books    repository.BookRepository
	patterns repository.PatternRepository
	stages   Stages
	rnd      workflowport.Random
	opts     Options
}

// NewService 创建图书应用服务
func NewService(books repository.BookRepository, patterns repository.PatternRepository, stages Stages, rnd workflowport.Random, opts Options) *Service {
	return &Service{
		books:    books,
		patterns: patterns,
		stages:   stages,
		rnd:      rnd,
		opts:     opts.withDefaults(),
	}
}

// Get 获取图书
func (s *Service) Get(ctx context.Context, id string) (*entity.Book, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.ErrInvalidParam.WithDetail("book id is required")
	}
	b, err := s.books.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to load book")
	}
	if b == nil {
		return nil, apperrors.ErrBookNotFound
	}
	return b, nil
}

// List 分页列出图书
func (s *Service) List(ctx context.Context, page repository.Pagination) (*repository.PagedResult[*entity.Book], error) {
	res, err := s.books.List(ctx, page)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to list books")
	}
	return res, nil
}

// DraftRequest 草稿创建参数
type DraftRequest struct {
	Title    string
	Subtitle string
	Industry string
	Context  string
	EditedBy string
}

// CreateDraft 以已确认的标题创建草稿
func (s *Service) CreateDraft(ctx context.Context, req DraftRequest) (*entity.Book, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperrors.ErrInvalidParam.WithDetail("title is required")
	}
	if _, ok := industry.Get(req.Industry); !ok {
		return nil, apperrors.ErrIndustryNotFound.WithDetail(req.Industry)
	}

	b := entity.NewBook(title, strings.TrimSpace(req.Subtitle), industryKey(req.Industry), req.Context)
	b.LastEditedBy = req.EditedBy
	if err := s.books.Create(ctx, b); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to create book")
	}
	return b, nil
}

// Patterns 列出图书最近的开头模式
func (s *Service) Patterns(ctx context.Context, bookID string, limit int) ([]*entity.PatternRecord, error) {
	if _, err := s.Get(ctx, bookID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.opts.PatternWindow
	}
	records, err := s.patterns.ListRecent(ctx, bookID, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to list patterns")
	}
	return records, nil
}

// Mutate 读取-修改-比较交换写回；版本冲突时重新读取并重试
func (s *Service) Mutate(ctx context.Context, bookID string, fn func(b *entity.Book) error) (*entity.Book, error) {
	var out *entity.Book
	err := retry.Do(
		func() error {
			b, err := s.books.GetByID(ctx, bookID)
			if err != nil {
				return retry.Unrecoverable(apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to load book"))
			}
			if b == nil {
				return retry.Unrecoverable(apperrors.ErrBookNotFound)
			}
			if err := fn(b); err != nil {
				return retry.Unrecoverable(err)
			}
			if err := s.books.Update(ctx, b); err != nil {
				if errors.Is(err, repository.ErrVersionConflict) {
					return err
				}
				return retry.Unrecoverable(apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to update book"))
			}
			out = b
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(s.opts.WriteAttempts),
		retry.Delay(10*time.Millisecond),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool { return errors.Is(err, repository.ErrVersionConflict) }),
	)
	if err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, apperrors.ErrVersionConflict.WithError(err)
		}
		return nil, err
	}
	return out, nil
}

func voiceFor(key string) (wfmodel.Voice, error) {
	p, ok := industry.Get(key)
	if !ok {
		return wfmodel.Voice{}, apperrors.ErrIndustryNotFound.WithDetail(key)
	}
	return wfmodel.Voice{Profile: p}, nil
}

func industryKey(key string) string {
	if p, ok := industry.Get(key); ok {
		return p.Key
	}
	return key
}

func cleanTitles(titles []string) ([]string, error) {
	out := make([]string, 0, len(titles))
	for _, t := range titles {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("chapter titles are required")
	}
	return out, nil
}
