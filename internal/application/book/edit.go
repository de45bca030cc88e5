package book

import (
	"context"
	"strings"

	"satire-press-api/internal/domain/entity"
	apperrors "satire-press-api/pkg/errors"
)

// EditTitle 修改标题与副标题；大纲或内容生成后拒绝
func (s *Service) EditTitle(ctx context.Context, bookID, title, subtitle, editedBy string) (*entity.Book, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.ErrInvalidParam.WithDetail("title is required")
	}
	return s.Mutate(ctx, bookID, func(b *entity.Book) error {
		if !b.CanEditTitle() {
			return apperrors.ErrTitleLocked
		}
		b.Title = title
		b.Subtitle = strings.TrimSpace(subtitle)
		b.LastEditedBy = editedBy
		return nil
	})
}

// EditChapters 替换章节标题列表；已有任一章节内容时拒绝
func (s *Service) EditChapters(ctx context.Context, bookID string, titles []string, editedBy string) (*entity.Book, error) {
	cleaned, err := cleanTitles(titles)
	if err != nil {
		return nil, apperrors.ErrInvalidParam.WithDetail(err.Error())
	}
	if len(cleaned) > s.opts.MaxChapters {
		return nil, apperrors.ErrInvalidParam.WithDetail("too many chapters")
	}
	return s.Mutate(ctx, bookID, func(b *entity.Book) error {
		if !b.CanEditChapters() {
			return apperrors.ErrChaptersLocked
		}
		b.SetOutline(cleaned)
		b.LastEditedBy = editedBy
		return nil
	})
}

// EditContent 修改已存章节的正文并重新计算字数
func (s *Service) EditContent(ctx context.Context, bookID string, chapter int, content, editedBy string) (*entity.ChapterRecord, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.ErrInvalidParam.WithDetail("content is required")
	}
	var rec *entity.ChapterRecord
	_, err := s.Mutate(ctx, bookID, func(b *entity.Book) error {
		r, ok := b.Chapters[chapter]
		if !ok {
			return apperrors.ErrChapterNotFound
		}
		r.SetContent(content)
		b.LastEditedBy = editedBy
		rec = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}
