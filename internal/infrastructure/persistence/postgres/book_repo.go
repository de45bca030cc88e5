package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"satire-press-api/internal/domain/entity"
	"satire-press-api/internal/domain/repository"
)

// BookRepository 图书仓储实现
type BookRepository struct {
	client *Client
}

// NewBookRepository 创建图书仓储
func NewBookRepository(client *Client) *BookRepository {
	return &BookRepository{client: client}
}

// Create 创建图书
func (r *BookRepository) Create(ctx context.Context, book *entity.Book) error {
	ctx, span := tracer.Start(ctx, "postgres.BookRepository.Create")
	defer span.End()

	if book.Version == 0 {
		book.Version = 1
	}
	if err := getDB(ctx, r.client.db).Create(book).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create book: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取图书
func (r *BookRepository) GetByID(ctx context.Context, id string) (*entity.Book, error) {
	ctx, span := tracer.Start(ctx, "postgres.BookRepository.GetByID")
	defer span.End()

	var book entity.Book
	if err := getDB(ctx, r.client.db).First(&book, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	if book.Chapters == nil {
		book.Chapters = entity.ChapterMap{}
	}
	return &book, nil
}

// Update 按版本号比较交换
func (r *BookRepository) Update(ctx context.Context, book *entity.Book) error {
	ctx, span := tracer.Start(ctx, "postgres.BookRepository.Update")
	defer span.End()

	expected := book.Version
	book.UpdatedAt = time.Now()

	res := getDB(ctx, r.client.db).
		Model(&entity.Book{}).
		Where("id = ? AND version = ?", book.ID, expected).
		Select("title", "subtitle", "industry", "context", "chapter_titles", "chapters",
			"title_locked", "chapters_locked", "completed", "last_edited_by", "version", "updated_at").
		Updates(&entity.Book{
			Title:          book.Title,
			Subtitle:       book.Subtitle,
			Industry:       book.Industry,
			Context:        book.Context,
			ChapterTitles:  book.ChapterTitles,
			Chapters:       book.Chapters,
			TitleLocked:    book.TitleLocked,
			ChaptersLocked: book.ChaptersLocked,
			Completed:      book.Completed,
			LastEditedBy:   book.LastEditedBy,
			Version:        expected + 1,
			UpdatedAt:      book.UpdatedAt,
		})
	if res.Error != nil {
		span.RecordError(res.Error)
		return fmt.Errorf("failed to update book: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrVersionConflict
	}
	book.Version = expected + 1
	return nil
}

// List 分页获取图书列表
func (r *BookRepository) List(ctx context.Context, pagination repository.Pagination) (*repository.PagedResult[*entity.Book], error) {
	ctx, span := tracer.Start(ctx, "postgres.BookRepository.List")
	defer span.End()

	query := getDB(ctx, r.client.db).Model(&entity.Book{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count books: %w", err)
	}

	var books []*entity.Book
	if err := query.Order("updated_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&books).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	return repository.NewPagedResult(books, total, pagination), nil
}

// PatternRepository 开头模式仓储实现
type PatternRepository struct {
	client *Client
}

// NewPatternRepository 创建模式仓储
func NewPatternRepository(client *Client) *PatternRepository {
	return &PatternRepository{client: client}
}

// Append 追加模式记录
func (r *PatternRepository) Append(ctx context.Context, record *entity.PatternRecord) error {
	ctx, span := tracer.Start(ctx, "postgres.PatternRepository.Append")
	defer span.End()

	if err := getDB(ctx, r.client.db).Create(record).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to append pattern: %w", err)
	}
	return nil
}

// ListRecent 最近 limit 条（新到旧）
func (r *PatternRepository) ListRecent(ctx context.Context, bookID string, limit int) ([]*entity.PatternRecord, error) {
	ctx, span := tracer.Start(ctx, "postgres.PatternRepository.ListRecent")
	defer span.End()

	var records []*entity.PatternRecord
	if err := getDB(ctx, r.client.db).
		Where("book_id = ?", bookID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list patterns: %w", err)
	}
	return records, nil
}
