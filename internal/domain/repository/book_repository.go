package repository

import (
	"context"

	"satire-press-api/internal/domain/entity"
)

// BookRepository 图书仓储接口
type BookRepository interface {
	// Create 创建图书
	Create(ctx context.Context, book *entity.Book) error

	// GetByID 根据 ID 获取图书，不存在时返回 nil, nil
	GetByID(ctx context.Context, id string) (*entity.Book, error)

	// Update 以版本号做比较交换更新；版本不匹配返回 ErrVersionConflict，成功后 book.Version 自增
	Update(ctx context.Context, book *entity.Book) error

	// List 分页获取图书列表（按更新时间倒序）
	List(ctx context.Context, pagination Pagination) (*PagedResult[*entity.Book], error)
}

// PatternRepository 开头模式仓储接口（仅追加）
type PatternRepository interface {
	// Append 追加模式记录
	Append(ctx context.Context, record *entity.PatternRecord) error

	// ListRecent 获取图书最近的 limit 条模式（新到旧）
	ListRecent(ctx context.Context, bookID string, limit int) ([]*entity.PatternRecord, error)
}
