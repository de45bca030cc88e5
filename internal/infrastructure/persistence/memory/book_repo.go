// Package memory 提供进程内仓储实现，用于本地运行与测试
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/lib/pq"

	"satire-press-api/internal/domain/entity"
	"satire-press-api/internal/domain/repository"
)

// BookRepository 内存图书仓储
type BookRepository struct {
	mu    sync.RWMutex
	books map[string]*entity.Book

	// UpdateErr 非空时 Update 直接返回该错误
	UpdateErr error
	// UpdateHook 在比较交换前调用，可用于模拟并发写入
	UpdateHook func(book *entity.Book)
}

// NewBookRepository 创建内存图书仓储
func NewBookRepository() *BookRepository {
	return &BookRepository{books: make(map[string]*entity.Book)}
}

// Create 创建图书
func (r *BookRepository) Create(_ context.Context, book *entity.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if book.Version == 0 {
		book.Version = 1
	}
	r.books[book.ID] = cloneBook(book)
	return nil
}

// GetByID 根据 ID 获取图书
func (r *BookRepository) GetByID(_ context.Context, id string) (*entity.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.books[id]
	if !ok {
		return nil, nil
	}
	return cloneBook(b), nil
}

// Update 按版本号比较交换
func (r *BookRepository) Update(_ context.Context, book *entity.Book) error {
	if r.UpdateErr != nil {
		return r.UpdateErr
	}
	if r.UpdateHook != nil {
		r.UpdateHook(book)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.books[book.ID]
	if !ok || cur.Version != book.Version {
		return repository.ErrVersionConflict
	}
	book.Version++
	book.UpdatedAt = time.Now()
	r.books[book.ID] = cloneBook(book)
	return nil
}

// List 按更新时间倒序分页
func (r *BookRepository) List(_ context.Context, pagination repository.Pagination) (*repository.PagedResult[*entity.Book], error) {
	r.mu.RLock()
	all := make([]*entity.Book, 0, len(r.books))
	for _, b := range r.books {
		all = append(all, cloneBook(b))
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].UpdatedAt.After(all[j].UpdatedAt) })
	return repository.NewPagedResult(page(all, pagination), int64(len(all)), pagination), nil
}

// Bump 直接递增存储版本号，模拟其他写入者
func (r *BookRepository) Bump(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.books[id]; ok {
		b.Version++
	}
}

func cloneBook(b *entity.Book) *entity.Book {
	cp := *b
	if b.ChapterTitles != nil {
		cp.ChapterTitles = pq.StringArray(append([]string(nil), b.ChapterTitles...))
	}
	cp.Chapters = make(entity.ChapterMap, len(b.Chapters))
	for n, rec := range b.Chapters {
		r := *rec
		cp.Chapters[n] = &r
	}
	return &cp
}

func page[T any](items []T, p repository.Pagination) []T {
	start := p.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + p.Limit()
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
