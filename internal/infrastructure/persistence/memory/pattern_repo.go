package memory

import (
	"context"
	"sync"

	"satire-press-api/internal/domain/entity"
)

// PatternRepository 内存模式仓储（仅追加）
type PatternRepository struct {
	mu      sync.Mutex
	records []*entity.PatternRecord

	// AppendErr 非空时 Append 返回该错误
	AppendErr error
}

// NewPatternRepository 创建内存模式仓储
func NewPatternRepository() *PatternRepository {
	return &PatternRepository{}
}

// Append 追加模式记录
func (r *PatternRepository) Append(_ context.Context, record *entity.PatternRecord) error {
	if r.AppendErr != nil {
		return r.AppendErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *record
	r.records = append(r.records, &cp)
	return nil
}

// ListRecent 最近 limit 条（新到旧）
func (r *PatternRepository) ListRecent(_ context.Context, bookID string, limit int) ([]*entity.PatternRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.PatternRecord
	for i := len(r.records) - 1; i >= 0 && len(out) < limit; i-- {
		if r.records[i].BookID == bookID {
			cp := *r.records[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

// Count 图书的模式条数
func (r *PatternRepository) Count(bookID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, rec := range r.records {
		if rec.BookID == bookID {
			n++
		}
	}
	return n
}
