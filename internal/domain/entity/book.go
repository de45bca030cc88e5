// Package entity 定义领域实体
package entity

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Book 图书生成聚合根
//
// 锁标志单向置位：大纲生成后锁定标题，首章内容写入后锁定章节列表。
type Book struct {
	ID             string         `json:"id" gorm:"type:uuid;primaryKey"`
	Title          string         `json:"title" gorm:"type:varchar(255);not null"`
	Subtitle       string         `json:"subtitle" gorm:"type:varchar(512)"`
	Industry       string         `json:"industry" gorm:"type:varchar(64);index"`
	Context        string         `json:"context,omitempty" gorm:"type:text"`
	ChapterTitles  pq.StringArray `json:"chapter_titles" gorm:"type:text[]"`
	Chapters       ChapterMap     `json:"chapters" gorm:"type:jsonb;serializer:json"`
	TitleLocked    bool           `json:"title_locked" gorm:"not null;default:false"`
	ChaptersLocked bool           `json:"chapters_locked" gorm:"not null;default:false"`
	Completed      bool           `json:"completed" gorm:"not null;default:false"`
	Version        int            `json:"version" gorm:"not null;default:1"`
	LastEditedBy   string         `json:"last_edited_by,omitempty" gorm:"type:varchar(128)"`
	CreatedAt      time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Book) TableName() string {
	return "book_generations"
}

// NewBook 创建图书草稿
func NewBook(title, subtitle, industry, context string) *Book {
	now := time.Now()
	return &Book{
		ID:        uuid.NewString(),
		Title:     title,
		Subtitle:  subtitle,
		Industry:  industry,
		Context:   context,
		Chapters:  ChapterMap{},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HasOutline 大纲是否已生成
func (b *Book) HasOutline() bool {
	return len(b.ChapterTitles) > 0
}

// HasContent 是否已有任一章节内容
func (b *Book) HasContent() bool {
	return len(b.Chapters) > 0
}

// CanEditTitle 标题是否仍可编辑
func (b *Book) CanEditTitle() bool {
	return !b.TitleLocked && !b.ChaptersLocked
}

// CanEditChapters 章节列表是否仍可编辑
func (b *Book) CanEditChapters() bool {
	return !b.ChaptersLocked && !b.HasContent()
}

// SetOutline 写入大纲并锁定标题
func (b *Book) SetOutline(titles []string) {
	b.ChapterTitles = pq.StringArray(append([]string(nil), titles...))
	b.TitleLocked = true
}

// PutChapter 写入（或覆盖）指定章节并锁定章节列表
func (b *Book) PutChapter(rec *ChapterRecord) {
	if b.Chapters == nil {
		b.Chapters = ChapterMap{}
	}
	b.Chapters[rec.Number] = rec
	b.ChaptersLocked = true
}

// ChapterTitle 返回第 n 章（1 起）的大纲标题
func (b *Book) ChapterTitle(n int) (string, bool) {
	if n < 1 || n > len(b.ChapterTitles) {
		return "", false
	}
	return b.ChapterTitles[n-1], true
}

// ContiguousChapters 从第 1 章起连续存在的章节数
func (b *Book) ContiguousChapters() int {
	n := 0
	for {
		if _, ok := b.Chapters[n+1]; !ok {
			return n
		}
		n++
	}
}

// IsComplete 大纲中的章节均已按序写入
func (b *Book) IsComplete() bool {
	return b.HasOutline() && b.ContiguousChapters() >= len(b.ChapterTitles)
}

// ChapterMap 章节号 -> 章节记录
type ChapterMap map[int]*ChapterRecord

// Sorted 按章节号升序返回
func (m ChapterMap) Sorted() []*ChapterRecord {
	out := make([]*ChapterRecord, 0, len(m))
	for _, rec := range m {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// Before 返回 n 之前最近的 limit 个章节（升序）
func (m ChapterMap) Before(n, limit int) []*ChapterRecord {
	var out []*ChapterRecord
	for i := n - 1; i >= 1 && len(out) < limit; i-- {
		if rec, ok := m[i]; ok {
			out = append([]*ChapterRecord{rec}, out...)
		}
	}
	return out
}
