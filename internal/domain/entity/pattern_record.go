package entity

import (
	"time"

	"github.com/google/uuid"
)

// PatternType 模式类型
type PatternType string

const (
	PatternTypeOpening PatternType = "opening"
)

// PatternRecord 已生成章节的开头片段，作为后续生成的禁用列表
type PatternRecord struct {
	ID            string      `json:"id" gorm:"type:uuid;primaryKey"`
	BookID        string      `json:"book_id" gorm:"type:uuid;index;not null"`
	ChapterNumber int         `json:"chapter_number" gorm:"not null"`
	PatternText   string      `json:"pattern_text" gorm:"type:text;not null"`
	PatternType   PatternType `json:"pattern_type" gorm:"type:varchar(32);not null;default:'opening'"`
	CreatedAt     time.Time   `json:"created_at" gorm:"autoCreateTime;index"`
}

// TableName 指定表名
func (PatternRecord) TableName() string {
	return "pattern_tracking"
}

// NewOpeningPattern 创建开头模式记录
func NewOpeningPattern(bookID string, chapter int, text string) *PatternRecord {
	return &PatternRecord{
		ID:            uuid.NewString(),
		BookID:        bookID,
		ChapterNumber: chapter,
		PatternText:   text,
		PatternType:   PatternTypeOpening,
		CreatedAt:     time.Now(),
	}
}
