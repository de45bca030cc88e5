package entity

import (
	"strings"
	"time"
)

// Provenance 章节定稿来源
type Provenance string

const (
	ProvenanceFirstDraft Provenance = "first_draft"
	ProvenanceRevised    Provenance = "revised"
)

// ChapterRecord 图书中的单章内容
type ChapterRecord struct {
	Number      int        `json:"chapter_number"`
	Title       string     `json:"chapter_title"`
	Content     string     `json:"content"`
	WordCount   int        `json:"word_count"`
	GeneratedAt time.Time  `json:"generated_at"`
	Revision    int        `json:"revision"`
	Provenance  Provenance `json:"provenance"`
	Attempts    int        `json:"attempts,omitempty"`
	Accepted    bool       `json:"accepted"`
}

// NewChapterRecord 创建章节记录
func NewChapterRecord(number int, title, content string, revision int) *ChapterRecord {
	rec := &ChapterRecord{
		Number:      number,
		Title:       title,
		GeneratedAt: time.Now(),
		Revision:    revision,
		Provenance:  ProvenanceFirstDraft,
	}
	if revision > 0 {
		rec.Provenance = ProvenanceRevised
	}
	rec.SetContent(content)
	return rec
}

// SetContent 设置内容并重新计算字数
func (c *ChapterRecord) SetContent(content string) {
	c.Content = content
	c.WordCount = CountWords(content)
}

// CountWords 以空白分隔计算词数
func CountWords(s string) int {
	return len(strings.Fields(s))
}
