package dto

import (
	"time"

	"satire-press-api/internal/application/pipeline"
	"satire-press-api/internal/domain/entity"
)

// CreateBookRequest 由已确认的标题创建草稿
type CreateBookRequest struct {
	Title    string `json:"title" binding:"required,max=255"`
	Subtitle string `json:"subtitle" binding:"max=512"`
	Industry string `json:"industry" binding:"required,max=64"`
	Context  string `json:"context" binding:"max=2000"`
}

// ChapterDTO 章节
type ChapterDTO struct {
	ChapterNumber int       `json:"chapterNumber"`
	ChapterTitle  string    `json:"chapterTitle"`
	Content       string    `json:"content,omitempty"`
	WordCount     int       `json:"wordCount"`
	Revision      int       `json:"revision"`
	Provenance    string    `json:"provenance"`
	Attempts      int       `json:"attempts,omitempty"`
	Accepted      bool      `json:"accepted"`
	GeneratedAt   time.Time `json:"generatedAt"`
}

// ToChapterDTO 转换章节记录；withContent 为 false 时省略正文
func ToChapterDTO(r *entity.ChapterRecord, withContent bool) *ChapterDTO {
	d := &ChapterDTO{
		ChapterNumber: r.Number,
		ChapterTitle:  r.Title,
		WordCount:     r.WordCount,
		Revision:      r.Revision,
		Provenance:    string(r.Provenance),
		Attempts:      r.Attempts,
		Accepted:      r.Accepted,
		GeneratedAt:   r.GeneratedAt,
	}
	if withContent {
		d.Content = r.Content
	}
	return d
}

// BookDTO 图书
type BookDTO struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	Subtitle       string        `json:"subtitle"`
	Industry       string        `json:"industry"`
	Context        string        `json:"context,omitempty"`
	ChapterTitles  []string      `json:"chapterTitles"`
	Chapters       []*ChapterDTO `json:"chapters,omitempty"`
	TitleLocked    bool          `json:"titleLocked"`
	ChaptersLocked bool          `json:"chaptersLocked"`
	Completed      bool          `json:"completed"`
	Version        int           `json:"version"`
	LastEditedBy   string        `json:"lastEditedBy,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// ToBookDTO 转换图书；列表场景不带章节正文
func ToBookDTO(b *entity.Book, withContent bool) *BookDTO {
	d := &BookDTO{
		ID:             b.ID,
		Title:          b.Title,
		Subtitle:       b.Subtitle,
		Industry:       b.Industry,
		Context:        b.Context,
		ChapterTitles:  append([]string{}, b.ChapterTitles...),
		TitleLocked:    b.TitleLocked,
		ChaptersLocked: b.ChaptersLocked,
		Completed:      b.Completed,
		Version:        b.Version,
		LastEditedBy:   b.LastEditedBy,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
	for _, rec := range b.Chapters.Sorted() {
		d.Chapters = append(d.Chapters, ToChapterDTO(rec, withContent))
	}
	return d
}

// ToBookDTOs 批量转换
func ToBookDTOs(books []*entity.Book) []*BookDTO {
	out := make([]*BookDTO, 0, len(books))
	for _, b := range books {
		out = append(out, ToBookDTO(b, false))
	}
	return out
}

// BookDetailResponse 图书详情与续写游标
type BookDetailResponse struct {
	Book    *BookDTO          `json:"book"`
	Session *pipeline.Session `json:"session"`
}

// OutcomeResponse 编排器单章结果
type OutcomeResponse struct {
	ChapterNumber int                   `json:"chapterNumber"`
	Attempts      int                   `json:"attempts"`
	Revised       bool                  `json:"revised"`
	States        []string              `json:"states"`
	Verdict       *entity.ReviewVerdict `json:"verdict,omitempty"`
	Chapter       *ChapterDTO           `json:"chapter"`
	Persisted     bool                  `json:"persisted"`
	BookCompleted bool                  `json:"bookCompleted"`
	Warnings      []EffectDTO           `json:"warnings,omitempty"`
}

// ToOutcomeResponse 转换编排结果
func ToOutcomeResponse(o *pipeline.Outcome) *OutcomeResponse {
	states := make([]string, 0, len(o.States))
	for _, s := range o.States {
		states = append(states, string(s))
	}
	resp := &OutcomeResponse{
		ChapterNumber: o.ChapterNumber,
		Attempts:      o.Attempts,
		Revised:       o.Revised,
		States:        states,
		Verdict:       o.Verdict,
		Persisted:     o.Persisted,
		BookCompleted: o.BookCompleted,
		Warnings:      ToEffectDTOs(o.Effects),
	}
	if o.Record != nil {
		resp.Chapter = ToChapterDTO(o.Record, true)
	}
	return resp
}

// AutorunResponse 自动生成任务已入队
type AutorunResponse struct {
	JobID  string `json:"jobId"`
	BookID string `json:"bookId"`
}

// PatternDTO 已记录的开头模式
type PatternDTO struct {
	ChapterNumber int       `json:"chapterNumber"`
	PatternText   string    `json:"patternText"`
	PatternType   string    `json:"patternType"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ToPatternDTOs 批量转换
func ToPatternDTOs(records []*entity.PatternRecord) []*PatternDTO {
	out := make([]*PatternDTO, 0, len(records))
	for _, r := range records {
		out = append(out, &PatternDTO{
			ChapterNumber: r.ChapterNumber,
			PatternText:   r.PatternText,
			PatternType:   string(r.PatternType),
			CreatedAt:     r.CreatedAt,
		})
	}
	return out
}
