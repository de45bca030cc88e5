package dto

import (
	"satire-press-api/internal/application/book"
	"satire-press-api/internal/domain/entity"
)

// GenerateTitleRequest 标题生成请求；context 为空时从行业语境中随机抽取
type GenerateTitleRequest struct {
	Industry string `json:"industry" binding:"required,max=64"`
	Context  string `json:"context" binding:"max=2000"`
}

// GenerateChaptersRequest 大纲生成请求；带 bookId 时更新已有图书
type GenerateChaptersRequest struct {
	BookID   string `json:"bookId" binding:"omitempty,uuid"`
	Title    string `json:"title" binding:"required_without=BookID,max=255"`
	Subtitle string `json:"subtitle" binding:"max=512"`
	Industry string `json:"industry" binding:"required_without=BookID,max=64"`
	Context  string `json:"context" binding:"max=2000"`
}

// GenerateContentRequest 章节内容生成请求；chapterTitle 为空时取大纲标题
type GenerateContentRequest struct {
	BookID           string `json:"bookId" binding:"required,uuid"`
	ChapterNumber    int    `json:"chapterNumber" binding:"required,min=1"`
	ChapterTitle     string `json:"chapterTitle" binding:"max=255"`
	Revision         int    `json:"revision" binding:"min=0"`
	RevisionGuidance string `json:"revisionGuidance" binding:"max=4000"`
}

// ReviewRequest 审稿请求
type ReviewRequest struct {
	BookID        string `json:"bookId" binding:"omitempty,uuid"`
	ChapterNumber int    `json:"chapterNumber" binding:"omitempty,min=1"`
	ChapterTitle  string `json:"chapterTitle" binding:"required,max=255"`
	Content       string `json:"content" binding:"required"`
}

// EffectDTO 失败的附属副作用
type EffectDTO struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// ContentResponse 内容生成响应
type ContentResponse struct {
	BookID        string      `json:"bookId"`
	ChapterNumber int         `json:"chapterNumber"`
	ChapterTitle  string      `json:"chapterTitle"`
	Content       string      `json:"content"`
	WordCount     int         `json:"wordCount"`
	Revision      int         `json:"revision"`
	Persisted     bool        `json:"persisted"`
	Warnings      []EffectDTO `json:"warnings,omitempty"`
}

// ToContentResponse 转换内容阶段结果
func ToContentResponse(bookID string, r *book.ContentResult) *ContentResponse {
	return &ContentResponse{
		BookID:        bookID,
		ChapterNumber: r.Record.Number,
		ChapterTitle:  r.Record.Title,
		Content:       r.Record.Content,
		WordCount:     r.Record.WordCount,
		Revision:      r.Record.Revision,
		Persisted:     r.Persisted,
		Warnings:      ToEffectDTOs(r.Effects),
	}
}

// ToEffectDTOs 转换附属副作用列表
func ToEffectDTOs(effects []book.AncillaryEffect) []EffectDTO {
	if len(effects) == 0 {
		return nil
	}
	out := make([]EffectDTO, 0, len(effects))
	for _, e := range effects {
		out = append(out, EffectDTO{Name: e.Name, Error: e.Message()})
	}
	return out
}

// ReviewResponse 审稿响应
type ReviewResponse struct {
	Review *entity.ReviewVerdict `json:"review"`
}

// EditTitleRequest 编辑标题请求
type EditTitleRequest struct {
	BookID   string `json:"bookId" binding:"required,uuid"`
	Title    string `json:"title" binding:"required,max=255"`
	Subtitle string `json:"subtitle" binding:"max=512"`
}

// EditChaptersRequest 编辑章节列表请求
type EditChaptersRequest struct {
	BookID        string   `json:"bookId" binding:"required,uuid"`
	ChapterTitles []string `json:"chapterTitles" binding:"required"`
}

// EditContentRequest 编辑章节内容请求
type EditContentRequest struct {
	BookID        string `json:"bookId" binding:"required,uuid"`
	ChapterNumber int    `json:"chapterNumber" binding:"required,min=1"`
	Content       string `json:"content" binding:"required"`
}
