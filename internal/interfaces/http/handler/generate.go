package handler

import (
	"github.com/gin-gonic/gin"

	"satire-press-api/internal/application/book"
	"satire-press-api/internal/interfaces/http/dto"
	"satire-press-api/internal/interfaces/http/middleware"
)

// GenerateHandler 单阶段生成处理器
type GenerateHandler struct {
	books *book.Service
}

// NewGenerateHandler 创建生成处理器
func NewGenerateHandler(books *book.Service) *GenerateHandler {
	return &GenerateHandler{books: books}
}

// Title 生成标题
// @Summary 生成标题与副标题
// @Tags Generate
// @Accept json
// @Produce json
// @Param body body dto.GenerateTitleRequest true "行业与可选语境"
// @Success 200 {object} dto.Response[book.TitleResult]
// @Router /api/generate/title [post]
func (h *GenerateHandler) Title(c *gin.Context) {
	var req dto.GenerateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	out, err := h.books.GenerateTitle(c.Request.Context(), book.TitleRequest{
		Industry: req.Industry,
		Context:  req.Context,
	})
	if err != nil {
		dto.Fail(c, err)
		return
	}
	dto.Success(c, out)
}

// Chapters 生成章节大纲；带 bookId 时更新已有图书
// @Summary 生成章节大纲
// @Tags Generate
// @Accept json
// @Produce json
// @Param body body dto.GenerateChaptersRequest true "标题信息"
// @Success 200 {object} dto.Response[book.OutlineResult]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /api/generate/chapters [post]
func (h *GenerateHandler) Chapters(c *gin.Context) {
	var req dto.GenerateChaptersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	out, err := h.books.GenerateOutline(c.Request.Context(), book.OutlineRequest{
		BookID:   req.BookID,
		Title:    req.Title,
		Subtitle: req.Subtitle,
		Industry: req.Industry,
		Context:  req.Context,
		EditedBy: middleware.Identity(c),
	})
	if err != nil {
		dto.Fail(c, err)
		return
	}
	dto.Success(c, out)
}

// Content 生成单章正文，不经过审稿
// @Summary 生成章节内容
// @Tags Generate
// @Accept json
// @Produce json
// @Param body body dto.GenerateContentRequest true "章节信息"
// @Success 200 {object} dto.Response[dto.ContentResponse]
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/generate/content [post]
func (h *GenerateHandler) Content(c *gin.Context) {
	var req dto.GenerateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	out, err := h.books.GenerateContent(c.Request.Context(), book.ContentRequest{
		BookID:           req.BookID,
		ChapterNumber:    req.ChapterNumber,
		ChapterTitle:     req.ChapterTitle,
		Revision:         req.Revision,
		RevisionGuidance: req.RevisionGuidance,
		EditedBy:         middleware.Identity(c),
	})
	if err != nil {
		dto.Fail(c, err)
		return
	}
	dto.Success(c, dto.ToContentResponse(req.BookID, out))
}

// Review 审稿
// @Summary 审阅章节
// @Tags Generate
// @Accept json
// @Produce json
// @Param body body dto.ReviewRequest true "章节正文"
// @Success 200 {object} dto.Response[dto.ReviewResponse]
// @Failure 422 {object} dto.ErrorResponse
// @Router /api/generate/review [post]
func (h *GenerateHandler) Review(c *gin.Context) {
	var req dto.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	verdict, err := h.books.Review(c.Request.Context(), book.ReviewRequest{
		BookID:        req.BookID,
		ChapterNumber: req.ChapterNumber,
		ChapterTitle:  req.ChapterTitle,
		Content:       req.Content,
	})
	if err != nil {
		dto.Fail(c, err)
		return
	}
	dto.Success(c, &dto.ReviewResponse{Review: verdict})
}
