package handler

import (
	"github.com/gin-gonic/gin"

	"satire-press-api/internal/application/book"
	"satire-press-api/internal/interfaces/http/dto"
	"satire-press-api/internal/interfaces/http/middleware"
)

// AdminEditHandler 人工编辑处理器，受锁规则约束
type AdminEditHandler struct {
	books *book.Service
}

// NewAdminEditHandler 创建编辑处理器
func NewAdminEditHandler(books *book.Service) *AdminEditHandler {
	return &AdminEditHandler{books: books}
}

// EditTitle 编辑标题；大纲生成后返回 400
// @Summary 编辑标题
// @Tags Admin
// @Accept json
// @Produce json
// @Param body body dto.EditTitleRequest true "新标题"
// @Success 200 {object} dto.Response[dto.BookDTO]
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/admin/edit/title [put]
func (h *AdminEditHandler) EditTitle(c *gin.Context) {
	var req dto.EditTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	b, err := h.books.EditTitle(c.Request.Context(), req.BookID, req.Title, req.Subtitle, middleware.Identity(c))
	if err != nil {
		dto.Fail(c, err)
		return
	}
	dto.Success(c, dto.ToBookDTO(b, false))
}

// EditChapters 编辑章节列表；已有正文后返回 400
// @Summary 编辑章节列表
// @Tags Admin
// @Accept json
// @Produce json
// @Param body body dto.EditChaptersRequest true "章节标题"
// @Success 200 {object} dto.Response[dto.BookDTO]
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/admin/edit/chapters [put]
func (h *AdminEditHandler) EditChapters(c *gin.Context) {
	var req dto.EditChaptersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	b, err := h.books.EditChapters(c.Request.Context(), req.BookID, req.ChapterTitles, middleware.Identity(c))
	if err != nil {
		dto.Fail(c, err)
		return
	}
	dto.Success(c, dto.ToBookDTO(b, false))
}

// EditContent 编辑已有章节正文并重算字数
// @Summary 编辑章节正文
// @Tags Admin
// @Accept json
// @Produce json
// @Param body body dto.EditContentRequest true "章节正文"
// @Success 200 {object} dto.Response[dto.ChapterDTO]
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/admin/edit/content [put]
func (h *AdminEditHandler) EditContent(c *gin.Context) {
	var req dto.EditContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	rec, err := h.books.EditContent(c.Request.Context(), req.BookID, req.ChapterNumber, req.Content, middleware.Identity(c))
	if err != nil {
		dto.Fail(c, err)
		return
	}
	dto.Success(c, dto.ToChapterDTO(rec, true))
}
