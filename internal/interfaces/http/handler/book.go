package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"satire-press-api/internal/application/book"
	"satire-press-api/internal/application/pipeline"
	"satire-press-api/internal/interfaces/http/dto"
	"satire-press-api/internal/interfaces/http/middleware"
	"satire-press-api/pkg/logger"
)

// AutorunQueue 整书后台生成任务队列
type AutorunQueue interface {
	EnqueueAutorun(ctx context.Context, bookID, requestedBy string) (string, error)
}

// BookHandler 图书管理与编排处理器
type BookHandler struct {
	books *book.Service
	orch  *pipeline.Orchestrator
	queue AutorunQueue
}

// NewBookHandler 创建图书处理器；queue 为 nil 时 autorun 不可用
func NewBookHandler(books *book.Service, orch *pipeline.Orchestrator, queue AutorunQueue) *BookHandler {
	return &BookHandler{books: books, orch: orch, queue: queue}
}

// Create 由已确认的标题创建草稿
// @Summary 创建图书草稿
// @Tags Books
// @Accept json
// @Produce json
// @Param body body dto.CreateBookRequest true "标题信息"
// @Success 201 {object} dto.Response[dto.BookDTO]
// @Router /api/admin/books [post]
func (h *BookHandler) Create(c *gin.Context) {
	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	b, err := h.books.CreateDraft(c.Request.Context(), book.DraftRequest{
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
	dto.Created(c, dto.ToBookDTO(b, false))
}

// List 图书列表
// @Summary 图书列表
// @Tags Books
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} dto.Response[[]dto.BookDTO]
// @Router /api/admin/books [get]
func (h *BookHandler) List(c *gin.Context) {
	page := dto.BindPage(c)
	result, err := h.books.List(c.Request.Context(), page.Pagination())
	if err != nil {
		dto.Fail(c, err)
		return
	}
	dto.SuccessWithPage(c, dto.ToBookDTOs(result.Items), dto.PageMetaOf(result))
}

// Get 图书详情与续写游标
// @Summary 图书详情
// @Tags Books
// @Produce json
// @Param id path string true "图书 ID"
// @Success 200 {object} dto.Response[dto.BookDetailResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/admin/books/{id} [get]
func (h *BookHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	id := dto.BindBookID(c)

	b, err := h.books.Get(ctx, id)
	if err != nil {
		dto.Fail(c, err)
		return
	}
	session, err := h.orch.Resume(ctx, id)
	if err != nil {
		dto.Fail(c, err)
		return
	}
	dto.Success(c, &dto.BookDetailResponse{
		Book:    dto.ToBookDTO(b, true),
		Session: session,
	})
}

// Next 生成、审稿并定稿下一章
// @Summary 运行下一章
// @Tags Books
// @Produce json
// @Param id path string true "图书 ID"
// @Success 200 {object} dto.Response[dto.OutcomeResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/admin/books/{id}/next [post]
func (h *BookHandler) Next(c *gin.Context) {
	out, err := h.orch.RunNext(c.Request.Context(), dto.BindBookID(c), middleware.Identity(c))
	if err != nil {
		dto.Fail(c, err)
		return
	}
	dto.Success(c, dto.ToOutcomeResponse(out))
}

// Undo 撤销最近定稿的一章
// @Summary 撤销最后一章
// @Tags Books
// @Produce json
// @Param id path string true "图书 ID"
// @Success 200 {object} dto.Response[pipeline.UndoResult]
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/admin/books/{id}/undo [post]
func (h *BookHandler) Undo(c *gin.Context) {
	out, err := h.orch.UndoLast(c.Request.Context(), dto.BindBookID(c), middleware.Identity(c))
	if err != nil {
		dto.Fail(c, err)
		return
	}
	dto.Success(c, out)
}

// Autorun 投递后台整书生成任务
// @Summary 后台生成整本书
// @Tags Books
// @Produce json
// @Param id path string true "图书 ID"
// @Success 202 {object} dto.Response[dto.AutorunResponse]
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/admin/books/{id}/autorun [post]
func (h *BookHandler) Autorun(c *gin.Context) {
	ctx := c.Request.Context()
	id := dto.BindBookID(c)

	if h.queue == nil {
		dto.ServiceUnavailable(c, "background generation requires redis")
		return
	}

	session, err := h.orch.Resume(ctx, id)
	if err != nil {
		dto.Fail(c, err)
		return
	}
	if session.TotalChapters == 0 {
		dto.BadRequest(c, "book has no chapter outline")
		return
	}
	if session.Completed {
		dto.BadRequest(c, "book is already complete")
		return
	}

	jobID, err := h.queue.EnqueueAutorun(ctx, id, middleware.Identity(c))
	if err != nil {
		logger.Error(ctx, "failed to enqueue autorun job", err, "book_id", id)
		dto.ServiceUnavailable(c, "failed to enqueue job")
		return
	}
	dto.Accepted(c, &dto.AutorunResponse{JobID: jobID, BookID: id})
}

// Patterns 已记录的开头模式（新到旧）
// @Summary 开头模式列表
// @Tags Books
// @Produce json
// @Param id path string true "图书 ID"
// @Param limit query int false "条数"
// @Success 200 {object} dto.Response[[]dto.PatternDTO]
// @Router /api/admin/books/{id}/patterns [get]
func (h *BookHandler) Patterns(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 200 {
		dto.BadRequest(c, "limit must be between 1 and 200")
		return
	}

	records, err := h.books.Patterns(c.Request.Context(), dto.BindBookID(c), limit)
	if err != nil {
		dto.Fail(c, err)
		return
	}
	dto.Success(c, dto.ToPatternDTOs(records))
}
