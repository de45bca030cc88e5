package handler

import (
	"github.com/gin-gonic/gin"

	"satire-press-api/internal/application/community"
	"satire-press-api/internal/interfaces/http/dto"
)

// CommunityHandler 公共标题生成与投票
type CommunityHandler struct {
	svc *community.Service
}

// NewCommunityHandler 创建社区处理器
func NewCommunityHandler(svc *community.Service) *CommunityHandler {
	return &CommunityHandler{svc: svc}
}

// Generate 生成一个候选标题
// @Summary 生成社区标题
// @Tags Community
// @Accept json
// @Produce json
// @Param body body dto.CommunityGenerateRequest true "行业"
// @Success 201 {object} dto.Response[dto.SubmissionDTO]
// @Failure 429 {object} dto.ErrorResponse
// @Router /api/community/titles [post]
func (h *CommunityHandler) Generate(c *gin.Context) {
	var req dto.CommunityGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	sub, err := h.svc.Generate(c.Request.Context(), req.Industry, c.ClientIP())
	if err != nil {
		dto.Fail(c, err)
		return
	}
	dto.Created(c, dto.ToSubmissionDTO(sub))
}

// List 按票数列出候选标题
// @Summary 社区标题榜
// @Tags Community
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} dto.Response[[]dto.SubmissionDTO]
// @Router /api/community/titles [get]
func (h *CommunityHandler) List(c *gin.Context) {
	page := dto.BindPage(c)
	result, err := h.svc.List(c.Request.Context(), page.Pagination())
	if err != nil {
		dto.Fail(c, err)
		return
	}
	dto.SuccessWithPage(c, dto.ToSubmissionDTOs(result.Items), dto.PageMetaOf(result))
}

// Vote 投票；同一客户端对同一标题只计一票
// @Summary 为标题投票
// @Tags Community
// @Produce json
// @Param id path string true "标题 ID"
// @Success 200 {object} dto.Response[community.VoteResult]
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/community/titles/{id}/vote [post]
func (h *CommunityHandler) Vote(c *gin.Context) {
	out, err := h.svc.Vote(c.Request.Context(), c.Param("id"), c.ClientIP())
	if err != nil {
		dto.Fail(c, err)
		return
	}
	dto.Success(c, out)
}
