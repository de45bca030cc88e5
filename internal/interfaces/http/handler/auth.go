// Package handler 提供 HTTP 请求处理器
package handler

import (
	"time"

	"satire-press-api/internal/domain/entity"
	"satire-press-api/internal/domain/repository"
	"satire-press-api/internal/interfaces/http/dto"
	"satire-press-api/internal/interfaces/http/middleware"
	"satire-press-api/pkg/logger"
	"satire-press-api/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler 管理员认证处理器
type AuthHandler struct {
	jwtManager *utils.JWTManager
	ttl        time.Duration
	userRepo   repository.UserRepository
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(cfg middleware.AuthConfig, ttl time.Duration, userRepo repository.UserRepository) *AuthHandler {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &AuthHandler{
		jwtManager: utils.NewJWTManager(cfg.Secret, cfg.Issuer),
		ttl:        ttl,
		userRepo:   userRepo,
	}
}

// Login 登录
// @Summary 管理员登录
// @Description 校验邮箱密码并签发访问令牌
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "登录信息"
// @Success 200 {object} dto.Response[dto.AuthResponse]
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	user, err := h.userRepo.GetByEmail(ctx, entity.NormalizeEmail(req.Email))
	if err != nil {
		logger.Error(ctx, "failed to get user", err)
		dto.InternalError(c, "login failed")
		return
	}

	if user == nil || !user.CheckPassword(req.Password) {
		dto.Unauthorized(c, "invalid email or password")
		return
	}
	if !user.IsAdmin() {
		dto.Forbidden(c, "admin access required")
		return
	}

	if err := h.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		logger.Warn(ctx, "failed to update last login time", "error", err.Error(), "user_id", user.ID)
	}

	token, expiresAt, err := h.jwtManager.GenerateToken(user.ID, user.Email, string(user.Role), h.ttl)
	if err != nil {
		logger.Error(ctx, "failed to sign token", err)
		dto.InternalError(c, "failed to generate token")
		return
	}

	dto.Success(c, &dto.AuthResponse{
		AccessToken: token,
		ExpiresIn:   int(time.Until(expiresAt).Seconds()),
		User:        dto.ToAuthUserDTO(user),
	})
}
