package router

import (
	"github.com/gin-gonic/gin"

	"satire-press-api/internal/interfaces/http/middleware"
)

// RegisterAPIRoutes 注册 /api 下的路由
func RegisterAPIRoutes(api *gin.RouterGroup, auth, rateLimit gin.HandlerFunc, h *Handlers) {
	api.POST("/auth/login", h.Auth.Login)

	// 公共接口：生成与投票按客户端 IP 限流
	community := api.Group("/community/titles")
	{
		community.GET("", h.Community.List)
		community.POST("", rateLimit, h.Community.Generate)
		community.POST("/:id/vote", rateLimit, h.Community.Vote)
	}

	admin := []gin.HandlerFunc{auth, middleware.RequireAdmin()}

	generate := api.Group("/generate", admin...)
	{
		generate.POST("/title", h.Generate.Title)
		generate.POST("/chapters", h.Generate.Chapters)
		generate.POST("/content", h.Generate.Content)
		generate.POST("/review", h.Generate.Review)
	}

	edit := api.Group("/admin/edit", admin...)
	{
		edit.PUT("/title", h.Admin.EditTitle)
		edit.PUT("/chapters", h.Admin.EditChapters)
		edit.PUT("/content", h.Admin.EditContent)
	}

	books := api.Group("/admin/books", admin...)
	{
		books.POST("", h.Books.Create)
		books.GET("", h.Books.List)
		books.GET("/:id", h.Books.Get)
		books.POST("/:id/next", h.Books.Next)
		books.POST("/:id/undo", h.Books.Undo)
		books.POST("/:id/autorun", h.Books.Autorun)
		books.GET("/:id/patterns", h.Books.Patterns)
	}
}
