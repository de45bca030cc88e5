package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"satire-press-api/internal/application/community"
	"satire-press-api/internal/application/ratelimit"
	"satire-press-api/internal/interfaces/http/dto"
	"satire-press-api/pkg/logger"
)

// RateLimit 按客户端 IP 限流。
// 处理前只检查不计数；处理成功（状态码 < 400）后才记一次，失败的请求不占额度。
// 计数存储故障时放行。
func RateLimit(limiter *ratelimit.Limiter) gin.HandlerFunc {
	if limiter == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		key := community.ClientKey(c.ClientIP())
		ctx := logger.WithContext(c.Request.Context(), logger.ClientKey, key)
		c.Request = c.Request.WithContext(ctx)

		decision, err := limiter.Check(ctx, key)
		if err != nil {
			logger.Warn(ctx, "rate limiter unavailable, allowing request", "error", err.Error())
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

		if !decision.Allowed {
			seconds := int(math.Ceil(decision.RetryAfter.Seconds()))
			c.Header("Retry-After", strconv.Itoa(max(seconds, 1)))
			dto.TooManyRequests(c, "rate limit exceeded, try again later")
			c.Abort()
			return
		}

		c.Next()

		if c.Writer.Status() < http.StatusBadRequest {
			if err := limiter.Record(ctx, key); err != nil {
				logger.Warn(ctx, "failed to record rate limit hit", "error", err.Error())
			}
		}
	}
}
