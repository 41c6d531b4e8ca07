package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"brightonhub/backend/internal/storage/redis"
)

// RateLimitByIP 基于 Redis 计数器的 IP 限流。
//
// 窗口内超过 limit 次返回 429。Redis 不可用时放行，限流只是保护手段，
// 不能成为单点故障。
func RateLimitByIP(cache *redis.Cache, log *zap.Logger, limit int64, window time.Duration) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		count, err := cache.IncrementRateLimit("ip:"+c.ClientIP(), window)
		if err != nil {
			log.Warn("rate limit counter unavailable", zap.Error(err))
			c.Next()
			return
		}

		if count > limit {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code": http.StatusTooManyRequests,
				"msg":  "请求过于频繁，请稍后再试",
			})
			return
		}

		c.Next()
	}
}
