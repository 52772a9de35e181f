package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/config"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/repository/redis"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/utils/metrics"
)

// RateLimitByIP applies a fixed-window rule keyed by client IP. Meant for
// unauthenticated endpoints such as login and registration.
func RateLimitByIP(limiter *redis.RateLimiter, action string, rule config.RateLimitRule, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := redis.Key(action, c.ClientIP())
		allowed, err := limiter.Allow(c.Request.Context(), key, rule)
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.String("action", action), zap.Error(err))
		}
		if !allowed {
			metrics.RateLimitedTotal.WithLabelValues(action).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}

// RateLimitByUser applies a fixed-window rule keyed by the authenticated user.
// Must run after Auth.
func RateLimitByUser(limiter *redis.RateLimiter, action string, rule config.RateLimitRule, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserIDFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		key := redis.Key(action, userID.String())
		allowed, err := limiter.Allow(c.Request.Context(), key, rule)
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.String("action", action), zap.Error(err))
		}
		if !allowed {
			metrics.RateLimitedTotal.WithLabelValues(action).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
