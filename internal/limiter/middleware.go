package limiter

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/logger"
)

// Middleware limits action per client IP. Requests pass when l is nil or
// the counter store fails; over the limit, denied renders the response and
// the chain stops.
func Middleware(l *Limiter, action string, denied gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil {
			c.Next()
			return
		}

		result, err := l.Check(c.Request.Context(), c.ClientIP(), action)
		if err != nil {
			logger.Warn("rate limit check failed", "action", action, "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
		if !result.Allowed {
			retry := int(time.Until(result.ResetAt).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(retry))
			denied(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
