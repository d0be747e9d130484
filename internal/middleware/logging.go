package middleware

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ibrahimGoumrane/pfeManagerFront/internal/logger"
)

// RequestLogger writes one structured record per request. It is installed
// on the engine so health checks, metric scrapes and static files pass
// through it too; those are logged at debug level when they succeed.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", c.ClientIP(),
		}
		if v := CurrentViewer(c); v.User != nil {
			args = append(args, "user_id", v.User.ID)
		}

		switch requestLevel(c.FullPath(), c.Writer.Status()) {
		case slog.LevelDebug:
			logger.Debug("request", args...)
		case slog.LevelError:
			logger.Error("request", args...)
		default:
			logger.Info("request", args...)
		}
	}
}

func requestLevel(route string, status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelInfo
	case route == "/health" || route == "/metrics" || strings.HasPrefix(route, "/static/"):
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}
