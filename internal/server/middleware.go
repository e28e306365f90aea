package server

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/theirongolddev/spendchart/internal/log"
)

// requestLogger logs one line per completed request, at Warn for client
// errors and Error for server errors.
func requestLogger(logger *log.Logger) gin.HandlerFunc {
	logger = logger.WithComponent(log.ComponentHTTP)
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		if status >= 500 {
			level = slog.LevelError
		} else if status >= 400 {
			level = slog.LevelWarn
		}

		args := []any{
			log.FieldMethod, c.Request.Method,
			log.FieldPath, c.Request.URL.Path,
			log.FieldQuery, c.Request.URL.RawQuery,
			log.FieldStatusCode, status,
			log.FieldDuration, time.Since(start).Milliseconds(),
			log.FieldClientIP, c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			args = append(args, log.FieldError, c.Errors.String())
		}
		logger.Log(level, "request", args...)
	}
}
