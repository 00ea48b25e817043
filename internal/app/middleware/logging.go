package middleware

import (
	"time"

	"github.com/Jouiet/VocalIA-sub010/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestID propagates the caller's X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// Logging writes one line per request. The query string is not logged since
// callbacks carry authorization codes and state tokens.
func Logging(l logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		fields := []logger.Field{
			{Key: "method", Value: c.Request.Method},
			{Key: "path", Value: path},
			{Key: "route", Value: c.FullPath()},
			{Key: "status", Value: status},
			{Key: "latency", Value: time.Since(start).String()},
			{Key: requestIDKey, Value: c.GetString(requestIDKey)},
		}

		ctx := c.Request.Context()
		switch {
		case status >= 500:
			l.Error(ctx, "request completed", fields...)
		case status >= 400:
			l.Warn(ctx, "request completed", fields...)
		default:
			l.Info(ctx, "request completed", fields...)
		}
	}
}
