package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yigit/judgeadmin/internal/pkg/logger"
)

const requestIDHeader = "X-Request-ID"

// RequestLogger stores a request-scoped logger in the request context and logs
// every completed request
func RequestLogger() gin.HandlerFunc {
	base := logger.Component("http")
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		lgr := base.With().Str("requestID", requestID).Logger()
		c.Request = c.Request.WithContext(logger.IntoContext(c.Request.Context(), lgr))

		c.Next()

		status := c.Writer.Status()
		event := logger.FromContext(c.Request.Context()).Info()
		if status >= 500 {
			event = logger.FromContext(c.Request.Context()).Error()
		} else if status >= 400 {
			event = logger.FromContext(c.Request.Context()).Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Str("clientIP", c.ClientIP()).
			Msg("Request completed")
	}
}

// Recovery converts panics into a logged 500 response
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.FromContext(c.Request.Context()).Error().
			Interface("panic", recovered).
			Str("path", c.Request.URL.Path).
			Msg("Recovered from panic")
		c.AbortWithStatus(500)
	})
}
