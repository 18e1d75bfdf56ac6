package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"smilecare.backend/pkg/logger"
)

// LoggerMiddleware logs every request once it has been served.
// Query strings are left out: the chat socket carries the access token there.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		logger.LogRequest(c.Request.Context(), logger.RequestLog{
			Method:   c.Request.Method,
			Path:     c.Request.URL.Path,
			Route:    route,
			Status:   c.Writer.Status(),
			Latency:  time.Since(start),
			ClientIP: c.ClientIP(),
			Bytes:    c.Writer.Size(),
		})
	}
}
