package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xpanvictor/voicewithin/pkg/Logger"
)

// ReadOnlyMiddleware rejects anything but GET, HEAD and OPTIONS. The status
// surface never changes session state.
func ReadOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead:
			c.Next()
		case http.MethodOptions:
			c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
			c.AbortWithStatus(http.StatusNoContent)
		default:
			c.AbortWithStatusJSON(http.StatusMethodNotAllowed, ErrorResponse{Error: "read-only endpoint"})
		}
	}
}

// RequestLoggerMiddleware logs each request at debug level. Status polling
// is frequent, so nothing is written at info.
func RequestLoggerMiddleware(logger *Logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debugw("status request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client", c.ClientIP(),
		)
	}
}

// ErrorHandlerMiddleware turns handler panics into a 500 JSON body.
func ErrorHandlerMiddleware(logger *Logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Errorw("status handler panic", "path", c.Request.URL.Path, "panic", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	})
}
