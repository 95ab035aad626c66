package httpapi

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestLogger tags every request with an id (taken from X-Request-ID or
// generated), exposes a logger carrying it to later handlers and writes one
// line per request once the response is done.
func RequestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := strings.TrimSpace(c.GetHeader(common.RequestIDHeaderName))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(common.RequestIDHeaderName, requestID)
		c.Set(requestIDKey, requestID)

		l := logger.With("request_id", requestID)
		c.Set(loggerKey, l)

		c.Next()

		l.Info(c.Request.Context(), "request served",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
		)
	}
}
