package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/ncobase/shopauth/ctxutil"
)

// Trace ensures every request carries a trace ID for log correlation.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, traceID := ctxutil.EnsureTraceID(c.Request.Context())
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set("X-Trace-Id", traceID)
		c.Next()
	}
}
