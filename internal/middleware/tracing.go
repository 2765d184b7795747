package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/streamtube/backend/internal/tracing"
)

// Tracing opens a span per request, named after the matched route, and
// propagates it through the request context so repository and storage
// calls join the same trace. A no-op tracer makes this free when
// tracing is disabled.
func Tracing() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Request.Method + " " + c.FullPath()
		if c.FullPath() == "" {
			name = c.Request.Method + " unmatched"
		}

		span, ctx := tracing.StartSpan(c.Request.Context(), name)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		tracing.SetTag(span, "http.method", c.Request.Method)
		tracing.SetTag(span, "http.status_code", c.Writer.Status())
		if c.Writer.Status() >= http.StatusInternalServerError {
			tracing.SetTag(span, "error", true)
		}
		tracing.FinishSpan(span)
	}
}
