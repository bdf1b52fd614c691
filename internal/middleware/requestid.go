package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/sitewatch/safety-backend/internal/requestdata"
)

const requestIDHeader = "X-Request-Id"

// RequestID tags every request with a correlation id (honoring one the
// caller already sent) and exposes it on the response together with the
// active trace id.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set(requestIDHeader, id)

		td := &requestdata.TraceData{RequestID: id}
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			td.TraceID = sc.TraceID().String()
		}
		c.Request = c.Request.WithContext(requestdata.WithTraceData(c.Request.Context(), td))
		c.Next()
	}
}
