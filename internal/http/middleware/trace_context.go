package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/valuepm-backend/internal/platform/ctxutil"
)

const (
	headerTraceID   = "X-Trace-Id"
	headerRequestID = "X-Request-Id"

	maxCorrelationIDLen = 128
)

// AttachTraceContext stamps every request with a trace id and a request id,
// echoes both as response headers and tags the active span with the request
// id. It must run after otelgin: a live span's trace id beats the inbound
// X-Trace-Id header so log lines and exported spans agree.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		span := trace.SpanFromContext(ctx)

		reqID, ok := correlationID(c.GetHeader(headerRequestID))
		if !ok {
			reqID = uuid.NewString()
		}
		traceID := ""
		if sc := span.SpanContext(); sc.HasTraceID() {
			traceID = sc.TraceID().String()
		} else if id, ok := correlationID(c.GetHeader(headerTraceID)); ok {
			traceID = id
		} else {
			traceID = uuid.NewString()
		}

		span.SetAttributes(attribute.String("request.id", reqID))
		c.Request = c.Request.WithContext(ctxutil.WithTraceData(ctx, &ctxutil.TraceData{
			TraceID:   traceID,
			RequestID: reqID,
		}))
		c.Set("trace_id", traceID)
		c.Set("request_id", reqID)
		h := c.Writer.Header()
		h.Set(headerTraceID, traceID)
		h.Set(headerRequestID, reqID)
		c.Next()
	}
}

// correlationID accepts a client-supplied id only when it is short and made
// of token characters, so it is safe to log and echo back.
func correlationID(raw string) (string, bool) {
	if raw == "" || len(raw) > maxCorrelationIDLen {
		return "", false
	}
	for i := 0; i < len(raw); i++ {
		switch ch := raw[i]; {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		case ch == '-', ch == '_', ch == '.', ch == ':':
		default:
			return "", false
		}
	}
	return raw, true
}
