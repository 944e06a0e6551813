package middleware

import (
  "time"
  "github.com/gin-gonic/gin"
  "go.opentelemetry.io/otel/trace"
  "github.com/shoplens/shoplens-backend/internal/logger"
)

// RequestLogger logs one line per request with method, path, status and
// latency. Errors attached to the gin context are included, and the active
// trace id is echoed into the log line and the X-Trace-Id header.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
  reqLog := log.With("component", "http")
  return func(c *gin.Context) {
    start := time.Now()
    path := c.Request.URL.Path

    traceID := ""
    if spanCtx := trace.SpanContextFromContext(c.Request.Context()); spanCtx.HasTraceID() {
      traceID = spanCtx.TraceID().String()
      c.Writer.Header().Set("X-Trace-Id", traceID)
    }

    c.Next()

    fields := []interface{}{
      "method", c.Request.Method,
      "path", path,
      "status", c.Writer.Status(),
      "latency", time.Since(start).String(),
    }
    if traceID != "" {
      fields = append(fields, "trace_id", traceID)
    }
    if len(c.Errors) > 0 {
      fields = append(fields, "errors", c.Errors.String())
    }
    if c.Writer.Status() >= 500 {
      reqLog.Error("request", fields...)
      return
    }
    reqLog.Info("request", fields...)
  }
}
