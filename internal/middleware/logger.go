package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// servedPath reports whether a request hits the management API or project delivery.
func servedPath(path string) bool {
	return strings.HasPrefix(path, "/api/") || strings.HasPrefix(path, "/projects/")
}

// ZapLogger returns a middleware that logs HTTP requests using zap logger.
// API and delivery requests are logged at info (warn for 5xx), everything else at debug.
func ZapLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		dur := time.Since(start)

		path := c.Request.URL.Path
		status := c.Writer.Status()

		level := zapcore.DebugLevel
		if servedPath(path) {
			level = zapcore.InfoLevel
			if status >= 500 {
				level = zapcore.WarnLevel
			}
		}

		ce := log.Check(level, "HTTP")
		if ce == nil {
			return
		}

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.String("latency", dur.String()),
			zap.String("clientIP", c.ClientIP()),
		}
		if slug := c.Param("slug"); slug != "" {
			fields = append(fields, zap.String("slug", slug))
		}
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.IsValid() {
			fields = append(fields, zap.String("traceID", sc.TraceID().String()))
		}
		ce.Write(fields...)
	}
}
