package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// OtelTracing returns a middleware for OpenTelemetry instrumentation.
// Only API and project delivery requests are traced.
func OtelTracing(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName,
		otelgin.WithFilter(func(r *http.Request) bool {
			return servedPath(r.URL.Path)
		}),
	)
}

// TraceID returns a middleware that adds trace ID to response headers.
func TraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.SpanContext().IsValid() {
			c.Header("X-Trace-Id", span.SpanContext().TraceID().String())
		}
		c.Next()
	}
}

// SlugAttribute tags the current span with the project slug of the route, if any.
func SlugAttribute() gin.HandlerFunc {
	return func(c *gin.Context) {
		if slug := c.Param("slug"); slug != "" {
			span := trace.SpanFromContext(c.Request.Context())
			if span.SpanContext().IsValid() {
				span.SetAttributes(attribute.String("project.slug", slug))
			}
		}
		c.Next()
	}
}
