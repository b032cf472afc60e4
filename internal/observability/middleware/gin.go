package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/observability/logging"
	"github.com/KasumiMercury/fitmind-reminder-scheduling/internal/observability/metrics"
)

const requestIDHeader = "X-Request-ID"

type GinConfig struct {
	// SkipPaths lists routes excluded from request logging, typically
	// health probes.
	SkipPaths   []string
	Module      logging.Module
	HTTPMetrics *metrics.HTTPMetrics
}

// Gin returns the request logging middleware. Every request gets a
// request ID, a structured access log line and HTTP metrics.
func Gin(cfg GinConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		start := time.Now()
		c.Next()
		duration := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		if cfg.HTTPMetrics != nil {
			cfg.HTTPMetrics.RecordRequest(c.Request.Context(), c.Request.Method, route, c.Writer.Status(), duration)
		}

		if slices.Contains(cfg.SkipPaths, c.Request.URL.Path) {
			return
		}

		attrs := []any{
			slog.String("module", string(cfg.Module)),
			slog.String("request_id", requestID),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", duration),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			slog.ErrorContext(c.Request.Context(), "request failed", attrs...)
		case c.Writer.Status() >= http.StatusBadRequest:
			slog.WarnContext(c.Request.Context(), "request rejected", attrs...)
		default:
			slog.InfoContext(c.Request.Context(), "request handled", attrs...)
		}
	}
}

// PanicRecoveryGin converts panics into 500 responses with a logged
// stack trace instead of killing the connection.
func PanicRecoveryGin() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				slog.ErrorContext(c.Request.Context(), "panic recovered",
					slog.Any("panic", r),
					slog.String("path", c.Request.URL.Path),
					slog.String("stack", string(debug.Stack())),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":   "internal_error",
					"message": "internal server error",
				})
			}
		}()
		c.Next()
	}
}
