package middleware

import (
	"net/http"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"

	"crm/internal/pkg/reporting"
)

// Sentry reports errors attached to 5xx responses. Install it only when a
// DSN is configured.
func Sentry() gin.HandlerFunc {
	return func(c *gin.Context) {
		hub := sentry.CurrentHub().Clone()
		hub.ConfigureScope(func(scope *sentry.Scope) {
			scope.SetRequest(c.Request)
			scope.SetTag("http.method", c.Request.Method)
			scope.SetTag("http.route", c.FullPath())
			scope.SetTag("request_id", requestID(c))
		})

		c.Next()

		if c.Writer.Status() < http.StatusInternalServerError {
			return
		}
		for _, ginErr := range c.Errors {
			reporting.CaptureError(hub, ginErr.Err, map[string]interface{}{
				"status":  c.Writer.Status(),
				"headers": safeHeaders(c.Request.Header),
			})
		}
	}
}

func safeHeaders(h http.Header) map[string]interface{} {
	safe := make(map[string]interface{}, len(h))
	for k, v := range h {
		if strings.EqualFold(k, "Authorization") || strings.EqualFold(k, "Cookie") {
			safe[k] = "[FILTERED]"
		} else {
			safe[k] = v
		}
	}
	return safe
}
