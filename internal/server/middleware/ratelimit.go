package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blogger-platform/internal/ratelimit"
	"blogger-platform/internal/results"
)

// RateLimit rejects requests over the per-IP, per-route sliding-window
// threshold with 429. The window key is the route path as requested, so
// every endpoint gets its own budget.
func RateLimit(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.Request.Context(), c.ClientIP(), c.Request.URL.Path) {
			body := results.APIError{ErrorsMessages: []results.FieldError{{Message: "Too many requests"}}}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, body)
			return
		}
		c.Next()
	}
}
