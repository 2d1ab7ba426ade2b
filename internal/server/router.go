// Package server assembles the gin engine: middleware ordering, route
// mounting, and the HTTP server lifecycle.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	adminhandler "blogger-platform/internal/admin/handler"
	authhandler "blogger-platform/internal/auth/handler"
	healthhandler "blogger-platform/internal/health/handler"
	"blogger-platform/internal/ratelimit"
	"blogger-platform/internal/results"
	"blogger-platform/internal/security"
	"blogger-platform/internal/server/middleware"
	sessionhandler "blogger-platform/internal/session/handler"
)

// Deps carries everything the router mounts.
type Deps struct {
	Log     *zap.Logger
	Tokens  *security.TokenProvider
	Limiter *ratelimit.Limiter
	Auth    *authhandler.Handler
	Devices *sessionhandler.Handler
	Health  *healthhandler.Handler
	Testing *adminhandler.Handler // nil outside test environments
}

// NewRouter builds the engine. Health and the testing reset mount before the
// rate limiter so probes and test cleanup are never throttled; every other
// route goes through it.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(d.Log), recovery(d.Log))

	d.Health.Register(r)
	if d.Testing != nil {
		d.Testing.Register(r)
	}

	r.Use(middleware.RateLimit(d.Limiter))
	d.Auth.Register(r, middleware.Auth(d.Tokens))
	d.Devices.Register(r)
	return r
}

// requestLogger logs one line per request.
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}

// recovery turns panics into a logged 500 with the standard error body.
func recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("panic recovered",
					zap.Any("panic", rec),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"),
				)
				res := results.InternalErr()
				c.AbortWithStatusJSON(http.StatusInternalServerError, res.Body())
			}
		}()
		c.Next()
	}
}
