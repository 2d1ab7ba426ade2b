// Package ratelimit throttles requests per (client IP, route) over a sliding window.
package ratelimit

import (
	"context"
	"time"

	"go.uber.org/zap"

	"blogger-platform/internal/ratelimit/domain"
	"blogger-platform/internal/ratelimit/repository"
)

// Limiter records requests and decides throttling. The current request is
// registered before counting, so the threshold is exclusive: with
// maxRequests = K, the (K+1)-th request inside the window is rejected.
type Limiter struct {
	repo        repository.Repository
	window      time.Duration
	maxRequests int
	log         *zap.Logger
}

// NewLimiter returns a Limiter over the given log store.
func NewLimiter(repo repository.Repository, window time.Duration, maxRequests int, log *zap.Logger) *Limiter {
	return &Limiter{repo: repo, window: window, maxRequests: maxRequests, log: log}
}

// Allow registers the request and reports whether it may proceed. Store
// failures fail open: a limiter outage must never become a site outage, so
// errors are logged and the request is allowed.
func (l *Limiter) Allow(ctx context.Context, ip, url string) bool {
	now := time.Now().UTC()
	if err := l.repo.Insert(ctx, &domain.Record{IP: ip, URL: url, Date: now}); err != nil {
		l.log.Warn("rate limit: insert failed, allowing request", zap.Error(err))
		return true
	}
	count, err := l.repo.Count(ctx, ip, url, now.Add(-l.window))
	if err != nil {
		l.log.Warn("rate limit: count failed, allowing request", zap.Error(err))
		return true
	}
	return count <= int64(l.maxRequests)
}
