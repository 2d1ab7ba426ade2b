package ratelimit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"blogger-platform/internal/ratelimit/domain"
)

type memRateLimitRepo struct {
	mu      sync.Mutex
	records []domain.Record
	failing bool
}

func (r *memRateLimitRepo) Insert(ctx context.Context, rec *domain.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing {
		return errors.New("store down")
	}
	r.records = append(r.records, *rec)
	return nil
}

func (r *memRateLimitRepo) Count(ctx context.Context, ip, url string, since time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing {
		return 0, errors.New("store down")
	}
	var n int64
	for _, rec := range r.records {
		if rec.IP == ip && rec.URL == url && !rec.Date.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *memRateLimitRepo) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = nil
	return nil
}

func TestLimiter_ExclusiveThreshold(t *testing.T) {
	repo := &memRateLimitRepo{}
	l := NewLimiter(repo, 10*time.Second, 5, zap.NewNop())
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		if !l.Allow(ctx, "1.2.3.4", "/auth/login") {
			t.Fatalf("request %d within the limit should be allowed", i)
		}
	}
	if l.Allow(ctx, "1.2.3.4", "/auth/login") {
		t.Fatal("6th request within the window should be rejected")
	}
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	repo := &memRateLimitRepo{}
	l := NewLimiter(repo, 10*time.Second, 1, zap.NewNop())
	ctx := context.Background()

	if !l.Allow(ctx, "1.2.3.4", "/auth/login") {
		t.Fatal("first request should be allowed")
	}
	if l.Allow(ctx, "1.2.3.4", "/auth/login") {
		t.Fatal("second request on the same key should be rejected")
	}
	if !l.Allow(ctx, "5.6.7.8", "/auth/login") {
		t.Fatal("other IP should not be throttled")
	}
	if !l.Allow(ctx, "1.2.3.4", "/auth/registration") {
		t.Fatal("other route should not be throttled")
	}
}

func TestLimiter_OldRecordsFallOutOfWindow(t *testing.T) {
	repo := &memRateLimitRepo{}
	l := NewLimiter(repo, 50*time.Millisecond, 1, zap.NewNop())
	ctx := context.Background()

	if !l.Allow(ctx, "1.2.3.4", "/auth/login") {
		t.Fatal("first request should be allowed")
	}
	if l.Allow(ctx, "1.2.3.4", "/auth/login") {
		t.Fatal("second request inside the window should be rejected")
	}
	time.Sleep(60 * time.Millisecond)
	if !l.Allow(ctx, "1.2.3.4", "/auth/login") {
		t.Fatal("request after the window elapsed should be allowed")
	}
}

func TestLimiter_FailsOpenOnStoreErrors(t *testing.T) {
	repo := &memRateLimitRepo{failing: true}
	l := NewLimiter(repo, 10*time.Second, 1, zap.NewNop())

	if !l.Allow(context.Background(), "1.2.3.4", "/auth/login") {
		t.Fatal("limiter must fail open when the store is down")
	}
}
