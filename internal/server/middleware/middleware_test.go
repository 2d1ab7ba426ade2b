package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"blogger-platform/internal/ratelimit"
	ratelimitdomain "blogger-platform/internal/ratelimit/domain"
	"blogger-platform/internal/results"
	"blogger-platform/internal/security"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthEngine(tokens *security.TokenProvider) *gin.Engine {
	r := gin.New()
	r.GET("/protected", Auth(tokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": c.GetString(UserIDKey)})
	})
	return r
}

func TestAuth_ValidToken(t *testing.T) {
	tokens := security.NewTokenProvider([]byte("secret"), time.Minute, time.Hour)
	access, _, err := tokens.IssueAccess("user-1")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	r := newAuthEngine(tokens)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["userId"] != "user-1" {
		t.Errorf("userId = %q, want user-1", body["userId"])
	}
}

func TestAuth_Rejections(t *testing.T) {
	tokens := security.NewTokenProvider([]byte("secret"), time.Minute, time.Hour)
	expired := security.NewTokenProvider([]byte("secret"), -time.Minute, time.Hour)
	expiredAccess, _, err := expired.IssueAccess("user-1")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not-a-jwt"},
		{"expired token", "Bearer " + expiredAccess},
	}
	r := newAuthEngine(tokens)
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", tc.name, w.Code)
		}
	}
}

type memRateLimitRepo struct {
	mu      sync.Mutex
	records []*ratelimitdomain.Record
}

func (r *memRateLimitRepo) Insert(ctx context.Context, rec *ratelimitdomain.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return nil
}

func (r *memRateLimitRepo) Count(ctx context.Context, ip, url string, since time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
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

func TestRateLimit_ThresholdPerRoute(t *testing.T) {
	limiter := ratelimit.NewLimiter(&memRateLimitRepo{}, 10*time.Second, 5, zap.NewNop())
	r := gin.New()
	r.Use(RateLimit(limiter))
	r.POST("/auth/login", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.POST("/auth/registration", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	do := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.RemoteAddr = "1.2.3.4:5678"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	for i := 0; i < 5; i++ {
		if w := do("/auth/login"); w.Code != http.StatusNoContent {
			t.Fatalf("request %d: status = %d, want 204", i+1, w.Code)
		}
	}
	w := do("/auth/login")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("6th request: status = %d, want 429", w.Code)
	}
	var body results.APIError
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.ErrorsMessages) != 1 || body.ErrorsMessages[0].Message != "Too many requests" {
		t.Errorf("body = %+v, want Too many requests", body)
	}

	// A different route has its own budget.
	if w := do("/auth/registration"); w.Code != http.StatusNoContent {
		t.Errorf("other route: status = %d, want 204", w.Code)
	}
}
