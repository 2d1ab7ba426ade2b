package repository

import (
	"context"
	"time"

	"blogger-platform/internal/ratelimit/domain"
)

// Repository defines persistence for the rate-limit request log.
type Repository interface {
	// Insert appends one request record.
	Insert(ctx context.Context, rec *domain.Record) error
	// Count returns how many records exist for (ip, url) with a timestamp in
	// [since, now].
	Count(ctx context.Context, ip, url string, since time.Time) (int64, error)
	// DeleteAll wipes the log. Admin/test reset only.
	DeleteAll(ctx context.Context) error
}
