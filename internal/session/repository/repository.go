package repository

import (
	"context"
	"time"

	"blogger-platform/internal/session/domain"
)

// Repository defines persistence for device sessions. All operations are
// idempotent on not-found: they report nil/false/0 instead of failing, and the
// orchestration layer decides what that maps to.
type Repository interface {
	Get(ctx context.Context, userID, deviceID string) (*domain.Session, error)
	// GetByDeviceID looks a session up by device alone, so the caller can tell
	// "does not exist" apart from "exists but belongs to someone else".
	GetByDeviceID(ctx context.Context, deviceID string) (*domain.Session, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Session, error)
	Create(ctx context.Context, s *domain.Session) error
	// UpdateIfCurrent rotates the session in place, but only if the stored
	// refresh jti still equals prevJTI. Returns false when another rotation
	// won the race or the row is gone — the caller must treat that as an
	// invalid token.
	UpdateIfCurrent(ctx context.Context, userID, deviceID, prevJTI, jti string, issuedAt, expiresAt time.Time, ip string) (bool, error)
	// Delete removes exactly one session; reports whether a row was deleted.
	Delete(ctx context.Context, userID, deviceID string) (bool, error)
	// DeleteAllExcept removes every session of the user except the current
	// device's; returns the number of rows deleted.
	DeleteAllExcept(ctx context.Context, userID, currentDeviceID string) (int64, error)
	// DeleteAllByUser removes every session of the user (password reset).
	DeleteAllByUser(ctx context.Context, userID string) error
	// DeleteAll wipes the collection. Admin/test reset only.
	DeleteAll(ctx context.Context) error
}
