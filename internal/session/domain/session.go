package domain

import "time"

// Session represents one logical login instance: at most one live row per
// (UserID, DeviceID) pair. IssuedAt mirrors the iat of the session's current
// refresh token; rotation updates IssuedAt/ExpiresAt/IP in place.
type Session struct {
	UserID     string
	DeviceID   string
	DeviceName string // human-readable label derived from User-Agent
	IP         string // client IP at last refresh
	RefreshJTI string // jti of the current refresh token; rotation binding
	IssuedAt   time.Time
	ExpiresAt  time.Time
}

// Expired reports whether the session's refresh token lifetime has passed.
// Expiry is checked lazily at validation time; no background sweep.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
