package domain

import "time"

// Record is one logged request for rate limiting: keyed by client IP and
// route, independent of user identity. Records are append-only; the limiter
// only ever counts them over a window.
type Record struct {
	IP   string
	URL  string
	Date time.Time
}
