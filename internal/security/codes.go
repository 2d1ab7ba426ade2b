package security

import (
	"time"

	"github.com/google/uuid"
)

// NewCode returns a fresh single-use code for email confirmation or password
// recovery. Codes are UUIDs: unguessable enough for mailed links and unique
// enough to look up a user by code.
func NewCode() string {
	return uuid.New().String()
}

// CodeExpired reports whether a code with the given expiry is no longer
// redeemable at now. A zero expiry counts as expired (no code was ever set).
func CodeExpired(expiresAt, now time.Time) bool {
	if expiresAt.IsZero() {
		return true
	}
	return now.After(expiresAt)
}
