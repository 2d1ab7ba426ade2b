package security

import (
	"testing"
	"time"
)

func TestNewCode_Unique(t *testing.T) {
	a, b := NewCode(), NewCode()
	if a == "" || b == "" {
		t.Fatal("NewCode returned empty")
	}
	if a == b {
		t.Fatal("two codes should not collide")
	}
}

func TestCodeExpired(t *testing.T) {
	now := time.Now().UTC()
	if CodeExpired(now.Add(time.Minute), now) {
		t.Error("future expiry should not be expired")
	}
	if !CodeExpired(now.Add(-time.Minute), now) {
		t.Error("past expiry should be expired")
	}
	if !CodeExpired(time.Time{}, now) {
		t.Error("zero expiry should count as expired")
	}
}
