package security

import (
	"testing"
	"time"
)

func newTestProvider() *TokenProvider {
	return NewTokenProvider([]byte("test-secret"), 15*time.Minute, 24*time.Hour)
}

func TestTokenProvider_IssueAccessAndValidate(t *testing.T) {
	p := newTestProvider()

	access, exp, err := p.IssueAccess("u1")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if access == "" {
		t.Fatal("access token empty")
	}
	if exp.Before(time.Now()) {
		t.Fatal("expires at in the past")
	}

	uid, err := p.ValidateAccess(access)
	if err != nil {
		t.Fatalf("ValidateAccess: %v", err)
	}
	if uid != "u1" {
		t.Errorf("ValidateAccess: userID = %q, want %q", uid, "u1")
	}
}

func TestTokenProvider_IssueRefreshAndValidate(t *testing.T) {
	p := newTestProvider()

	refresh, jti, iat, exp, err := p.IssueRefresh("u1", "d1")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}
	if refresh == "" || jti == "" {
		t.Fatal("refresh token or jti empty")
	}
	if !exp.After(iat) {
		t.Fatal("refresh exp must follow iat")
	}

	uid, did, gotJTI, gotIat, err := p.ValidateRefresh(refresh)
	if err != nil {
		t.Fatalf("ValidateRefresh: %v", err)
	}
	if uid != "u1" || did != "d1" {
		t.Errorf("ValidateRefresh: got userID=%q deviceID=%q", uid, did)
	}
	if gotJTI != jti {
		t.Errorf("ValidateRefresh: jti = %q, want %q", gotJTI, jti)
	}
	if !gotIat.Equal(iat) {
		t.Errorf("ValidateRefresh: iat = %v, want %v", gotIat, iat)
	}
}

func TestTokenProvider_ValidateRefreshInvalid(t *testing.T) {
	p := newTestProvider()
	if _, _, _, _, err := p.ValidateRefresh("invalid-token"); err != ErrInvalidToken {
		t.Errorf("ValidateRefresh invalid token: want ErrInvalidToken, got %v", err)
	}
}

func TestTokenProvider_WrongSecretRejected(t *testing.T) {
	p := newTestProvider()
	other := NewTokenProvider([]byte("other-secret"), 15*time.Minute, 24*time.Hour)

	access, _, err := p.IssueAccess("u1")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if _, err := other.ValidateAccess(access); err != ErrInvalidToken {
		t.Errorf("ValidateAccess with wrong secret: want ErrInvalidToken, got %v", err)
	}
}

func TestTokenProvider_ExpiredRejected(t *testing.T) {
	p := NewTokenProvider([]byte("test-secret"), -time.Minute, -time.Second)

	access, _, err := p.IssueAccess("u1")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if _, err := p.ValidateAccess(access); err != ErrInvalidToken {
		t.Errorf("expired access token: want ErrInvalidToken, got %v", err)
	}

	refresh, _, _, _, err := p.IssueRefresh("u1", "d1")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}
	if _, _, _, _, err := p.ValidateRefresh(refresh); err != ErrInvalidToken {
		t.Errorf("expired refresh token: want ErrInvalidToken, got %v", err)
	}
}

func TestTokenProvider_AccessTokenNotValidAsRefresh(t *testing.T) {
	p := newTestProvider()
	access, _, err := p.IssueAccess("u1")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	// An access token carries no deviceId, so it must not pass refresh validation.
	if _, _, _, _, err := p.ValidateRefresh(access); err != ErrInvalidToken {
		t.Errorf("access token as refresh: want ErrInvalidToken, got %v", err)
	}
}

func TestTokenProvider_RefreshTokensUniquePerRotation(t *testing.T) {
	p := newTestProvider()
	rt1, jti1, _, _, err := p.IssueRefresh("u1", "d1")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}
	rt2, jti2, _, _, err := p.IssueRefresh("u1", "d1")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}
	// Even within the same second the tokens must differ, or a superseded
	// token would be indistinguishable from its successor.
	if rt1 == rt2 {
		t.Fatal("two refresh tokens for the same device must differ")
	}
	if jti1 == jti2 {
		t.Fatal("two rotations must carry different jtis")
	}
}
