package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken is returned when a token is malformed, expired, or fails verification.
	ErrInvalidToken = errors.New("invalid token")
)

// AccessClaims holds JWT claims for the access token.
type AccessClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
}

// RefreshClaims holds JWT claims for the refresh token. DeviceID scopes the
// token to one login session; IssuedAt binds it to the current session row
// for single-use rotation.
type RefreshClaims struct {
	jwt.RegisteredClaims
	UserID   string `json:"userId"`
	DeviceID string `json:"deviceId"`
}

// TokenProvider issues and validates HS256 access and refresh tokens using a shared secret.
type TokenProvider struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenProvider returns a TokenProvider signing with the given secret.
// refreshTTL is expected to be strictly longer than accessTTL.
func NewTokenProvider(secret []byte, accessTTL, refreshTTL time.Duration) *TokenProvider {
	return &TokenProvider{
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssueAccess issues a short-lived access JWT carrying the user id.
// Returns the token string and its expiration time.
func (p *TokenProvider) IssueAccess(userID string) (token string, expiresAt time.Time, err error) {
	now := time.Now().UTC().Truncate(time.Second)
	expiresAt = now.Add(p.accessTTL)
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: userID,
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	return token, expiresAt, err
}

// IssueRefresh issues a refresh JWT scoped to (userID, deviceID). The jti
// uniquely identifies this rotation — iat alone has second precision, so two
// rotations in the same second would otherwise be indistinguishable. The
// returned jti/issuedAt/expiresAt are what the caller stores on the session
// row; issuedAt is truncated to seconds because JWT iat has second precision.
func (p *TokenProvider) IssueRefresh(userID, deviceID string) (token, jti string, issuedAt, expiresAt time.Time, err error) {
	jti = uuid.New().String()
	now := time.Now().UTC().Truncate(time.Second)
	expiresAt = now.Add(p.refreshTTL)
	claims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID:   userID,
		DeviceID: deviceID,
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	return token, jti, now, expiresAt, err
}

// ValidateAccess parses and validates the access token (signature, exp).
// Fails closed: any failure returns only ErrInvalidToken, never a usable payload.
func (p *TokenProvider) ValidateAccess(tokenString string) (userID string, err error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, p.keyFunc)
	if err != nil {
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}

// ValidateRefresh parses and validates the refresh token (signature, exp).
// Returns the user id, device id, jti, and issued-at timestamp; callers
// compare jti against the stored session for single-use rotation.
func (p *TokenProvider) ValidateRefresh(tokenString string) (userID, deviceID, jti string, issuedAt time.Time, err error) {
	token, err := jwt.ParseWithClaims(tokenString, &RefreshClaims{}, p.keyFunc)
	if err != nil {
		return "", "", "", time.Time{}, ErrInvalidToken
	}
	claims, ok := token.Claims.(*RefreshClaims)
	if !ok || !token.Valid || claims.UserID == "" || claims.DeviceID == "" || claims.ID == "" {
		return "", "", "", time.Time{}, ErrInvalidToken
	}
	if claims.IssuedAt == nil {
		return "", "", "", time.Time{}, ErrInvalidToken
	}
	return claims.UserID, claims.DeviceID, claims.ID, claims.IssuedAt.Time.UTC(), nil
}

func (p *TokenProvider) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, ErrInvalidToken
	}
	return p.secret, nil
}
