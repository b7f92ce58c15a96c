package domain

import "time"

// TokenPair is what a successful login returns: the short-lived access token
// (JWT) and the opaque refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AccessToken is what a successful refresh returns. No new refresh token is
// issued.
type AccessToken struct {
	AccessToken string `json:"access_token"`
}

// RefreshToken models the stored refresh token record.
type RefreshToken struct {
	ID        int64
	UserID    int64
	Token     string // 128-bit random value, lowercase hex
	ExpiresAt time.Time
	Revoked   bool
}

// RefreshTokenState is the lifecycle state of a refresh token at a point in
// time.
type RefreshTokenState int

const (
	RefreshTokenActive RefreshTokenState = iota
	RefreshTokenExpired
	RefreshTokenRevoked
)

func (s RefreshTokenState) String() string {
	switch s {
	case RefreshTokenActive:
		return "active"
	case RefreshTokenExpired:
		return "expired"
	case RefreshTokenRevoked:
		return "revoked"
	default:
		return "unknown"
	}
}

// StateAt reports the token's state at now. A token is expired once now has
// reached expires_at; revocation wins over expiry.
func (t RefreshToken) StateAt(now time.Time) RefreshTokenState {
	switch {
	case t.Revoked:
		return RefreshTokenRevoked
	case !t.ExpiresAt.After(now):
		return RefreshTokenExpired
	default:
		return RefreshTokenActive
	}
}
