package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// InsecureDefaultSecret is the placeholder secret used when none is
// configured. Tokens signed with it are forgeable by anyone who reads the
// source, so startup logs a warning when it is in use.
const InsecureDefaultSecret = "CHANGE_ME"

// Signer is our interface for anything that can sign JWTs.
type Signer interface {
	Alg() string
	Sign(Claims) (string, error)
}

// HS256Signer signs tokens with HMAC-SHA256 over a shared secret.
type HS256Signer struct {
	secret []byte
}

// NewSignerHS256 creates an HS256 signer. An empty secret is allowed (see
// IsInsecureSecret) but never silently replaced.
func NewSignerHS256(secret string) *HS256Signer {
	return &HS256Signer{secret: []byte(secret)}
}

func (s *HS256Signer) Alg() string { return jwt.SigningMethodHS256.Alg() }

// Sign produces base64url(header).base64url(payload).base64url(mac) with
// header {"alg":"HS256","typ":"JWT"}.
func (s *HS256Signer) Sign(claims Claims) (string, error) {
	if claims.Subject == "" {
		return "", errors.New("jwtx: missing subject")
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// IsInsecureSecret reports whether secret is empty or the placeholder.
func IsInsecureSecret(secret string) bool {
	return secret == "" || secret == InsecureDefaultSecret
}
