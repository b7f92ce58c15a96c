package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

var (
	ErrMalformed  = errors.New("jwtx: malformed token")
	ErrInvalidSig = errors.New("jwtx: invalid signature")

	ErrExpired      = errors.New("jwtx: token expired")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

// HS256Verifier checks tokens minted by HS256Signer. The service itself
// never gates requests on access tokens; this is what a resource server (or
// a test) uses to decode them.
type HS256Verifier struct {
	secret []byte
	leeway time.Duration
	now    func() time.Time
}

// VerifierOption customises an HS256Verifier.
type VerifierOption func(*HS256Verifier)

// WithLeeway tolerates clock skew when checking exp.
func WithLeeway(d time.Duration) VerifierOption {
	return func(v *HS256Verifier) { v.leeway = d }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) VerifierOption {
	return func(v *HS256Verifier) { v.now = now }
}

func NewVerifierHS256(secret string, opts ...VerifierOption) *HS256Verifier {
	v := &HS256Verifier{secret: []byte(secret), now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify checks the signature, the algorithm and exp, then returns the claims.
func (v *HS256Verifier) Verify(tokenStr string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
		jwt.WithTimeFunc(v.now),
	)

	var claims Claims
	_, err := parser.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return Claims{}, mapParseError(err)
	}

	if claims.Subject == "" {
		return Claims{}, ErrInvalidClaim
	}
	return claims, nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		// Also covers tokens signed with any algorithm other than HS256.
		return ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing), errors.Is(err, jwt.ErrTokenInvalidClaims):
		return fmt.Errorf("%w: %v", ErrInvalidClaim, err)
	default:
		return err
	}
}
