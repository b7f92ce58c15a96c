package authsdk

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrSessionClosed is returned by a Session after Close.
var ErrSessionClosed = errors.New("authsdk: session closed")

// Session holds a token pair and refreshes the access token shortly before
// it expires. Safe for concurrent use.
type Session struct {
	client *SDKClient

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	expiresAt    time.Time
	closed       bool
}

// setAccessToken stores token and reads its exp without verifying the
// signature; the client does not hold the signing secret. Tokens without a
// readable exp are treated as already expired.
func (s *Session) setAccessToken(token string) {
	s.accessToken = token
	s.expiresAt = time.Time{}
	if token == "" {
		return
	}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return
	}
	if claims.ExpiresAt != nil {
		s.expiresAt = claims.ExpiresAt.Time
	}
}

func (s *Session) fresh(now time.Time) bool {
	return s.accessToken != "" && now.Before(s.expiresAt.Add(-s.client.RefreshLeeway))
}

// AccessToken returns a valid access token, refreshing it first if it is
// within RefreshLeeway of expiry.
func (s *Session) AccessToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return "", ErrSessionClosed
	}
	if s.fresh(time.Now()) {
		token := s.accessToken
		s.mu.RUnlock()
		return token, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring write lock (another goroutine may have refreshed)
	if s.closed {
		return "", ErrSessionClosed
	}
	if s.fresh(time.Now()) {
		return s.accessToken, nil
	}

	if s.refreshToken == "" {
		return "", fmt.Errorf("access token expired and no refresh token available")
	}

	resp, err := s.client.Refresh(ctx, s.refreshToken)
	if err != nil {
		return "", fmt.Errorf("failed to refresh token: %w", err)
	}
	s.setAccessToken(resp.AccessToken)

	return s.accessToken, nil
}

// RefreshToken returns the refresh token backing this session.
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// ExpiresAt returns the exp of the current access token.
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

// Authorize sets "Authorization: Bearer <access token>" on req.
func (s *Session) Authorize(req *http.Request) error {
	token, err := s.AccessToken(req.Context())
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// Close logs out, revoking the refresh token. Later calls are no-ops.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	refreshToken := s.refreshToken
	s.accessToken = ""
	s.mu.Unlock()

	if refreshToken == "" {
		return nil
	}
	return s.client.Logout(ctx, refreshToken)
}
