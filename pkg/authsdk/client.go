package authsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the login service.
// It provides the raw endpoint calls and can create authenticated Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client

	// RefreshLeeway is how long before exp a Session refreshes its access
	// token. Default: 30 seconds.
	RefreshLeeway time.Duration
}

// NewSDKClient creates a new client for the service at baseURL.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		RefreshLeeway: 30 * time.Second,
	}
}

// Authenticate logs in and wraps the resulting token pair in a Session.
func (c *SDKClient) Authenticate(ctx context.Context, username, password string) (*Session, error) {
	pair, err := c.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return c.NewSessionFromTokens(pair.AccessToken, pair.RefreshToken), nil
}

// NewSessionFromTokens creates a Session from tokens obtained elsewhere (for
// example persisted by a previous run). accessToken may be empty; the first
// AccessToken call then refreshes.
func (c *SDKClient) NewSessionFromTokens(accessToken, refreshToken string) *Session {
	s := &Session{
		client:       c,
		refreshToken: refreshToken,
	}
	s.setAccessToken(accessToken)
	return s
}

// Login exchanges a username and password for a token pair.
// Returns ErrInvalidUser on bad credentials.
func (c *SDKClient) Login(ctx context.Context, username, password string) (*TokenResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/auth/login", LoginRequest{
		UserName: username,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	var out TokenResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh exchanges a refresh token for a new access token. The refresh
// token stays the same. Returns ErrInvalidUser if the refresh token is
// unknown, expired or revoked.
func (c *SDKClient) Refresh(ctx context.Context, refreshToken string) (*AccessTokenResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/auth/refresh", RefreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return nil, err
	}

	var out AccessTokenResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes a refresh token. The server answers 200 for any token, so
// an error here means the request itself failed.
func (c *SDKClient) Logout(ctx context.Context, refreshToken string) error {
	resp, err := c.doJSON(ctx, http.MethodPost, "/auth/logout", RefreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return err
	}

	var out MessageResponse
	return decodeJSON(resp, &out, http.StatusOK)
}
