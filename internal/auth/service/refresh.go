package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/logind/internal/auth/domain"
	"github.com/aussiebroadwan/logind/internal/auth/store"
	"github.com/aussiebroadwan/logind/pkg/cryptox"
	"github.com/aussiebroadwan/logind/pkg/jwtx"
	"github.com/aussiebroadwan/logind/pkg/slogx"
)

// maxIssueAttempts bounds retries after a token collision on the unique
// index.
const maxIssueAttempts = 3

// RefreshTokenManager owns the refresh token lifecycle:
// ACTIVE -> REVOKED (logout) and ACTIVE -> EXPIRED (time). Records are never
// deleted here.
type RefreshTokenManager struct {
	Store store.Store
	TTL   time.Duration
	Now   func() time.Time
}

func (m *RefreshTokenManager) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *RefreshTokenManager) ttl() time.Duration {
	if m.TTL > 0 {
		return m.TTL
	}
	return jwtx.DefaultRefreshTokenTTL
}

// Issue creates and persists a fresh refresh token for userID, valid until
// now + TTL.
func (m *RefreshTokenManager) Issue(ctx context.Context, userID int64) (string, error) {
	expiresAt := m.now().UTC().Add(m.ttl()).Truncate(time.Microsecond)

	for attempt := 1; ; attempt++ {
		token, err := cryptox.GenerateHexToken(cryptox.TokenSize128)
		if err != nil {
			return "", fmt.Errorf("generate refresh token: %w", err)
		}

		_, err = m.Store.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
			UserID:    userID,
			Token:     token,
			ExpiresAt: expiresAt,
		})
		switch {
		case err == nil:
			return token, nil
		case errors.Is(err, store.ErrAlreadyExists) && attempt < maxIssueAttempts:
			slogx.FromContext(ctx).Warn("refresh token collision, retrying", "attempt", attempt)
			continue
		default:
			return "", fmt.Errorf("store refresh token: %w", err)
		}
	}
}

// Validate returns the owner of an ACTIVE token. Anything else, including a
// token whose user has since disappeared, is ErrInvalidRefresh.
func (m *RefreshTokenManager) Validate(ctx context.Context, token string) (domain.User, error) {
	if token == "" {
		return domain.User{}, ErrInvalidRefresh
	}

	rt, err := m.Store.RefreshTokens().GetRefreshTokenByToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrInvalidRefresh
		}
		return domain.User{}, fmt.Errorf("load refresh token: %w", err)
	}

	if state := rt.StateAt(m.now()); state != domain.RefreshTokenActive {
		slogx.FromContext(ctx).Debug("refresh token rejected", "state", state.String(), "user_id", rt.UserID)
		return domain.User{}, ErrInvalidRefresh
	}

	u, err := m.Store.Users().GetUserByID(ctx, rt.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slogx.FromContext(ctx).Warn("refresh token owner missing", "user_id", rt.UserID)
			return domain.User{}, ErrInvalidRefresh
		}
		return domain.User{}, fmt.Errorf("load refresh token owner: %w", err)
	}
	return u, nil
}

// Revoke marks the token revoked. Unknown and already revoked tokens are a
// no-op, so repeated and concurrent calls all succeed.
func (m *RefreshTokenManager) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	changed, err := m.Store.RefreshTokens().RevokeRefreshToken(ctx, token)
	if err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	slogx.FromContext(ctx).Debug("refresh token revoke", "changed", changed)
	return nil
}
