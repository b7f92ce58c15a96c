package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aussiebroadwan/logind/internal/auth/domain"
	"github.com/aussiebroadwan/logind/internal/auth/store"
	"github.com/aussiebroadwan/logind/pkg/cryptox"
	"github.com/aussiebroadwan/logind/pkg/jwtx"
	"github.com/aussiebroadwan/logind/pkg/slogx"
)

type AuthService struct {
	Store         store.Store
	Signer        jwtx.Signer
	RefreshTokens *RefreshTokenManager
	AccessTTL     time.Duration
	Now           func() time.Time

	// Algorithm is the scheme new passwords are hashed with. Unknown-user
	// logins verify against a dummy hash of the same scheme. Empty means bcrypt.
	Algorithm cryptox.Algorithm

	dummyOnce sync.Once
	dummy     string
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *AuthService) accessTTL() time.Duration {
	if s.AccessTTL > 0 {
		return s.AccessTTL
	}
	return jwtx.DefaultAccessTokenTTL
}

// Login verifies a username/password pair and issues an access token plus a
// new refresh token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Spend the same hashing work as a real verify.
			_ = cryptox.VerifyPassword(password, s.dummyHash())
			l.Info("login failed", "reason", "unknown_user")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrMismatch) {
			l.Error("stored password hash unusable", "user_id", u.ID, "error", err)
		}
		l.Info("login failed", "reason", "bad_password", "user_id", u.ID)
		return nil, ErrInvalidCredentials
	}

	access, err := s.signAccess(u)
	if err != nil {
		return nil, err
	}

	refresh, err := s.RefreshTokens.Issue(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	l.Info("login succeeded", "user_id", u.ID)
	return &domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh exchanges an active refresh token for a new access token. The
// refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.AccessToken, error) {
	u, err := s.RefreshTokens.Validate(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	access, err := s.signAccess(u)
	if err != nil {
		return nil, err
	}
	return &domain.AccessToken{AccessToken: access}, nil
}

// Logout revokes the refresh token. The returned error is for logging only;
// logout always succeeds from the caller's point of view.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.RefreshTokens.Revoke(ctx, refreshToken)
}

func (s *AuthService) signAccess(u domain.User) (string, error) {
	claims := jwtx.NewAccessClaims(u.ID, u.Username, s.accessTTL(), s.now())
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return token, nil
}

// dummyHash is a hash of a random string in the configured scheme, used to
// keep unknown-user logins as slow as real ones.
func (s *AuthService) dummyHash() string {
	s.dummyOnce.Do(func() {
		alg := s.Algorithm
		if alg == "" {
			alg = cryptox.AlgBcrypt
		}
		pw, err := cryptox.GenerateToken(cryptox.TokenSize128)
		if err != nil {
			pw = "dummy"
		}
		s.dummy, _ = cryptox.HashPasswordWith(alg, pw)
	})
	return s.dummy
}
