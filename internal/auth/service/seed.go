package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/logind/internal/auth/domain"
	"github.com/aussiebroadwan/logind/internal/auth/store"
	"github.com/aussiebroadwan/logind/pkg/cryptox"
)

// DefaultDemoUser is created at startup when demo seeding is enabled.
var DefaultDemoUser = domain.DemoUser{Username: "M.Koike", Password: "pass0000"}

// SeedService creates the demo account on an empty deployment.
type SeedService struct {
	Store     store.Store
	Algorithm cryptox.Algorithm
	Logger    *slog.Logger
}

// SeedDemoUser creates u unless a user with that name already exists.
// Reports whether a user was created. Safe to run from several instances at
// once: losing the insert race counts as already seeded.
func (s *SeedService) SeedDemoUser(ctx context.Context, u domain.DemoUser) (bool, error) {
	_, err := s.Store.Users().GetUserByUsername(ctx, u.Username)
	if err == nil {
		s.Logger.Debug("demo user already present", "user_name", u.Username)
		return false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return false, fmt.Errorf("lookup demo user: %w", err)
	}

	alg := s.Algorithm
	if alg == "" {
		alg = cryptox.AlgBcrypt
	}
	hash, err := cryptox.HashPasswordWith(alg, u.Password)
	if err != nil {
		return false, fmt.Errorf("hash demo user password: %w", err)
	}

	id, err := s.Store.Users().CreateUser(ctx, domain.User{Username: u.Username, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return false, nil
		}
		return false, fmt.Errorf("create demo user: %w", err)
	}

	s.Logger.Info("demo user created", "user_name", u.Username, "user_id", id)
	return true, nil
}
