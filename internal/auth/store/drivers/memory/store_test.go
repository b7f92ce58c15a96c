package memory_test

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/logind/internal/auth/domain"
	"github.com/aussiebroadwan/logind/internal/auth/store"
	"github.com/aussiebroadwan/logind/internal/auth/store/drivers/memory"
	"github.com/aussiebroadwan/logind/internal/auth/store/storetest"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return memory.NewStore() })
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()

	id, err := s.Users().CreateUser(ctx, domain.User{Username: "alice", PasswordHash: "x"})
	require.NoError(t, err)

	s.DeleteUser(id)

	_, err = s.Users().GetUserByID(ctx, id)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.Users().GetUserByUsername(ctx, "alice")
	require.ErrorIs(t, err, store.ErrNotFound)
}
