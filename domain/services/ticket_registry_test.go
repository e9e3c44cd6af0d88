package services_test

import (
	"context"
	"testing"

	"prizepool/domain/entities"
	"prizepool/domain/services"
	"prizepool/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketRegistry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	uow := memory.NewUnitOfWorkFactory(memory.NewStore()).CreateWithPublisher(nil)
	require.NoError(t, uow.Begin(ctx))
	defer uow.Rollback()
	registry := services.NewTicketRegistry(uow.TicketRepository())

	first, err := registry.Mint(ctx, "alice", 0, 10)
	require.NoError(t, err)
	second, err := registry.Mint(ctx, "alice", 3, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.Equal(t, uint64(3), second.MintedAtEpoch)

	_, err = registry.Mint(ctx, "", 0, 10)
	assert.Error(t, err)

	owner, err := registry.OwnerOf(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.AccountID("alice"), owner)

	count, err := registry.BalanceOf(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = registry.BalanceOf(ctx, "nobody")
	require.NoError(t, err)
	assert.Zero(t, count)

	burned, err := registry.Burn(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, burned.IsLive())
	assert.Empty(t, burned.Owner)

	_, err = registry.Burn(ctx, first.ID)
	assert.ErrorIs(t, err, entities.ErrAlreadyBurned)

	_, err = registry.Burn(ctx, 42)
	assert.ErrorIs(t, err, entities.ErrNotFound)

	_, err = registry.OwnerOf(ctx, 42)
	assert.ErrorIs(t, err, entities.ErrNotFound)
	assert.NotErrorIs(t, err, entities.ErrAlreadyBurned)

	tickets, err := registry.TicketsOf(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, second.ID, tickets[0].ID)

	// A third mint never reuses the burned ID
	third, err := registry.Mint(ctx, "bob", 3, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), third.ID)

	eligible, err := registry.Eligible(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, eligible, 2)
}

func TestCryptoRandomness(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	source := services.NewCryptoRandomness()

	seen := make(map[int]bool)
	for range 200 {
		index, err := source.Sample(ctx, 3)
		require.NoError(t, err)
		require.GreaterOrEqual(t, index, 0)
		require.Less(t, index, 3)
		seen[index] = true
	}
	assert.Len(t, seen, 3)

	_, err := source.Sample(ctx, 0)
	assert.Error(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = source.Sample(cancelled, 3)
	assert.ErrorIs(t, err, context.Canceled)
}
