package strategy

import (
	"context"
	"testing"

	"prizepool/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	owner    entities.AccountID = "owner"
	stranger entities.AccountID = "stranger"
)

func TestHoldStrategy_InvestAndWithdraw(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewHoldStrategy(HoldName, owner)

	require.NoError(t, s.Invest(ctx, owner, 1000))

	withdrawn, err := s.Withdraw(ctx, owner, 1000)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), withdrawn)

	balance, err := s.Balance(ctx)
	require.NoError(t, err)
	assert.Zero(t, balance)
}

func TestHoldStrategy_Withdraw(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		caller  entities.AccountID
		amount  uint64
		wantErr error
	}{
		{name: "owner within balance", caller: owner, amount: 400},
		{name: "owner exact balance", caller: owner, amount: 500},
		{name: "owner above balance", caller: owner, amount: 501, wantErr: entities.ErrInsufficientFunds},
		{name: "non-owner", caller: stranger, amount: 1, wantErr: entities.ErrNotOwner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			s := NewHoldStrategy(HoldName, owner)
			require.NoError(t, s.Invest(ctx, stranger, 500))

			got, err := s.Withdraw(ctx, tt.caller, tt.amount)
			balance, _ := s.Balance(ctx)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, uint64(500), balance)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.amount, got)
			assert.Equal(t, 500-tt.amount, balance)
		})
	}
}

func TestHoldStrategy_InvestZero(t *testing.T) {
	t.Parallel()

	s := NewHoldStrategy(HoldName, owner)
	assert.ErrorIs(t, s.Invest(context.Background(), owner, 0), entities.ErrInvalidAmount)
}

func TestHoldStrategy_AccrueIsYield(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewHoldStrategy(HoldName, owner)
	require.NoError(t, s.Invest(ctx, owner, 1))
	s.Accrue(1234567)

	balance, err := s.Balance(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1234568), balance)
}

func TestHoldStrategy_TransferOwnership(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewHoldStrategy(HoldName, owner)
	require.NoError(t, s.Invest(ctx, owner, 10))

	assert.ErrorIs(t, s.TransferOwnership(ctx, stranger, stranger), entities.ErrNotOwner)
	assert.Error(t, s.TransferOwnership(ctx, owner, ""))

	require.NoError(t, s.TransferOwnership(ctx, owner, "treasury"))
	assert.Equal(t, entities.AccountID("treasury"), s.Owner())

	_, err := s.Withdraw(ctx, owner, 10)
	assert.ErrorIs(t, err, entities.ErrNotOwner)

	got, err := s.Withdraw(ctx, "treasury", 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), got)
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	a := NewHoldStrategy("a", owner)
	b := NewHoldStrategy("b", owner)
	r := NewRegistry(b, a)

	got, ok := r.Get("a")
	require.True(t, ok)
	assert.Same(t, a, got)

	_, ok = r.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, []string{"a", "b"}, r.Names())
}
