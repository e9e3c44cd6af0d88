package application_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"prizepool/application"
	"prizepool/domain/entities"
	"prizepool/domain/events"
	"prizepool/domain/strategy"
	"prizepool/domain/testhelpers"
	"prizepool/infrastructure"
	"prizepool/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	owner    entities.AccountID = "owner"
	treasury entities.AccountID = "treasury"
	alice    entities.AccountID = "alice"
	bob      entities.AccountID = "bob"
	price    uint64             = 1_000_000_000_000_000_000
	starting uint64             = 10 * price
)

type fixture struct {
	store     *memory.Store
	publisher *testhelpers.RecordingPublisher
	hold      *strategy.HoldStrategy
	handler   *application.LotteryHandler
}

func newFixture(t *testing.T, strategyName string) *fixture {
	t.Helper()

	f := &fixture{
		store:     memory.NewStore(),
		publisher: &testhelpers.RecordingPublisher{},
		hold:      strategy.NewHoldStrategy(strategy.HoldName, treasury),
	}
	f.handler = f.newHandler(f.hold, testhelpers.FixedRandomness(0))

	_, _, err := f.handler.Initialize(context.Background(), application.LotterySettings{
		Owner:       owner,
		Treasury:    treasury,
		TicketPrice: price,
		Strategy:    strategyName,
	})
	require.NoError(t, err)
	return f
}

func (f *fixture) newHandler(hold *strategy.HoldStrategy, randomness testhelpers.FixedRandomness) *application.LotteryHandler {
	factory := infrastructure.NewUnitOfWorkFactory(memory.NewUnitOfWorkFactory(f.store), f.publisher)
	return application.NewLotteryHandler(factory, strategy.NewRegistry(hold), randomness, starting)
}

func (f *fixture) balance(t *testing.T, id entities.AccountID) uint64 {
	t.Helper()
	account, err := f.handler.Account(context.Background(), id)
	require.NoError(t, err)
	return account.Balance
}

func (f *fixture) buy(t *testing.T, id entities.AccountID) int64 {
	t.Helper()
	ticket, err := f.handler.Purchase(context.Background(), id, price)
	require.NoError(t, err)
	return ticket.ID
}

func TestPurchase_WrongPayment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payment uint64
	}{
		{"no payment", 0},
		{"too little", price - price/100},
		{"too much", 2 * price},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t, "")

			_, err := f.handler.Purchase(context.Background(), owner, tt.payment)
			assert.ErrorIs(t, err, entities.ErrInvalidAmount)
		})
	}
}

func TestPurchase_Ownership(t *testing.T) {
	t.Parallel()
	f := newFixture(t, "")
	ctx := context.Background()

	ticketID := f.buy(t, owner)

	count, err := f.handler.BalanceOf(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	holder, err := f.handler.OwnerOf(ctx, ticketID)
	require.NoError(t, err)
	assert.Equal(t, owner, holder)
}

func TestRefund_Scenarios(t *testing.T) {
	t.Parallel()

	t.Run("not owner", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, "")
		ticketID := f.buy(t, owner)

		_, err := f.handler.Refund(context.Background(), alice, ticketID)
		assert.ErrorIs(t, err, entities.ErrNotOwner)
	})

	t.Run("returns the full price", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, "")
		start := f.balance(t, owner)

		ticketID := f.buy(t, owner)
		assert.Equal(t, start-price, f.balance(t, owner))

		_, err := f.handler.Refund(context.Background(), owner, ticketID)
		require.NoError(t, err)
		assert.Equal(t, start, f.balance(t, owner))
	})

	t.Run("burned ticket", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, "")
		ticketID := f.buy(t, owner)

		_, err := f.handler.Refund(context.Background(), owner, ticketID)
		require.NoError(t, err)
		_, err = f.handler.Refund(context.Background(), owner, ticketID)
		assert.ErrorIs(t, err, entities.ErrAlreadyBurned)
	})

	t.Run("never minted", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, "")

		_, err := f.handler.Refund(context.Background(), owner, 0)
		assert.ErrorIs(t, err, entities.ErrNotFound)
	})

	t.Run("with strategy", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, strategy.HoldName)
		ticketID := f.buy(t, owner)

		_, err := f.handler.Refund(context.Background(), owner, ticketID)
		require.NoError(t, err)
		balance, err := f.hold.Balance(context.Background())
		require.NoError(t, err)
		assert.Zero(t, balance)
	})
}

func TestTreasuryWithdraw_Scenarios(t *testing.T) {
	t.Parallel()
	half := price / 2

	t.Run("not owner", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, "")

		err := f.handler.TreasuryWithdraw(context.Background(), alice, alice, half)
		assert.ErrorIs(t, err, entities.ErrNotOwner)
	})

	t.Run("pays the recipient", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, "")
		ctx := context.Background()

		require.NoError(t, f.handler.TreasuryDeposit(ctx, owner, price))
		start := f.balance(t, alice)

		require.NoError(t, f.handler.TreasuryWithdraw(ctx, owner, alice, half))
		assert.Equal(t, start+half, f.balance(t, alice))
	})

	t.Run("no funds", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, "")

		err := f.handler.TreasuryWithdraw(context.Background(), owner, owner, half)
		assert.ErrorIs(t, err, entities.ErrInsufficientFunds)
	})
}

func TestEligibility_AcrossDraws(t *testing.T) {
	t.Parallel()

	t.Run("new mint eligible for first draw", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, "")
		ticketID := f.buy(t, owner)

		eligible, err := f.handler.IsEligible(context.Background(), ticketID)
		require.NoError(t, err)
		assert.True(t, eligible)
	})

	t.Run("mint after a draw waits", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, "")
		ctx := context.Background()
		f.buy(t, owner)
		_, err := f.handler.Draw(ctx, owner)
		require.NoError(t, err)

		late := f.buy(t, owner)
		eligible, err := f.handler.IsEligible(ctx, late)
		require.NoError(t, err)
		assert.False(t, eligible)

		// The late ticket joins the draw after next
		_, err = f.handler.Draw(ctx, owner)
		require.NoError(t, err)
		eligible, err = f.handler.IsEligible(ctx, late)
		require.NoError(t, err)
		assert.True(t, eligible)
	})

	t.Run("refunded ticket", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, "")
		ctx := context.Background()
		ticketID := f.buy(t, owner)
		_, err := f.handler.Draw(ctx, owner)
		require.NoError(t, err)
		_, err = f.handler.Refund(ctx, owner, ticketID)
		require.NoError(t, err)

		eligible, err := f.handler.IsEligible(ctx, ticketID)
		require.NoError(t, err)
		assert.False(t, eligible)
	})
}

func TestDraw_Scenarios(t *testing.T) {
	t.Parallel()

	t.Run("no tickets", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, "")

		_, err := f.handler.Draw(context.Background(), owner)
		assert.ErrorIs(t, err, entities.ErrNoEligibleTickets)
	})

	t.Run("single ticket wins", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, "")
		ticketID := f.buy(t, owner)

		result, err := f.handler.Draw(context.Background(), owner)
		require.NoError(t, err)
		assert.Equal(t, ticketID, result.Record.WinningTicketID)

		winner, err := f.handler.LastWinner(context.Background())
		require.NoError(t, err)
		require.NotNil(t, winner)
		assert.Equal(t, ticketID, *winner)
	})

	t.Run("one of two wins", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, "")
		first, second := f.buy(t, owner), f.buy(t, owner)
		f.handler = f.newHandler(f.hold, testhelpers.FixedRandomness(1))

		result, err := f.handler.Draw(context.Background(), owner)
		require.NoError(t, err)
		assert.Contains(t, []int64{first, second}, result.Record.WinningTicketID)
		assert.Equal(t, second, result.Record.WinningTicketID)
	})

	t.Run("history", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, "")
		ctx := context.Background()
		f.buy(t, owner)
		for i := 0; i < 3; i++ {
			_, err := f.handler.Draw(ctx, alice)
			require.NoError(t, err)
		}

		draws, err := f.handler.RecentDraws(ctx, 2)
		require.NoError(t, err)
		require.Len(t, draws, 2)
		assert.Equal(t, uint64(3), draws[0].DrawNumber)
		assert.Equal(t, alice, draws[0].DrawnBy)
	})
}

func TestWithdrawWinnings_Scenarios(t *testing.T) {
	t.Parallel()

	t.Run("not owner", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, "")
		ticketID := f.buy(t, owner)

		_, err := f.handler.WithdrawWinnings(context.Background(), alice, ticketID)
		assert.ErrorIs(t, err, entities.ErrNotOwner)
	})

	t.Run("nothing to win", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, "")
		ctx := context.Background()
		ticketID := f.buy(t, owner)
		_, err := f.handler.Draw(ctx, owner)
		require.NoError(t, err)

		_, err = f.handler.WithdrawWinnings(ctx, owner, ticketID)
		assert.ErrorIs(t, err, entities.ErrNoFunds)
	})

	t.Run("winner collects the yield", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, strategy.HoldName)
		ctx := context.Background()
		winning := f.buy(t, alice)
		f.buy(t, bob)

		const yield = 1234567
		f.hold.Accrue(yield)
		prize, err := f.handler.CurrentPrize(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(yield), prize)

		_, err = f.handler.Draw(ctx, bob)
		require.NoError(t, err)
		start := f.balance(t, alice)

		paid, err := f.handler.WithdrawWinnings(ctx, alice, winning)
		require.NoError(t, err)
		assert.Equal(t, uint64(yield), paid)
		assert.Equal(t, start+yield, f.balance(t, alice))

		_, err = f.handler.WithdrawWinnings(ctx, alice, winning)
		assert.ErrorIs(t, err, entities.ErrNoFunds)

		holdings, err := f.handler.Holdings(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2*price, holdings)
	})
}

func TestCurrentPrize_WithStrategy(t *testing.T) {
	t.Parallel()

	f := newFixture(t, strategy.HoldName)
	ctx := context.Background()

	prize, err := f.handler.CurrentPrize(ctx)
	require.NoError(t, err)
	assert.Zero(t, prize, "no tickets")

	f.buy(t, owner)
	prize, err = f.handler.CurrentPrize(ctx)
	require.NoError(t, err)
	assert.Zero(t, prize, "no yield")
}

func TestSetStrategy(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "")
	ctx := context.Background()
	f.buy(t, owner)

	err := f.handler.SetStrategy(ctx, alice, strategy.HoldName)
	assert.ErrorIs(t, err, entities.ErrNotOwner)

	require.NoError(t, f.handler.SetStrategy(ctx, owner, strategy.HoldName))
	ledger, err := f.handler.Ledger(ctx)
	require.NoError(t, err)
	assert.Equal(t, strategy.HoldName, ledger.StrategyName)
	assert.Zero(t, ledger.Idle)

	balance, err := f.hold.Balance(ctx)
	require.NoError(t, err)
	assert.Equal(t, price, balance)

	err = f.handler.SetStrategy(ctx, owner, "missing")
	assert.ErrorIs(t, err, entities.ErrUnknownStrategy)
}

func TestGrant(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "")
	ctx := context.Background()
	start := f.balance(t, alice)

	_, err := f.handler.Grant(ctx, alice, alice, price)
	assert.ErrorIs(t, err, entities.ErrNotOwner)

	account, err := f.handler.Grant(ctx, owner, alice, price)
	require.NoError(t, err)
	assert.Equal(t, start+price, account.Balance)

	history, err := f.handler.BalanceHistory(ctx, alice, 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, entities.TransactionTypeGrant, history[0].TransactionType)
}

func TestInitialize_RestartRestoresStrategy(t *testing.T) {
	t.Parallel()

	f := newFixture(t, strategy.HoldName)
	ctx := context.Background()
	f.buy(t, alice)
	f.buy(t, bob)

	// A new process gets a fresh in-memory strategy
	restarted := strategy.NewHoldStrategy(strategy.HoldName, treasury)
	f.handler = f.newHandler(restarted, testhelpers.FixedRandomness(0))
	state, ledger, err := f.handler.Initialize(ctx, application.LotterySettings{
		Owner:       owner,
		Treasury:    treasury,
		TicketPrice: 2 * price,
		Strategy:    strategy.HoldName,
	})
	require.NoError(t, err)

	assert.Equal(t, price, state.TicketPrice, "stored price is kept")
	assert.Equal(t, 2*price, ledger.Invested)
	balance, err := restarted.Balance(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2*price, balance)
}

func TestOperations_RollBackOnError(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "")
	ctx := context.Background()
	before := len(f.publisher.Events)

	// Spend the whole starting balance, then try once more
	for i := uint64(0); i < starting/price; i++ {
		f.buy(t, alice)
	}
	_, err := f.handler.Purchase(ctx, alice, price)
	assert.ErrorIs(t, err, entities.ErrInsufficientFunds)

	count, err := f.handler.BalanceOf(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(starting/price), count)
	assert.Zero(t, f.balance(t, alice))

	purchased := 0
	for _, event := range f.publisher.Events[before:] {
		if event.Type() == events.EventTypeTicketPurchased {
			purchased++
		}
	}
	assert.Equal(t, int(starting/price), purchased, "failed purchase publishes nothing")
}

var errCommitFailed = errors.New("commit failed")

// failingCommitFactory hands out units of work whose commit always fails
// after rolling back
type failingCommitFactory struct {
	inner application.UnitOfWorkFactory
}

func (f failingCommitFactory) Create() application.UnitOfWork {
	return &failingCommitUnitOfWork{UnitOfWork: f.inner.Create()}
}

type failingCommitUnitOfWork struct {
	application.UnitOfWork
}

func (u *failingCommitUnitOfWork) Commit() error {
	_ = u.UnitOfWork.Rollback()
	return errCommitFailed
}

// observable is everything a caller can see of the lottery
type observable struct {
	strategyBalance uint64
	vaultBalance    uint64
	aliceBalance    uint64
	aliceTickets    int64
	ledger          entities.TreasuryLedger
	state           entities.LotteryState
	events          int
}

func (f *fixture) observe(t *testing.T, vault *strategy.HoldStrategy) observable {
	t.Helper()
	ctx := context.Background()

	strategyBalance, err := f.hold.Balance(ctx)
	require.NoError(t, err)
	vaultBalance, err := vault.Balance(ctx)
	require.NoError(t, err)
	tickets, err := f.handler.BalanceOf(ctx, alice)
	require.NoError(t, err)
	ledger, err := f.handler.Ledger(ctx)
	require.NoError(t, err)
	state, err := f.handler.State(ctx)
	require.NoError(t, err)

	return observable{
		strategyBalance: strategyBalance,
		vaultBalance:    vaultBalance,
		aliceBalance:    f.balance(t, alice),
		aliceTickets:    tickets,
		ledger:          *ledger,
		state:           *state,
		events:          len(f.publisher.Events),
	}
}

func TestOperations_FailureAfterStrategyMovementRestoresFunds(t *testing.T) {
	t.Parallel()

	const yield = 1234567

	tests := []struct {
		name string
		run  func(ctx context.Context, h *application.LotteryHandler) error
	}{
		{
			name: "purchase",
			run: func(ctx context.Context, h *application.LotteryHandler) error {
				_, err := h.Purchase(ctx, alice, price)
				return err
			},
		},
		{
			name: "refund",
			run: func(ctx context.Context, h *application.LotteryHandler) error {
				_, err := h.Refund(ctx, alice, 2)
				return err
			},
		},
		{
			name: "treasury withdraw",
			run: func(ctx context.Context, h *application.LotteryHandler) error {
				return h.TreasuryWithdraw(ctx, owner, bob, price)
			},
		},
		{
			name: "treasury deposit",
			run: func(ctx context.Context, h *application.LotteryHandler) error {
				return h.TreasuryDeposit(ctx, alice, price)
			},
		},
		{
			name: "withdraw winnings",
			run: func(ctx context.Context, h *application.LotteryHandler) error {
				_, err := h.WithdrawWinnings(ctx, alice, 1)
				return err
			},
		},
		{
			name: "set strategy",
			run: func(ctx context.Context, h *application.LotteryHandler) error {
				return h.SetStrategy(ctx, owner, "vault")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()

			f := newFixture(t, strategy.HoldName)
			vault := strategy.NewHoldStrategy("vault", treasury)
			f.buy(t, alice)
			f.buy(t, alice)
			_, err := f.handler.Draw(ctx, owner)
			require.NoError(t, err)
			f.hold.Accrue(yield)

			before := f.observe(t, vault)

			failing := application.NewLotteryHandler(
				failingCommitFactory{inner: infrastructure.NewUnitOfWorkFactory(memory.NewUnitOfWorkFactory(f.store), f.publisher)},
				strategy.NewRegistry(f.hold, vault),
				testhelpers.FixedRandomness(0),
				starting,
			)
			err = tt.run(ctx, failing)
			require.ErrorIs(t, err, errCommitFailed)

			assert.Equal(t, before, f.observe(t, vault))

			// Principal is still fully backed
			for _, id := range []int64{1, 2} {
				_, err := f.handler.Refund(ctx, alice, id)
				require.NoError(t, err)
			}
		})
	}
}

func TestTreasuryWithdraw_InvalidRecipientKeepsStrategyFunds(t *testing.T) {
	t.Parallel()

	f := newFixture(t, strategy.HoldName)
	ctx := context.Background()
	ticketID := f.buy(t, alice)

	err := f.handler.TreasuryWithdraw(ctx, owner, "", price)
	require.Error(t, err)

	balance, err := f.hold.Balance(ctx)
	require.NoError(t, err)
	assert.Equal(t, price, balance)

	_, err = f.handler.Refund(ctx, alice, ticketID)
	require.NoError(t, err)
	assert.Equal(t, starting, f.balance(t, alice))
}

// callbackStrategy calls back into the lottery while the treasury is investing
type callbackStrategy struct {
	*strategy.HoldStrategy
	handler *application.LotteryHandler
	err     error
}

func (s *callbackStrategy) Invest(ctx context.Context, caller entities.AccountID, amount uint64) error {
	if _, err := s.handler.State(ctx); err != nil {
		s.err = err
		return err
	}
	return s.HoldStrategy.Invest(ctx, caller, amount)
}

func TestHandler_RejectsReentrantCalls(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	publisher := &testhelpers.RecordingPublisher{}
	callback := &callbackStrategy{HoldStrategy: strategy.NewHoldStrategy("callback", treasury)}
	handler := application.NewLotteryHandler(
		infrastructure.NewUnitOfWorkFactory(memory.NewUnitOfWorkFactory(store), publisher),
		strategy.NewRegistry(callback),
		testhelpers.FixedRandomness(0),
		starting,
	)
	callback.handler = handler

	ctx := context.Background()
	_, _, err := handler.Initialize(ctx, application.LotterySettings{
		Owner:       owner,
		Treasury:    treasury,
		TicketPrice: price,
		Strategy:    "callback",
	})
	require.NoError(t, err)

	_, err = handler.Purchase(ctx, alice, price)
	assert.ErrorIs(t, err, entities.ErrReentrantCall)
	assert.True(t, errors.Is(callback.err, entities.ErrReentrantCall))

	// Nothing from the failed purchase survives
	account, err := handler.Account(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, starting, account.Balance)
	count, err := handler.BalanceOf(ctx, alice)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestHandler_ConcurrentPurchases(t *testing.T) {
	t.Parallel()

	f := newFixture(t, strategy.HoldName)
	ctx := context.Background()
	buyers := []entities.AccountID{"p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8"}

	var wg sync.WaitGroup
	for _, buyer := range buyers {
		wg.Add(1)
		go func(id entities.AccountID) {
			defer wg.Done()
			for i := 0; i < 5; i++ {
				_, err := f.handler.Purchase(ctx, id, price)
				assert.NoError(t, err)
			}
		}(buyer)
	}
	wg.Wait()

	ledger, err := f.handler.Ledger(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(len(buyers)*5)*price, ledger.TotalPrincipal)

	holdings, err := f.handler.Holdings(ctx)
	require.NoError(t, err)
	assert.Equal(t, ledger.TotalPrincipal, holdings)
}
