package services_test

import (
	"context"
	"testing"

	"prizepool/application"
	"prizepool/domain/entities"
	"prizepool/domain/interfaces"
	"prizepool/domain/services"
	"prizepool/domain/strategy"
	"prizepool/domain/testhelpers"
	"prizepool/repository/memory"

	"github.com/stretchr/testify/require"
)

const (
	testOwner    entities.AccountID = "owner"
	testTreasury entities.AccountID = "treasury"
	testPrice    uint64             = 100_000_000_000_000_000
	testStarting uint64             = 10 * testPrice
)

// testEnv wires real services over one open in-memory unit of work
type testEnv struct {
	uow       application.UnitOfWork
	publisher *testhelpers.RecordingPublisher
	hold      *strategy.HoldStrategy
	registry  *strategy.Registry
	accounts  interfaces.AccountService
	tickets   interfaces.TicketRegistry
	treasury  interfaces.TreasuryService
	lottery   interfaces.LotteryService
}

type envOption func(*envConfig)

type envConfig struct {
	strategyName string
	randomness   interfaces.RandomnessSource
}

func withStrategy(name string) envOption {
	return func(c *envConfig) { c.strategyName = name }
}

func withRandomness(r interfaces.RandomnessSource) envOption {
	return func(c *envConfig) { c.randomness = r }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	cfg := envConfig{randomness: testhelpers.FixedRandomness(0)}
	for _, opt := range opts {
		opt(&cfg)
	}

	uow := memory.NewUnitOfWorkFactory(memory.NewStore()).CreateWithPublisher(nil)
	require.NoError(t, uow.Begin(context.Background()))
	t.Cleanup(func() { _ = uow.Rollback() })

	env := &testEnv{
		uow:       uow,
		publisher: &testhelpers.RecordingPublisher{},
		hold:      strategy.NewHoldStrategy(strategy.HoldName, testTreasury),
	}
	env.registry = strategy.NewRegistry(env.hold, strategy.NewHoldStrategy("vault", testTreasury))
	env.accounts = services.NewAccountService(uow.AccountRepository(), uow.BalanceHistoryRepository(), env.publisher, testStarting)
	env.tickets = services.NewTicketRegistry(uow.TicketRepository())
	env.treasury = services.NewTreasuryService(uow.TreasuryRepository(), uow.LotteryStateRepository(), env.tickets, env.accounts, env.registry, env.publisher)
	env.lottery = services.NewLotteryService(uow.LotteryStateRepository(), uow.DrawRepository(), env.tickets, env.treasury, env.accounts, cfg.randomness, env.publisher)

	ctx := context.Background()
	_, err := env.lottery.Initialize(ctx, testOwner, testPrice)
	require.NoError(t, err)
	_, err = env.treasury.Initialize(ctx, testOwner, testTreasury, cfg.strategyName)
	require.NoError(t, err)
	return env
}

func (e *testEnv) balance(t *testing.T, id entities.AccountID) uint64 {
	t.Helper()
	account, err := e.accounts.GetOrCreateAccount(context.Background(), id)
	require.NoError(t, err)
	return account.Balance
}

func (e *testEnv) buy(t *testing.T, caller entities.AccountID) *entities.Ticket {
	t.Helper()
	ticket, err := e.lottery.Purchase(context.Background(), caller, testPrice)
	require.NoError(t, err)
	return ticket
}

func (e *testEnv) holdings(t *testing.T) uint64 {
	t.Helper()
	holdings, err := e.treasury.Holdings(context.Background())
	require.NoError(t, err)
	return holdings
}
