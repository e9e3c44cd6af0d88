package testhelpers

import (
	"context"
	"time"

	"prizepool/domain/entities"

	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id entities.AccountID) (*entities.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, id entities.AccountID, initialBalance uint64) (*entities.Account, error) {
	args := m.Called(ctx, id, initialBalance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, id entities.AccountID, newBalance uint64) error {
	args := m.Called(ctx, id, newBalance)
	return args.Error(0)
}

// MockBalanceHistoryRepository is a mock implementation of BalanceHistoryRepository
type MockBalanceHistoryRepository struct {
	mock.Mock
}

func (m *MockBalanceHistoryRepository) Record(ctx context.Context, history *entities.BalanceHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockBalanceHistoryRepository) GetByAccount(ctx context.Context, id entities.AccountID, limit int) ([]*entities.BalanceHistory, error) {
	args := m.Called(ctx, id, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.BalanceHistory), args.Error(1)
}

// MockTicketRepository is a mock implementation of TicketRepository
type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) Create(ctx context.Context, ticket *entities.Ticket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *MockTicketRepository) GetByID(ctx context.Context, id int64) (*entities.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Ticket), args.Error(1)
}

func (m *MockTicketRepository) Burn(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockTicketRepository) CountLiveByOwner(ctx context.Context, owner entities.AccountID) (int64, error) {
	args := m.Called(ctx, owner)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTicketRepository) GetLiveByOwner(ctx context.Context, owner entities.AccountID) ([]*entities.Ticket, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Ticket), args.Error(1)
}

func (m *MockTicketRepository) GetEligible(ctx context.Context, boundary uint64) ([]*entities.Ticket, error) {
	args := m.Called(ctx, boundary)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Ticket), args.Error(1)
}

func (m *MockTicketRepository) CountLive(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockLotteryStateRepository is a mock implementation of LotteryStateRepository
type MockLotteryStateRepository struct {
	mock.Mock
}

func (m *MockLotteryStateRepository) Get(ctx context.Context) (*entities.LotteryState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LotteryState), args.Error(1)
}

func (m *MockLotteryStateRepository) GetForUpdate(ctx context.Context) (*entities.LotteryState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LotteryState), args.Error(1)
}

func (m *MockLotteryStateRepository) Create(ctx context.Context, state *entities.LotteryState) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

func (m *MockLotteryStateRepository) Update(ctx context.Context, state *entities.LotteryState) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

// MockTreasuryRepository is a mock implementation of TreasuryRepository
type MockTreasuryRepository struct {
	mock.Mock
}

func (m *MockTreasuryRepository) Get(ctx context.Context) (*entities.TreasuryLedger, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TreasuryLedger), args.Error(1)
}

func (m *MockTreasuryRepository) GetForUpdate(ctx context.Context) (*entities.TreasuryLedger, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TreasuryLedger), args.Error(1)
}

func (m *MockTreasuryRepository) Create(ctx context.Context, ledger *entities.TreasuryLedger) error {
	args := m.Called(ctx, ledger)
	return args.Error(0)
}

func (m *MockTreasuryRepository) Update(ctx context.Context, ledger *entities.TreasuryLedger) error {
	args := m.Called(ctx, ledger)
	return args.Error(0)
}

// MockDrawRepository is a mock implementation of DrawRepository
type MockDrawRepository struct {
	mock.Mock
}

func (m *MockDrawRepository) Create(ctx context.Context, record *entities.DrawRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockDrawRepository) GetRecent(ctx context.Context, limit int) ([]*entities.DrawRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.DrawRecord), args.Error(1)
}
