package interfaces

import (
	"context"
	"time"

	"prizepool/domain/entities"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	// GetByID retrieves an account, returning nil if it does not exist
	GetByID(ctx context.Context, id entities.AccountID) (*entities.Account, error)

	// Create creates a new account with the initial balance
	Create(ctx context.Context, id entities.AccountID, initialBalance uint64) (*entities.Account, error)

	// UpdateBalance sets an account's balance
	UpdateBalance(ctx context.Context, id entities.AccountID, newBalance uint64) error
}

// BalanceHistoryRepository defines the interface for balance history tracking
type BalanceHistoryRepository interface {
	// Record creates a new balance history entry
	Record(ctx context.Context, history *entities.BalanceHistory) error

	// GetByAccount returns the most recent balance history for an account
	GetByAccount(ctx context.Context, id entities.AccountID, limit int) ([]*entities.BalanceHistory, error)
}

// TicketRepository defines the interface for ticket data access
type TicketRepository interface {
	// Create stores a new ticket, assigning its ID and purchase time
	Create(ctx context.Context, ticket *entities.Ticket) error

	// GetByID retrieves a ticket, live or burned, returning nil if it was never minted
	GetByID(ctx context.Context, id int64) (*entities.Ticket, error)

	// Burn clears the owner of a live ticket
	Burn(ctx context.Context, id int64, at time.Time) error

	// CountLiveByOwner returns the number of live tickets held by owner
	CountLiveByOwner(ctx context.Context, owner entities.AccountID) (int64, error)

	// GetLiveByOwner returns the live tickets held by owner ordered by ID
	GetLiveByOwner(ctx context.Context, owner entities.AccountID) ([]*entities.Ticket, error)

	// GetEligible returns live tickets minted at or before boundary ordered by ID
	GetEligible(ctx context.Context, boundary uint64) ([]*entities.Ticket, error)

	// CountLive returns the number of live tickets
	CountLive(ctx context.Context) (int64, error)
}

// LotteryStateRepository defines the interface for the controller's singleton state
type LotteryStateRepository interface {
	// Get returns the state, or nil before initialization
	Get(ctx context.Context) (*entities.LotteryState, error)

	// GetForUpdate returns the state and locks it until the unit of work ends
	GetForUpdate(ctx context.Context) (*entities.LotteryState, error)

	// Create stores the initial state
	Create(ctx context.Context, state *entities.LotteryState) error

	// Update persists the state
	Update(ctx context.Context, state *entities.LotteryState) error
}

// TreasuryRepository defines the interface for the treasury's singleton ledger
type TreasuryRepository interface {
	// Get returns the ledger, or nil before initialization
	Get(ctx context.Context) (*entities.TreasuryLedger, error)

	// GetForUpdate returns the ledger and locks it until the unit of work ends
	GetForUpdate(ctx context.Context) (*entities.TreasuryLedger, error)

	// Create stores the initial ledger
	Create(ctx context.Context, ledger *entities.TreasuryLedger) error

	// Update persists the ledger
	Update(ctx context.Context, ledger *entities.TreasuryLedger) error
}

// DrawRepository defines the interface for draw history
type DrawRepository interface {
	// Create records a completed draw
	Create(ctx context.Context, record *entities.DrawRecord) error

	// GetRecent returns the latest draws, newest first
	GetRecent(ctx context.Context, limit int) ([]*entities.DrawRecord, error)
}
