package interfaces

import (
	"context"

	"prizepool/domain/entities"
)

// AccountService defines the interface for account balance operations
type AccountService interface {
	// GetOrCreateAccount retrieves an account or creates it with the starting balance
	GetOrCreateAccount(ctx context.Context, id entities.AccountID) (*entities.Account, error)

	// Credit adds amount to an account, creating it if needed
	Credit(ctx context.Context, id entities.AccountID, amount uint64, txType entities.TransactionType, metadata map[string]any) (*entities.Account, error)

	// Debit removes amount from an account, failing with ErrInsufficientFunds
	Debit(ctx context.Context, id entities.AccountID, amount uint64, txType entities.TransactionType, metadata map[string]any) (*entities.Account, error)
}

// TicketRegistry is the ownership ledger for tickets
type TicketRegistry interface {
	// Mint allocates the next ticket ID to owner
	Mint(ctx context.Context, owner entities.AccountID, epoch, principal uint64) (*entities.Ticket, error)

	// Burn clears ownership, rejecting unknown and already burned tickets
	Burn(ctx context.Context, ticketID int64) (*entities.Ticket, error)

	// Get returns a ticket, live or burned
	Get(ctx context.Context, ticketID int64) (*entities.Ticket, error)

	// OwnerOf returns the holder of a live ticket
	OwnerOf(ctx context.Context, ticketID int64) (entities.AccountID, error)

	// BalanceOf returns the number of live tickets held by owner
	BalanceOf(ctx context.Context, owner entities.AccountID) (int64, error)

	// TicketsOf returns the live tickets held by owner
	TicketsOf(ctx context.Context, owner entities.AccountID) ([]*entities.Ticket, error)

	// Eligible returns live tickets minted at or before boundary
	Eligible(ctx context.Context, boundary uint64) ([]*entities.Ticket, error)
}

// LotteryDrawResult is the outcome of a draw
type LotteryDrawResult struct {
	Record         *entities.DrawRecord
	NextDrawNumber uint64
}

// LotteryService is the lottery controller
type LotteryService interface {
	// Initialize creates the controller state if it does not exist yet
	Initialize(ctx context.Context, owner entities.AccountID, ticketPrice uint64) (*entities.LotteryState, error)

	// State returns the controller state
	State(ctx context.Context) (*entities.LotteryState, error)

	// Purchase mints a ticket against exactly the ticket price
	Purchase(ctx context.Context, caller entities.AccountID, payment uint64) (*entities.Ticket, error)

	// Refund burns a ticket and returns its principal to the caller
	Refund(ctx context.Context, caller entities.AccountID, ticketID int64) (*entities.Ticket, error)

	// Draw selects a winner among eligible tickets and advances the boundary
	Draw(ctx context.Context, caller entities.AccountID) (*LotteryDrawResult, error)

	// IsEligible reports whether a ticket takes part in the next draw
	IsEligible(ctx context.Context, ticketID int64) (bool, error)

	// LastWinner returns the most recently drawn ticket, or nil before the first draw
	LastWinner(ctx context.Context) (*int64, error)

	// RecentDraws returns the latest draw records
	RecentDraws(ctx context.Context, limit int) ([]*entities.DrawRecord, error)
}

// TreasuryService custodies funds and separates principal from prize
type TreasuryService interface {
	// Initialize creates the treasury ledger if it does not exist yet
	Initialize(ctx context.Context, owner, account entities.AccountID, strategyName string) (*entities.TreasuryLedger, error)

	// Ledger returns the treasury ledger
	Ledger(ctx context.Context) (*entities.TreasuryLedger, error)

	// DepositPrincipal books a ticket's principal and forwards it to the strategy
	DepositPrincipal(ctx context.Context, amount uint64) error

	// ReleasePrincipal un-books principal and pays it to a ticket holder
	ReleasePrincipal(ctx context.Context, to entities.AccountID, amount uint64) error

	// Deposit is an out-of-band top-up that does not count as principal
	Deposit(ctx context.Context, caller entities.AccountID, amount uint64) error

	// Withdraw is the owner's unrestricted escape hatch
	Withdraw(ctx context.Context, caller, to entities.AccountID, amount uint64) error

	// CurrentPrize returns holdings above outstanding principal
	CurrentPrize(ctx context.Context) (uint64, error)

	// Holdings returns idle funds plus the strategy balance
	Holdings(ctx context.Context) (uint64, error)

	// WithdrawWinnings pays the current prize to the owner of the winning ticket
	WithdrawWinnings(ctx context.Context, caller entities.AccountID, ticketID int64) (uint64, error)

	// SetStrategy swaps the active strategy, migrating custodied funds
	SetStrategy(ctx context.Context, caller entities.AccountID, name string) error
}
