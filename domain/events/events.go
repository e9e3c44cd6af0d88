package events

import "prizepool/domain/entities"

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange      EventType = "balance_change"
	EventTypeAccountCreated     EventType = "account_created"
	EventTypeTicketPurchased    EventType = "ticket_purchased"
	EventTypeTicketRefunded     EventType = "ticket_refunded"
	EventTypeDrawCompleted      EventType = "draw_completed"
	EventTypeWinningsClaimed    EventType = "winnings_claimed"
	EventTypeTreasuryWithdrawal EventType = "treasury_withdrawal"
	EventTypeStrategyChanged    EventType = "strategy_changed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	AccountID       entities.AccountID
	OldBalance      uint64
	NewBalance      uint64
	TransactionType entities.TransactionType
	ChangeAmount    int64
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// AccountCreatedEvent represents a new account
type AccountCreatedEvent struct {
	AccountID      entities.AccountID
	InitialBalance uint64
}

func (e AccountCreatedEvent) Type() EventType {
	return EventTypeAccountCreated
}

// TicketPurchasedEvent represents a newly minted ticket
type TicketPurchasedEvent struct {
	TicketID      int64
	Owner         entities.AccountID
	Principal     uint64
	MintedAtEpoch uint64
}

func (e TicketPurchasedEvent) Type() EventType {
	return EventTypeTicketPurchased
}

// TicketRefundedEvent represents a burned ticket whose principal was returned
type TicketRefundedEvent struct {
	TicketID  int64
	Owner     entities.AccountID
	Principal uint64
}

func (e TicketRefundedEvent) Type() EventType {
	return EventTypeTicketRefunded
}

// DrawCompletedEvent represents a completed draw
type DrawCompletedEvent struct {
	DrawNumber      uint64
	WinningTicketID int64
	WinnerAccount   entities.AccountID
	EligibleCount   int64
	PrizeAtDraw     uint64
}

func (e DrawCompletedEvent) Type() EventType {
	return EventTypeDrawCompleted
}

// WinningsClaimedEvent represents a prize payout
type WinningsClaimedEvent struct {
	TicketID int64
	Winner   entities.AccountID
	Amount   uint64
}

func (e WinningsClaimedEvent) Type() EventType {
	return EventTypeWinningsClaimed
}

// TreasuryWithdrawalEvent represents an owner withdrawal from the treasury
type TreasuryWithdrawalEvent struct {
	Caller    entities.AccountID
	Recipient entities.AccountID
	Amount    uint64
	Shortfall uint64 // Principal no longer covered after the withdrawal
}

func (e TreasuryWithdrawalEvent) Type() EventType {
	return EventTypeTreasuryWithdrawal
}

// StrategyChangedEvent represents a strategy swap
type StrategyChangedEvent struct {
	OldStrategy string
	NewStrategy string
	Migrated    uint64
}

func (e StrategyChangedEvent) Type() EventType {
	return EventTypeStrategyChanged
}
