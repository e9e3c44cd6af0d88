package interfaces

import (
	"context"

	"prizepool/domain/entities"
	"prizepool/domain/events"
)

// Strategy is an external fund sink/source. Its balance may exceed what was
// invested; the surplus is yield.
type Strategy interface {
	// Name identifies the strategy in the registry and in the treasury ledger
	Name() string

	// Owner returns the account allowed to withdraw and transfer ownership
	Owner() entities.AccountID

	// Invest accepts and custodies amount
	Invest(ctx context.Context, caller entities.AccountID, amount uint64) error

	// Withdraw releases exactly amount to the caller
	Withdraw(ctx context.Context, caller entities.AccountID, amount uint64) (uint64, error)

	// Balance reports the current total value held, principal plus yield
	Balance(ctx context.Context) (uint64, error)

	// TransferOwnership hands the privileged operations to newOwner
	TransferOwnership(ctx context.Context, caller, newOwner entities.AccountID) error
}

// StrategyRegistry resolves strategies by name
type StrategyRegistry interface {
	Get(name string) (Strategy, bool)
}

// RandomnessSource samples an index in [0, n) from state that was not
// predictable when the tickets being drawn were purchased
type RandomnessSource interface {
	Sample(ctx context.Context, n int) (int, error)
}

// EventPublisher publishes domain events
type EventPublisher interface {
	Publish(event events.Event) error
}

// TransactionalEventPublisher buffers events until the surrounding unit of work commits
type TransactionalEventPublisher interface {
	EventPublisher

	// Flush publishes buffered events
	Flush(ctx context.Context) error

	// Discard drops buffered events
	Discard()
}
