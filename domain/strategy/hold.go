package strategy

import (
	"context"
	"fmt"
	"sync"

	"prizepool/domain/entities"

	log "github.com/sirupsen/logrus"
)

// HoldName is the registry name of the reference strategy
const HoldName = "hold"

// HoldStrategy custodies funds without generating yield. Value sent to it
// directly through Accrue stands in for yield in tests and simulations.
type HoldStrategy struct {
	name    string
	mu      sync.Mutex
	owner   entities.AccountID
	balance uint64
}

// NewHoldStrategy creates a hold strategy owned by owner
func NewHoldStrategy(name string, owner entities.AccountID) *HoldStrategy {
	return &HoldStrategy{
		name:  name,
		owner: owner,
	}
}

// Name returns the registry name
func (s *HoldStrategy) Name() string {
	return s.name
}

// Owner returns the account allowed to withdraw
func (s *HoldStrategy) Owner() entities.AccountID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.owner
}

// Invest accepts amount from any caller
func (s *HoldStrategy) Invest(ctx context.Context, caller entities.AccountID, amount uint64) error {
	if amount == 0 {
		return fmt.Errorf("%w: cannot invest zero", entities.ErrInvalidAmount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.balance += amount

	log.WithFields(log.Fields{
		"strategy": s.name,
		"caller":   caller,
		"amount":   amount,
		"balance":  s.balance,
	}).Debug("Strategy invested")
	return nil
}

// Withdraw releases exactly amount to the owner
func (s *HoldStrategy) Withdraw(ctx context.Context, caller entities.AccountID, amount uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := (entities.Authorization{Owner: s.owner}).Check(caller); err != nil {
		return 0, fmt.Errorf("strategy %s withdraw: %w", s.name, err)
	}
	if amount > s.balance {
		return 0, fmt.Errorf("%w: strategy %s holds %d, requested %d", entities.ErrInsufficientFunds, s.name, s.balance, amount)
	}

	s.balance -= amount
	return amount, nil
}

// Balance reports the custodied value
func (s *HoldStrategy) Balance(ctx context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balance, nil
}

// TransferOwnership hands the strategy to newOwner
func (s *HoldStrategy) TransferOwnership(ctx context.Context, caller, newOwner entities.AccountID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := (entities.Authorization{Owner: s.owner}).Check(caller); err != nil {
		return fmt.Errorf("strategy %s transfer ownership: %w", s.name, err)
	}
	if newOwner == "" {
		return fmt.Errorf("strategy %s transfer ownership: new owner is empty", s.name)
	}

	log.WithFields(log.Fields{
		"strategy": s.name,
		"from":     s.owner,
		"to":       newOwner,
	}).Info("Strategy ownership transferred")
	s.owner = newOwner
	return nil
}

// Accrue adds value that was not invested through the treasury
func (s *HoldStrategy) Accrue(amount uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balance += amount
}

// Restore sets the custodied balance, used to rebuild process-local state at startup
func (s *HoldStrategy) Restore(balance uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balance = balance
}
