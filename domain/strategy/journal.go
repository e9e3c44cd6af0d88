package strategy

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"prizepool/domain/entities"
	"prizepool/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// movement is one fund transfer into or out of a strategy
type movement struct {
	strategy interfaces.Strategy
	caller   entities.AccountID
	amount   uint64
	invested bool
}

// Journal records the fund movements made through the strategies it hands
// out, so that a failed unit of work can return strategy balances to where
// they were when it began. Strategies live outside the database and do not
// roll back with it.
type Journal struct {
	registry interfaces.StrategyRegistry

	mu        sync.Mutex
	movements []movement
}

// NewJournal wraps registry for one unit of work
func NewJournal(registry interfaces.StrategyRegistry) *Journal {
	return &Journal{registry: registry}
}

// Get returns the named strategy with its movements recorded in the journal
func (j *Journal) Get(name string) (interfaces.Strategy, bool) {
	s, ok := j.registry.Get(name)
	if !ok {
		return nil, false
	}
	return &journaledStrategy{Strategy: s, journal: j}, true
}

// Len returns the number of recorded movements
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.movements)
}

// Undo reverses every recorded movement, newest first, and clears the
// journal. Every movement is attempted even when an earlier one fails.
func (j *Journal) Undo(ctx context.Context) error {
	j.mu.Lock()
	movements := j.movements
	j.movements = nil
	j.mu.Unlock()

	var errs []error
	for i := len(movements) - 1; i >= 0; i-- {
		m := movements[i]
		var err error
		if m.invested {
			_, err = m.strategy.Withdraw(ctx, m.caller, m.amount)
		} else {
			err = m.strategy.Invest(ctx, m.caller, m.amount)
		}
		if err != nil {
			log.WithError(err).WithFields(log.Fields{
				"strategy": m.strategy.Name(),
				"amount":   m.amount,
				"invested": m.invested,
			}).Error("Failed to reverse strategy movement")
			errs = append(errs, fmt.Errorf("failed to reverse movement on %s: %w", m.strategy.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func (j *Journal) record(m movement) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.movements = append(j.movements, m)
}

type journaledStrategy struct {
	interfaces.Strategy
	journal *Journal
}

func (s *journaledStrategy) Invest(ctx context.Context, caller entities.AccountID, amount uint64) error {
	if err := s.Strategy.Invest(ctx, caller, amount); err != nil {
		return err
	}
	s.journal.record(movement{strategy: s.Strategy, caller: caller, amount: amount, invested: true})
	return nil
}

func (s *journaledStrategy) Withdraw(ctx context.Context, caller entities.AccountID, amount uint64) (uint64, error) {
	withdrawn, err := s.Strategy.Withdraw(ctx, caller, amount)
	if err != nil {
		return 0, err
	}
	s.journal.record(movement{strategy: s.Strategy, caller: caller, amount: withdrawn})
	return withdrawn, nil
}
