package memory

import (
	"context"
	"fmt"

	"prizepool/application"
	"prizepool/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

type unitOfWork struct {
	store                  *Store
	working                *snapshot
	transactionalPublisher interfaces.TransactionalEventPublisher
	ctx                    context.Context
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory over store
func NewUnitOfWorkFactory(store *Store) *unitOfWorkFactory {
	return &unitOfWorkFactory{store: store}
}

type unitOfWorkFactory struct {
	store *Store
}

// CreateWithPublisher creates a new UnitOfWork with a specific transactional publisher
func (f *unitOfWorkFactory) CreateWithPublisher(transactionalPublisher interfaces.TransactionalEventPublisher) application.UnitOfWork {
	return &unitOfWork{
		store:                  f.store,
		transactionalPublisher: transactionalPublisher,
	}
}

// Begin takes the store lock and starts working on a private copy
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.working != nil {
		return fmt.Errorf("transaction already started")
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.store.mu.Lock()
	u.working = u.store.data.clone()
	u.ctx = ctx
	return nil
}

// Commit publishes the working copy as the committed state
func (u *unitOfWork) Commit() error {
	if u.working == nil {
		return fmt.Errorf("no transaction to commit")
	}

	u.store.data = u.working
	u.working = nil
	u.store.mu.Unlock()

	if u.transactionalPublisher != nil {
		if err := u.transactionalPublisher.Flush(u.ctx); err != nil {
			log.WithError(err).Error("Failed to publish events after commit")
		}
	}
	return nil
}

// Rollback drops the working copy
func (u *unitOfWork) Rollback() error {
	if u.working == nil {
		return nil
	}

	u.working = nil
	u.store.mu.Unlock()

	if u.transactionalPublisher != nil {
		u.transactionalPublisher.Discard()
	}
	return nil
}

func (u *unitOfWork) mustBegin() *snapshot {
	if u.working == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.working
}

func (u *unitOfWork) AccountRepository() interfaces.AccountRepository {
	return &accountRepository{s: u.mustBegin()}
}

func (u *unitOfWork) BalanceHistoryRepository() interfaces.BalanceHistoryRepository {
	return &balanceHistoryRepository{s: u.mustBegin()}
}

func (u *unitOfWork) TicketRepository() interfaces.TicketRepository {
	return &ticketRepository{s: u.mustBegin()}
}

func (u *unitOfWork) LotteryStateRepository() interfaces.LotteryStateRepository {
	return &lotteryStateRepository{s: u.mustBegin()}
}

func (u *unitOfWork) TreasuryRepository() interfaces.TreasuryRepository {
	return &treasuryRepository{s: u.mustBegin()}
}

func (u *unitOfWork) DrawRepository() interfaces.DrawRepository {
	return &drawRepository{s: u.mustBegin()}
}

// EventBus returns the transactional event publisher for this unit of work
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	if u.transactionalPublisher == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalPublisher
}
