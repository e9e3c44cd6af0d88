package application

import (
	"context"
	"fmt"

	"prizepool/domain/entities"
	"prizepool/domain/interfaces"
	"prizepool/domain/services"
	"prizepool/domain/strategy"

	log "github.com/sirupsen/logrus"
)

// LotterySettings holds the values captured when the lottery is first initialized
type LotterySettings struct {
	Owner       entities.AccountID
	Treasury    entities.AccountID
	TicketPrice uint64
	Strategy    string
}

// restorable is implemented by strategies whose balance lives in process memory
type restorable interface {
	Restore(balance uint64)
}

type operationKey struct{}

// serviceSet is the set of domain services bound to one unit of work
type serviceSet struct {
	uow      UnitOfWork
	accounts interfaces.AccountService
	tickets  interfaces.TicketRegistry
	treasury interfaces.TreasuryService
	lottery  interfaces.LotteryService
}

// LotteryHandler runs every lottery operation in its own unit of work, so an
// operation either completes entirely or leaves no trace
type LotteryHandler struct {
	uowFactory      UnitOfWorkFactory
	strategies      interfaces.StrategyRegistry
	randomness      interfaces.RandomnessSource
	startingBalance uint64
}

// NewLotteryHandler creates a new lottery handler
func NewLotteryHandler(
	uowFactory UnitOfWorkFactory,
	strategies interfaces.StrategyRegistry,
	randomness interfaces.RandomnessSource,
	startingBalance uint64,
) *LotteryHandler {
	return &LotteryHandler{
		uowFactory:      uowFactory,
		strategies:      strategies,
		randomness:      randomness,
		startingBalance: startingBalance,
	}
}

// Initialize creates the controller state and treasury ledger on first start,
// and reloads process-local strategy balances on every start
func (h *LotteryHandler) Initialize(ctx context.Context, settings LotterySettings) (*entities.LotteryState, *entities.TreasuryLedger, error) {
	var (
		state  *entities.LotteryState
		ledger *entities.TreasuryLedger
	)
	err := h.run(ctx, func(ctx context.Context, s *serviceSet) error {
		var err error
		if state, err = s.lottery.Initialize(ctx, settings.Owner, settings.TicketPrice); err != nil {
			return err
		}
		if ledger, err = s.treasury.Initialize(ctx, settings.Owner, settings.Treasury, settings.Strategy); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize lottery: %w", err)
	}

	if ledger.HasStrategy() {
		active, ok := h.strategies.Get(ledger.StrategyName)
		if !ok {
			return nil, nil, fmt.Errorf("%w: %q", entities.ErrUnknownStrategy, ledger.StrategyName)
		}
		if r, ok := active.(restorable); ok {
			r.Restore(ledger.Invested)
			log.WithFields(log.Fields{
				"strategy": ledger.StrategyName,
				"balance":  ledger.Invested,
			}).Info("Restored strategy balance")
		}
	}
	return state, ledger, nil
}

// Purchase buys one ticket for caller
func (h *LotteryHandler) Purchase(ctx context.Context, caller entities.AccountID, payment uint64) (*entities.Ticket, error) {
	var ticket *entities.Ticket
	err := h.run(ctx, func(ctx context.Context, s *serviceSet) error {
		var err error
		ticket, err = s.lottery.Purchase(ctx, caller, payment)
		return err
	})
	return ticket, err
}

// Refund burns a ticket and returns its principal
func (h *LotteryHandler) Refund(ctx context.Context, caller entities.AccountID, ticketID int64) (*entities.Ticket, error) {
	var ticket *entities.Ticket
	err := h.run(ctx, func(ctx context.Context, s *serviceSet) error {
		var err error
		ticket, err = s.lottery.Refund(ctx, caller, ticketID)
		return err
	})
	return ticket, err
}

// Draw selects the next winner
func (h *LotteryHandler) Draw(ctx context.Context, caller entities.AccountID) (*interfaces.LotteryDrawResult, error) {
	var result *interfaces.LotteryDrawResult
	err := h.run(ctx, func(ctx context.Context, s *serviceSet) error {
		var err error
		result, err = s.lottery.Draw(ctx, caller)
		return err
	})
	return result, err
}

// WithdrawWinnings pays the current prize to the holder of the winning ticket
func (h *LotteryHandler) WithdrawWinnings(ctx context.Context, caller entities.AccountID, ticketID int64) (uint64, error) {
	var paid uint64
	err := h.run(ctx, func(ctx context.Context, s *serviceSet) error {
		var err error
		paid, err = s.treasury.WithdrawWinnings(ctx, caller, ticketID)
		return err
	})
	return paid, err
}

// TreasuryWithdraw lets the treasury owner move funds to any account
func (h *LotteryHandler) TreasuryWithdraw(ctx context.Context, caller, to entities.AccountID, amount uint64) error {
	return h.run(ctx, func(ctx context.Context, s *serviceSet) error {
		return s.treasury.Withdraw(ctx, caller, to, amount)
	})
}

// TreasuryDeposit adds funds to the treasury without minting a ticket
func (h *LotteryHandler) TreasuryDeposit(ctx context.Context, caller entities.AccountID, amount uint64) error {
	return h.run(ctx, func(ctx context.Context, s *serviceSet) error {
		return s.treasury.Deposit(ctx, caller, amount)
	})
}

// SetStrategy swaps the treasury's strategy
func (h *LotteryHandler) SetStrategy(ctx context.Context, caller entities.AccountID, name string) error {
	return h.run(ctx, func(ctx context.Context, s *serviceSet) error {
		return s.treasury.SetStrategy(ctx, caller, name)
	})
}

// Grant credits an account. Only the lottery owner may grant.
func (h *LotteryHandler) Grant(ctx context.Context, caller, to entities.AccountID, amount uint64) (*entities.Account, error) {
	var account *entities.Account
	err := h.run(ctx, func(ctx context.Context, s *serviceSet) error {
		state, err := s.lottery.State(ctx)
		if err != nil {
			return err
		}
		if err := state.Authorization().Check(caller); err != nil {
			return fmt.Errorf("grant: %w", err)
		}
		account, err = s.accounts.Credit(ctx, to, amount, entities.TransactionTypeGrant, map[string]any{
			"granted_by": string(caller),
		})
		return err
	})
	return account, err
}

// IsEligible reports whether a ticket takes part in the next draw
func (h *LotteryHandler) IsEligible(ctx context.Context, ticketID int64) (bool, error) {
	var eligible bool
	err := h.run(ctx, func(ctx context.Context, s *serviceSet) error {
		var err error
		eligible, err = s.lottery.IsEligible(ctx, ticketID)
		return err
	})
	return eligible, err
}

// LastWinner returns the most recently drawn ticket ID
func (h *LotteryHandler) LastWinner(ctx context.Context) (*int64, error) {
	var winner *int64
	err := h.run(ctx, func(ctx context.Context, s *serviceSet) error {
		var err error
		winner, err = s.lottery.LastWinner(ctx)
		return err
	})
	return winner, err
}

// State returns the controller state
func (h *LotteryHandler) State(ctx context.Context) (*entities.LotteryState, error) {
	var state *entities.LotteryState
	err := h.run(ctx, func(ctx context.Context, s *serviceSet) error {
		var err error
		state, err = s.lottery.State(ctx)
		return err
	})
	return state, err
}

// RecentDraws returns the latest draw records
func (h *LotteryHandler) RecentDraws(ctx context.Context, limit int) ([]*entities.DrawRecord, error) {
	var records []*entities.DrawRecord
	err := h.run(ctx, func(ctx context.Context, s *serviceSet) error {
		var err error
		records, err = s.lottery.RecentDraws(ctx, limit)
		return err
	})
	return records, err
}

// OwnerOf returns the holder of a live ticket
func (h *LotteryHandler) OwnerOf(ctx context.Context, ticketID int64) (entities.AccountID, error) {
	var owner entities.AccountID
	err := h.run(ctx, func(ctx context.Context, s *serviceSet) error {
		var err error
		owner, err = s.tickets.OwnerOf(ctx, ticketID)
		return err
	})
	return owner, err
}

// BalanceOf returns the number of live tickets held by owner
func (h *LotteryHandler) BalanceOf(ctx context.Context, owner entities.AccountID) (int64, error) {
	var count int64
	err := h.run(ctx, func(ctx context.Context, s *serviceSet) error {
		var err error
		count, err = s.tickets.BalanceOf(ctx, owner)
		return err
	})
	return count, err
}

// TicketsOf returns the live tickets held by owner
func (h *LotteryHandler) TicketsOf(ctx context.Context, owner entities.AccountID) ([]*entities.Ticket, error) {
	var tickets []*entities.Ticket
	err := h.run(ctx, func(ctx context.Context, s *serviceSet) error {
		var err error
		tickets, err = s.tickets.TicketsOf(ctx, owner)
		return err
	})
	return tickets, err
}

// CurrentPrize returns treasury holdings above outstanding principal
func (h *LotteryHandler) CurrentPrize(ctx context.Context) (uint64, error) {
	var prize uint64
	err := h.run(ctx, func(ctx context.Context, s *serviceSet) error {
		var err error
		prize, err = s.treasury.CurrentPrize(ctx)
		return err
	})
	return prize, err
}

// Holdings returns everything the treasury custodies
func (h *LotteryHandler) Holdings(ctx context.Context) (uint64, error) {
	var holdings uint64
	err := h.run(ctx, func(ctx context.Context, s *serviceSet) error {
		var err error
		holdings, err = s.treasury.Holdings(ctx)
		return err
	})
	return holdings, err
}

// Ledger returns the treasury ledger
func (h *LotteryHandler) Ledger(ctx context.Context) (*entities.TreasuryLedger, error) {
	var ledger *entities.TreasuryLedger
	err := h.run(ctx, func(ctx context.Context, s *serviceSet) error {
		var err error
		ledger, err = s.treasury.Ledger(ctx)
		return err
	})
	return ledger, err
}

// Account returns an account, creating it with the starting balance on first use
func (h *LotteryHandler) Account(ctx context.Context, id entities.AccountID) (*entities.Account, error) {
	var account *entities.Account
	err := h.run(ctx, func(ctx context.Context, s *serviceSet) error {
		var err error
		account, err = s.accounts.GetOrCreateAccount(ctx, id)
		return err
	})
	return account, err
}

// BalanceHistory returns the latest balance changes of an account
func (h *LotteryHandler) BalanceHistory(ctx context.Context, id entities.AccountID, limit int) ([]*entities.BalanceHistory, error) {
	var history []*entities.BalanceHistory
	err := h.run(ctx, func(ctx context.Context, s *serviceSet) error {
		var err error
		history, err = s.uow.BalanceHistoryRepository().GetByAccount(ctx, id, limit)
		if err != nil {
			return fmt.Errorf("failed to get balance history: %w", err)
		}
		return nil
	})
	return history, err
}

// run executes fn in a fresh unit of work, committing on success. Calls made
// from inside another operation, for example by a strategy calling back into
// the lottery, are rejected.
func (h *LotteryHandler) run(ctx context.Context, fn func(context.Context, *serviceSet) error) error {
	if ctx.Value(operationKey{}) != nil {
		return entities.ErrReentrantCall
	}
	ctx = context.WithValue(ctx, operationKey{}, struct{}{})

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	journal := strategy.NewJournal(h.strategies)
	if err := fn(ctx, h.bind(uow, journal)); err != nil {
		h.undo(ctx, journal)
		return err
	}

	if err := uow.Commit(); err != nil {
		h.undo(ctx, journal)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// undo returns strategy balances to where they were before a failed operation
func (h *LotteryHandler) undo(ctx context.Context, journal *strategy.Journal) {
	if journal.Len() == 0 {
		return
	}
	if err := journal.Undo(context.WithoutCancel(ctx)); err != nil {
		log.WithError(err).Error("Strategy balances diverge from the treasury ledger")
	}
}

func (h *LotteryHandler) bind(uow UnitOfWork, strategies interfaces.StrategyRegistry) *serviceSet {
	accounts := services.NewAccountService(
		uow.AccountRepository(),
		uow.BalanceHistoryRepository(),
		uow.EventBus(),
		h.startingBalance,
	)
	tickets := services.NewTicketRegistry(uow.TicketRepository())
	treasury := services.NewTreasuryService(
		uow.TreasuryRepository(),
		uow.LotteryStateRepository(),
		tickets,
		accounts,
		strategies,
		uow.EventBus(),
	)
	lottery := services.NewLotteryService(
		uow.LotteryStateRepository(),
		uow.DrawRepository(),
		tickets,
		treasury,
		accounts,
		h.randomness,
		uow.EventBus(),
	)
	return &serviceSet{
		uow:      uow,
		accounts: accounts,
		tickets:  tickets,
		treasury: treasury,
		lottery:  lottery,
	}
}
