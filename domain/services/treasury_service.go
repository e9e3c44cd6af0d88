package services

import (
	"context"
	"fmt"
	"math"

	"prizepool/domain/entities"
	"prizepool/domain/events"
	"prizepool/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// treasuryService custodies all deposited value and separates principal
// owed to ticket holders from the prize
type treasuryService struct {
	treasuryRepo   interfaces.TreasuryRepository
	stateRepo      interfaces.LotteryStateRepository
	tickets        interfaces.TicketRegistry
	accounts       interfaces.AccountService
	strategies     interfaces.StrategyRegistry
	eventPublisher interfaces.EventPublisher
}

// NewTreasuryService creates a new treasury service
func NewTreasuryService(
	treasuryRepo interfaces.TreasuryRepository,
	stateRepo interfaces.LotteryStateRepository,
	tickets interfaces.TicketRegistry,
	accounts interfaces.AccountService,
	strategies interfaces.StrategyRegistry,
	eventPublisher interfaces.EventPublisher,
) interfaces.TreasuryService {
	return &treasuryService{
		treasuryRepo:   treasuryRepo,
		stateRepo:      stateRepo,
		tickets:        tickets,
		accounts:       accounts,
		strategies:     strategies,
		eventPublisher: eventPublisher,
	}
}

// Initialize creates the treasury ledger if it does not exist yet
func (s *treasuryService) Initialize(ctx context.Context, owner, account entities.AccountID, strategyName string) (*entities.TreasuryLedger, error) {
	ledger, err := s.treasuryRepo.GetForUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get treasury ledger: %w", err)
	}
	if ledger != nil {
		return ledger, nil
	}

	if owner == "" || account == "" {
		return nil, fmt.Errorf("treasury owner and account are required")
	}
	if strategyName != "" {
		if _, ok := s.strategies.Get(strategyName); !ok {
			return nil, fmt.Errorf("%w: %q", entities.ErrUnknownStrategy, strategyName)
		}
	}

	ledger = &entities.TreasuryLedger{
		Owner:        owner,
		Account:      account,
		StrategyName: strategyName,
	}
	if err := s.treasuryRepo.Create(ctx, ledger); err != nil {
		return nil, fmt.Errorf("failed to create treasury ledger: %w", err)
	}

	log.WithFields(log.Fields{
		"owner":    owner,
		"account":  account,
		"strategy": strategyName,
	}).Info("Initialized treasury")
	return ledger, nil
}

// Ledger returns the treasury ledger
func (s *treasuryService) Ledger(ctx context.Context) (*entities.TreasuryLedger, error) {
	ledger, err := s.treasuryRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get treasury ledger: %w", err)
	}
	if ledger == nil {
		return nil, entities.ErrNotInitialized
	}
	return ledger, nil
}

// DepositPrincipal books a ticket's principal and forwards it to the strategy
func (s *treasuryService) DepositPrincipal(ctx context.Context, amount uint64) error {
	if amount == 0 {
		return fmt.Errorf("%w: principal must be positive", entities.ErrInvalidAmount)
	}

	ledger, err := s.lockLedger(ctx)
	if err != nil {
		return err
	}

	ledger.TotalPrincipal += amount
	return s.invest(ctx, ledger, amount)
}

// ReleasePrincipal un-books principal and pays it to a ticket holder
func (s *treasuryService) ReleasePrincipal(ctx context.Context, to entities.AccountID, amount uint64) error {
	ledger, err := s.lockLedger(ctx)
	if err != nil {
		return err
	}

	if amount > ledger.TotalPrincipal {
		return fmt.Errorf("release of %d exceeds outstanding principal %d", amount, ledger.TotalPrincipal)
	}
	ledger.TotalPrincipal -= amount

	if err := s.pull(ctx, ledger, amount); err != nil {
		return err
	}

	if _, err := s.accounts.Credit(ctx, to, amount, entities.TransactionTypeTicketRefund, map[string]any{
		"principal": amount,
	}); err != nil {
		return fmt.Errorf("failed to pay refund: %w", err)
	}
	return nil
}

// Deposit is an out-of-band top-up that does not count as principal
func (s *treasuryService) Deposit(ctx context.Context, caller entities.AccountID, amount uint64) error {
	if amount == 0 {
		return fmt.Errorf("%w: deposit must be positive", entities.ErrInvalidAmount)
	}

	ledger, err := s.lockLedger(ctx)
	if err != nil {
		return err
	}

	if _, err := s.accounts.Debit(ctx, caller, amount, entities.TransactionTypeTreasuryDeposit, nil); err != nil {
		return fmt.Errorf("failed to collect deposit: %w", err)
	}

	return s.invest(ctx, ledger, amount)
}

// Withdraw is the owner's escape hatch. Principal accounting is left
// untouched, so withdrawing below outstanding principal leaves refunds
// underfunded.
func (s *treasuryService) Withdraw(ctx context.Context, caller, to entities.AccountID, amount uint64) error {
	ledger, err := s.lockLedger(ctx)
	if err != nil {
		return err
	}

	if err := ledger.Authorization().Check(caller); err != nil {
		return fmt.Errorf("treasury withdraw: %w", err)
	}
	if amount == 0 || amount > math.MaxInt64 {
		return fmt.Errorf("%w: withdrawal must be positive and at most %d", entities.ErrInvalidAmount, int64(math.MaxInt64))
	}
	if to == "" {
		return fmt.Errorf("treasury withdraw: recipient is required")
	}

	if err := s.pull(ctx, ledger, amount); err != nil {
		return err
	}

	strategyBalance, err := s.strategyBalance(ctx, ledger)
	if err != nil {
		return err
	}
	shortfall := ledger.Shortfall(strategyBalance)
	if shortfall > 0 {
		log.WithFields(log.Fields{
			"caller":         caller,
			"amount":         amount,
			"totalPrincipal": ledger.TotalPrincipal,
			"shortfall":      shortfall,
		}).Warn("Treasury withdrawal leaves principal underfunded")
	}

	if _, err := s.accounts.Credit(ctx, to, amount, entities.TransactionTypeTreasuryWithdrawal, map[string]any{
		"withdrawn_by": string(caller),
	}); err != nil {
		return fmt.Errorf("failed to pay withdrawal: %w", err)
	}

	if err := s.eventPublisher.Publish(events.TreasuryWithdrawalEvent{
		Caller:    caller,
		Recipient: to,
		Amount:    amount,
		Shortfall: shortfall,
	}); err != nil {
		log.WithError(err).Error("Failed to publish treasury withdrawal event")
	}
	return nil
}

// CurrentPrize returns holdings above outstanding principal
func (s *treasuryService) CurrentPrize(ctx context.Context) (uint64, error) {
	ledger, err := s.Ledger(ctx)
	if err != nil {
		return 0, err
	}
	strategyBalance, err := s.strategyBalance(ctx, ledger)
	if err != nil {
		return 0, err
	}
	return ledger.Prize(strategyBalance), nil
}

// Holdings returns idle funds plus the strategy balance
func (s *treasuryService) Holdings(ctx context.Context) (uint64, error) {
	ledger, err := s.Ledger(ctx)
	if err != nil {
		return 0, err
	}
	strategyBalance, err := s.strategyBalance(ctx, ledger)
	if err != nil {
		return 0, err
	}
	return ledger.Holdings(strategyBalance), nil
}

// WithdrawWinnings pays the whole current prize to the holder of the last
// winning ticket, once per draw
func (s *treasuryService) WithdrawWinnings(ctx context.Context, caller entities.AccountID, ticketID int64) (uint64, error) {
	state, err := s.stateRepo.GetForUpdate(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get lottery state: %w", err)
	}
	if state == nil {
		return 0, entities.ErrNotInitialized
	}

	ticket, err := s.tickets.Get(ctx, ticketID)
	if err != nil {
		return 0, err
	}
	if !ticket.IsLive() {
		return 0, fmt.Errorf("ticket %d: %w", ticketID, entities.ErrAlreadyBurned)
	}
	if !ticket.IsOwnedBy(caller) {
		return 0, fmt.Errorf("ticket %d: %w", ticketID, entities.ErrNotOwner)
	}
	if !state.IsWinningTicket(ticketID) {
		return 0, fmt.Errorf("ticket %d: %w", ticketID, entities.ErrNotWinningTicket)
	}
	if state.PrizeClaimed {
		return 0, fmt.Errorf("prize for draw %d already claimed: %w", state.Epoch, entities.ErrNoFunds)
	}

	ledger, err := s.lockLedger(ctx)
	if err != nil {
		return 0, err
	}
	strategyBalance, err := s.strategyBalance(ctx, ledger)
	if err != nil {
		return 0, err
	}
	prize := ledger.Prize(strategyBalance)
	if prize == 0 {
		return 0, fmt.Errorf("prize is empty: %w", entities.ErrNoFunds)
	}

	state.PrizeClaimed = true
	if err := s.stateRepo.Update(ctx, state); err != nil {
		return 0, fmt.Errorf("failed to update lottery state: %w", err)
	}

	if err := s.pull(ctx, ledger, prize); err != nil {
		return 0, err
	}

	if _, err := s.accounts.Credit(ctx, caller, prize, entities.TransactionTypePrizePayout, map[string]any{
		"ticket_id":   ticketID,
		"draw_number": state.Epoch,
	}); err != nil {
		return 0, fmt.Errorf("failed to pay prize: %w", err)
	}

	log.WithFields(log.Fields{
		"ticketID": ticketID,
		"winner":   caller,
		"prize":    prize,
	}).Info("Winnings withdrawn")

	if err := s.eventPublisher.Publish(events.WinningsClaimedEvent{
		TicketID: ticketID,
		Winner:   caller,
		Amount:   prize,
	}); err != nil {
		log.WithError(err).Error("Failed to publish winnings claimed event")
	}
	return prize, nil
}

// SetStrategy swaps the active strategy. Everything the old strategy holds,
// or the idle balance when there was none, moves into the new one. On failure
// the caller reverses the strategy movements (see strategy.Journal).
func (s *treasuryService) SetStrategy(ctx context.Context, caller entities.AccountID, name string) error {
	ledger, err := s.lockLedger(ctx)
	if err != nil {
		return err
	}

	if err := ledger.Authorization().Check(caller); err != nil {
		return fmt.Errorf("set strategy: %w", err)
	}

	next, ok := s.strategies.Get(name)
	if !ok {
		return fmt.Errorf("%w: %q", entities.ErrUnknownStrategy, name)
	}
	if name == ledger.StrategyName {
		return nil
	}

	oldName := ledger.StrategyName
	var migrated uint64
	if ledger.HasStrategy() {
		old, err := s.resolve(ledger)
		if err != nil {
			return err
		}
		migrated, err = old.Balance(ctx)
		if err != nil {
			return fmt.Errorf("failed to read strategy balance: %w", err)
		}
		if migrated > 0 {
			if _, err := old.Withdraw(ctx, ledger.Account, migrated); err != nil {
				return fmt.Errorf("failed to withdraw from strategy %s: %w", oldName, err)
			}
		}
	} else {
		migrated = ledger.Idle
		ledger.Idle = 0
	}

	ledger.StrategyName = name
	ledger.Invested = migrated
	if err := s.treasuryRepo.Update(ctx, ledger); err != nil {
		return fmt.Errorf("failed to update treasury ledger: %w", err)
	}

	if migrated > 0 {
		if err := next.Invest(ctx, ledger.Account, migrated); err != nil {
			return fmt.Errorf("failed to invest into strategy %s: %w", name, err)
		}
	}

	log.WithFields(log.Fields{
		"from":     oldName,
		"to":       name,
		"migrated": migrated,
	}).Info("Treasury strategy changed")

	if err := s.eventPublisher.Publish(events.StrategyChangedEvent{
		OldStrategy: oldName,
		NewStrategy: name,
		Migrated:    migrated,
	}); err != nil {
		log.WithError(err).Error("Failed to publish strategy changed event")
	}
	return nil
}

func (s *treasuryService) lockLedger(ctx context.Context) (*entities.TreasuryLedger, error) {
	ledger, err := s.treasuryRepo.GetForUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to lock treasury ledger: %w", err)
	}
	if ledger == nil {
		return nil, entities.ErrNotInitialized
	}
	return ledger, nil
}

func (s *treasuryService) resolve(ledger *entities.TreasuryLedger) (interfaces.Strategy, error) {
	strategy, ok := s.strategies.Get(ledger.StrategyName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", entities.ErrUnknownStrategy, ledger.StrategyName)
	}
	return strategy, nil
}

func (s *treasuryService) strategyBalance(ctx context.Context, ledger *entities.TreasuryLedger) (uint64, error) {
	if !ledger.HasStrategy() {
		return 0, nil
	}
	strategy, err := s.resolve(ledger)
	if err != nil {
		return 0, err
	}
	balance, err := strategy.Balance(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read strategy balance: %w", err)
	}
	return balance, nil
}

// invest books amount as custodied and forwards it to the strategy after the
// ledger is persisted
func (s *treasuryService) invest(ctx context.Context, ledger *entities.TreasuryLedger, amount uint64) error {
	if !ledger.HasStrategy() {
		ledger.Idle += amount
		if err := s.treasuryRepo.Update(ctx, ledger); err != nil {
			return fmt.Errorf("failed to update treasury ledger: %w", err)
		}
		return nil
	}

	strategy, err := s.resolve(ledger)
	if err != nil {
		return err
	}
	balance, err := strategy.Balance(ctx)
	if err != nil {
		return fmt.Errorf("failed to read strategy balance: %w", err)
	}

	ledger.Invested = balance + amount
	if err := s.treasuryRepo.Update(ctx, ledger); err != nil {
		return fmt.Errorf("failed to update treasury ledger: %w", err)
	}

	if err := strategy.Invest(ctx, ledger.Account, amount); err != nil {
		return fmt.Errorf("failed to invest into strategy %s: %w", strategy.Name(), err)
	}
	return nil
}

// pull takes amount out of custody, idle funds first, and persists the ledger
// before touching the strategy
func (s *treasuryService) pull(ctx context.Context, ledger *entities.TreasuryLedger, amount uint64) error {
	strategyBalance, err := s.strategyBalance(ctx, ledger)
	if err != nil {
		return err
	}
	holdings := ledger.Holdings(strategyBalance)
	if amount > holdings {
		return fmt.Errorf("%w: treasury holds %d, requested %d", entities.ErrInsufficientFunds, holdings, amount)
	}

	fromIdle := min(ledger.Idle, amount)
	fromStrategy := amount - fromIdle
	ledger.Idle -= fromIdle
	if ledger.HasStrategy() {
		ledger.Invested = strategyBalance - fromStrategy
	}

	if err := s.treasuryRepo.Update(ctx, ledger); err != nil {
		return fmt.Errorf("failed to update treasury ledger: %w", err)
	}

	if fromStrategy > 0 {
		strategy, err := s.resolve(ledger)
		if err != nil {
			return err
		}
		if _, err := strategy.Withdraw(ctx, ledger.Account, fromStrategy); err != nil {
			return fmt.Errorf("failed to withdraw from strategy %s: %w", strategy.Name(), err)
		}
	}
	return nil
}
