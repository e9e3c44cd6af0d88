package services

import (
	"context"
	"fmt"
	"math"

	"prizepool/domain/entities"
	"prizepool/domain/interfaces"
	"prizepool/domain/utils"

	log "github.com/sirupsen/logrus"
)

// accountService implements the value ledger participants pay from and are paid into
type accountService struct {
	accountRepo        interfaces.AccountRepository
	balanceHistoryRepo interfaces.BalanceHistoryRepository
	eventPublisher     interfaces.EventPublisher
	startingBalance    uint64
}

// NewAccountService creates a new account service
func NewAccountService(
	accountRepo interfaces.AccountRepository,
	balanceHistoryRepo interfaces.BalanceHistoryRepository,
	eventPublisher interfaces.EventPublisher,
	startingBalance uint64,
) interfaces.AccountService {
	return &accountService{
		accountRepo:        accountRepo,
		balanceHistoryRepo: balanceHistoryRepo,
		eventPublisher:     eventPublisher,
		startingBalance:    startingBalance,
	}
}

// GetOrCreateAccount retrieves an account or creates it with the starting balance
func (s *accountService) GetOrCreateAccount(ctx context.Context, id entities.AccountID) (*entities.Account, error) {
	if id == "" {
		return nil, fmt.Errorf("account id is empty")
	}

	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account != nil {
		return account, nil
	}

	account, err = s.accountRepo.Create(ctx, id, s.startingBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	log.WithFields(log.Fields{
		"accountID":      id,
		"initialBalance": s.startingBalance,
	}).Info("Created new account")

	if s.startingBalance > 0 {
		history := &entities.BalanceHistory{
			AccountID:       id,
			BalanceBefore:   0,
			BalanceAfter:    s.startingBalance,
			ChangeAmount:    int64(s.startingBalance),
			TransactionType: entities.TransactionTypeInitial,
			TransactionMetadata: map[string]any{
				"starting_balance": s.startingBalance,
			},
		}
		if err := utils.RecordBalanceChange(ctx, s.balanceHistoryRepo, s.eventPublisher, history); err != nil {
			return nil, fmt.Errorf("failed to record initial balance: %w", err)
		}
	}

	return account, nil
}

// Credit adds amount to an account, creating it if needed
func (s *accountService) Credit(ctx context.Context, id entities.AccountID, amount uint64, txType entities.TransactionType, metadata map[string]any) (*entities.Account, error) {
	if amount == 0 || amount > math.MaxInt64 {
		return nil, fmt.Errorf("%w: credit of %d", entities.ErrInvalidAmount, amount)
	}

	account, err := s.GetOrCreateAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	if account.Balance > math.MaxUint64-amount {
		return nil, fmt.Errorf("%w: credit of %d overflows balance", entities.ErrInvalidAmount, amount)
	}

	return s.apply(ctx, account, account.Balance+amount, int64(amount), txType, metadata)
}

// Debit removes amount from an account
func (s *accountService) Debit(ctx context.Context, id entities.AccountID, amount uint64, txType entities.TransactionType, metadata map[string]any) (*entities.Account, error) {
	if amount == 0 || amount > math.MaxInt64 {
		return nil, fmt.Errorf("%w: debit of %d", entities.ErrInvalidAmount, amount)
	}

	account, err := s.GetOrCreateAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	if !account.CanAfford(amount) {
		return nil, fmt.Errorf("%w: have %d, need %d", entities.ErrInsufficientFunds, account.Balance, amount)
	}

	return s.apply(ctx, account, account.Balance-amount, -int64(amount), txType, metadata)
}

func (s *accountService) apply(ctx context.Context, account *entities.Account, newBalance uint64, change int64, txType entities.TransactionType, metadata map[string]any) (*entities.Account, error) {
	if err := s.accountRepo.UpdateBalance(ctx, account.ID, newBalance); err != nil {
		return nil, fmt.Errorf("failed to update account balance: %w", err)
	}

	history := &entities.BalanceHistory{
		AccountID:           account.ID,
		BalanceBefore:       account.Balance,
		BalanceAfter:        newBalance,
		ChangeAmount:        change,
		TransactionType:     txType,
		TransactionMetadata: metadata,
	}
	if err := utils.RecordBalanceChange(ctx, s.balanceHistoryRepo, s.eventPublisher, history); err != nil {
		return nil, fmt.Errorf("failed to record balance change: %w", err)
	}

	account.Balance = newBalance
	return account, nil
}
