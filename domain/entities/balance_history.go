package entities

import (
	"errors"
	"time"
)

// BalanceHistory represents a historical balance change
type BalanceHistory struct {
	ID                  int64           `db:"id"`
	AccountID           AccountID       `db:"account_id"`
	BalanceBefore       uint64          `db:"balance_before"`
	BalanceAfter        uint64          `db:"balance_after"`
	ChangeAmount        int64           `db:"change_amount"`
	TransactionType     TransactionType `db:"transaction_type"`
	TransactionMetadata map[string]any  `db:"transaction_metadata"`
	CreatedAt           time.Time       `db:"created_at"`
}

// IsPositiveChange returns true if the change amount is positive
func (bh *BalanceHistory) IsPositiveChange() bool {
	return bh.ChangeAmount > 0
}

// GetTransactionDescription returns a human-readable description of the transaction
func (bh *BalanceHistory) GetTransactionDescription() string {
	switch bh.TransactionType {
	case TransactionTypeInitial:
		return "Initial balance"
	case TransactionTypeGrant:
		return "Grant"
	case TransactionTypeTicketPurchase:
		return "Ticket purchase"
	case TransactionTypeTicketRefund:
		return "Ticket refund"
	case TransactionTypePrizePayout:
		return "Prize payout"
	case TransactionTypeTreasuryDeposit:
		return "Treasury deposit"
	case TransactionTypeTreasuryWithdrawal:
		return "Treasury withdrawal"
	default:
		return string(bh.TransactionType)
	}
}

// ValidateTransaction performs basic validation on the transaction
func (bh *BalanceHistory) ValidateTransaction() error {
	if bh.ChangeAmount == 0 {
		return errors.New("change amount cannot be zero")
	}

	if int64(bh.BalanceAfter) != int64(bh.BalanceBefore)+bh.ChangeAmount {
		return errors.New("balance calculation is inconsistent")
	}

	return nil
}
