package entities

// TransactionType represents the type of balance change
type TransactionType string

const (
	TransactionTypeInitial            TransactionType = "initial"
	TransactionTypeGrant              TransactionType = "grant"
	TransactionTypeTicketPurchase     TransactionType = "ticket_purchase"
	TransactionTypeTicketRefund       TransactionType = "ticket_refund"
	TransactionTypePrizePayout        TransactionType = "prize_payout"
	TransactionTypeTreasuryDeposit    TransactionType = "treasury_deposit"
	TransactionTypeTreasuryWithdrawal TransactionType = "treasury_withdrawal"
)

// IsLotteryRelated returns true for ticket and prize movements
func (tt TransactionType) IsLotteryRelated() bool {
	switch tt {
	case TransactionTypeTicketPurchase, TransactionTypeTicketRefund, TransactionTypePrizePayout:
		return true
	default:
		return false
	}
}

// IsSystemGenerated returns true if the transaction was not initiated by the account holder
func (tt TransactionType) IsSystemGenerated() bool {
	switch tt {
	case TransactionTypeInitial, TransactionTypeGrant:
		return true
	default:
		return false
	}
}
