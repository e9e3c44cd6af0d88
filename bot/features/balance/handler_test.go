package balance

import (
	"testing"
	"time"

	"prizepool/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBalanceEmbed(t *testing.T) {
	t.Parallel()

	account := &entities.Account{ID: "42", Balance: 2_500_000}

	t.Run("no history", func(t *testing.T) {
		t.Parallel()
		embed := CreateBalanceEmbed(account, nil, 6)
		assert.Equal(t, "**2.5**", embed.Description)
		require.Len(t, embed.Fields, 1)
		assert.Equal(t, "No activity yet", embed.Fields[0].Value)
	})

	t.Run("with history", func(t *testing.T) {
		t.Parallel()
		at := time.Unix(1704463200, 0)
		history := []*entities.BalanceHistory{
			{ChangeAmount: -1_000_000, TransactionType: entities.TransactionTypeTicketPurchase, CreatedAt: at},
			{ChangeAmount: 3_500_000, TransactionType: entities.TransactionTypeInitial, CreatedAt: at},
		}
		embed := CreateBalanceEmbed(account, history, 6)
		assert.Equal(t, "🎟️ `-1` Ticket purchase <t:1704463200:R>\n🎁 `+3.5` Initial balance <t:1704463200:R>", embed.Fields[0].Value)
	})
}

func TestActivityIcon(t *testing.T) {
	t.Parallel()

	tests := []struct {
		txType   entities.TransactionType
		change   int64
		expected string
	}{
		{entities.TransactionTypeInitial, 10, "🎁"},
		{entities.TransactionTypeGrant, 10, "🎁"},
		{entities.TransactionTypeTicketPurchase, -10, "🎟️"},
		{entities.TransactionTypeTicketRefund, 10, "🎟️"},
		{entities.TransactionTypePrizePayout, 10, "🎟️"},
		{entities.TransactionTypeTreasuryWithdrawal, 10, "📈"},
		{entities.TransactionTypeTreasuryDeposit, -10, "📉"},
	}

	for _, tt := range tests {
		t.Run(string(tt.txType), func(t *testing.T) {
			t.Parallel()
			entry := &entities.BalanceHistory{TransactionType: tt.txType, ChangeAmount: tt.change}
			assert.Equal(t, tt.expected, activityIcon(entry))
		})
	}
}
