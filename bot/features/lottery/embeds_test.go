package lottery

import (
	"testing"
	"time"

	"prizepool/domain/entities"
	"prizepool/domain/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const unit = uint64(1_000_000_000_000_000_000)

func int64Ptr(v int64) *int64 { return &v }

func TestCreatePurchaseEmbed_FirstDraw(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		ticket   *entities.Ticket
		state    *entities.LotteryState
		expected string
	}{
		{
			name:     "bought before first draw",
			ticket:   &entities.Ticket{ID: 1, Principal: unit, MintedAtEpoch: 0},
			state:    &entities.LotteryState{Epoch: 0, Boundary: 0},
			expected: "#1",
		},
		{
			name:     "bought after a draw waits a round",
			ticket:   &entities.Ticket{ID: 2, Principal: unit, MintedAtEpoch: 1},
			state:    &entities.LotteryState{Epoch: 1, Boundary: 0},
			expected: "#3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			embed := CreatePurchaseEmbed(tt.ticket, tt.state, 9*unit, 18)
			require.Len(t, embed.Fields, 2)
			assert.Equal(t, tt.expected, embed.Fields[0].Value)
			assert.Equal(t, "**9**", embed.Fields[1].Value)
		})
	}
}

func TestCreateTicketsEmbed(t *testing.T) {
	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		embed := CreateTicketsEmbed(nil, &entities.LotteryState{})
		assert.Contains(t, embed.Description, "/lotto buy")
	})

	t.Run("statuses", func(t *testing.T) {
		t.Parallel()
		state := &entities.LotteryState{Epoch: 2, Boundary: 1, LastWinner: int64Ptr(1)}
		tickets := []*entities.Ticket{
			{ID: 1, MintedAtEpoch: 0},
			{ID: 2, MintedAtEpoch: 1},
			{ID: 3, MintedAtEpoch: 2},
		}
		embed := CreateTicketsEmbed(tickets, state)
		assert.Equal(t, "Your Tickets (3)", embed.Title)
		assert.Contains(t, embed.Description, "`#1` 🏆 last winner")
		assert.Contains(t, embed.Description, "`#2` in the next draw")
		assert.Contains(t, embed.Description, "`#3` waiting for next round")
	})

	t.Run("truncated", func(t *testing.T) {
		t.Parallel()
		tickets := make([]*entities.Ticket, 20)
		for i := range tickets {
			tickets[i] = &entities.Ticket{ID: int64(i + 1)}
		}
		embed := CreateTicketsEmbed(tickets, &entities.LotteryState{})
		assert.Contains(t, embed.Description, "...and 5 more")
		assert.NotContains(t, embed.Description, "`#16`")
	})
}

func TestCreatePrizeEmbed(t *testing.T) {
	t.Parallel()

	state := &entities.LotteryState{TicketPrice: unit / 10, Epoch: 3, LastWinner: int64Ptr(7), PrizeClaimed: true}
	ledger := &entities.TreasuryLedger{TotalPrincipal: 2 * unit}

	embed := CreatePrizeEmbed(state, ledger, unit/2, 18)
	assert.Equal(t, "Lotto #4", embed.Title)
	assert.Equal(t, "Current prize: **0.5**", embed.Description)
	require.Len(t, embed.Fields, 4)
	assert.Equal(t, "**0.1**", embed.Fields[0].Value)
	assert.Equal(t, "**2**", embed.Fields[1].Value)
	assert.Equal(t, "none (held idle)", embed.Fields[2].Value)
	assert.Equal(t, "Ticket #7 (claimed)", embed.Fields[3].Value)
}

func TestCreateDrawResultEmbed(t *testing.T) {
	t.Parallel()

	drawnAt := time.Date(2024, 1, 5, 14, 0, 0, 0, time.UTC)
	tests := []struct {
		name        string
		prize       uint64
		description string
	}{
		{
			name:        "with prize",
			prize:       3 * unit,
			description: "Ticket **#4** held by <@123> wins **3**!",
		},
		{
			name:        "empty pool",
			prize:       0,
			description: "Ticket **#4** held by <@123> wins, but the pool has not earned anything yet.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := &interfaces.LotteryDrawResult{
				Record: &entities.DrawRecord{
					DrawNumber:      2,
					WinningTicketID: 4,
					WinnerAccount:   "123",
					EligibleCount:   5,
					PrizeAtDraw:     tt.prize,
					DrawnAt:         drawnAt,
				},
				NextDrawNumber: 3,
			}
			embed := CreateDrawResultEmbed(result, 18)
			assert.Equal(t, "🎉 Lotto #2 Results", embed.Title)
			assert.Equal(t, tt.description, embed.Description)
			assert.Equal(t, "5", embed.Fields[0].Value)
			assert.Equal(t, "<t:1704463200:R>", embed.Fields[1].Value)
			assert.Contains(t, embed.Footer.Text, "next is Lotto #3")
		})
	}
}

func TestCreateHistoryEmbed(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "No draws yet", CreateHistoryEmbed(nil, 18).Description)

	draws := []*entities.DrawRecord{
		{DrawNumber: 2, WinningTicketID: 9, PrizeAtDraw: unit, EligibleCount: 3},
		{DrawNumber: 1, WinningTicketID: 1, PrizeAtDraw: 0, EligibleCount: 1},
	}
	embed := CreateHistoryEmbed(draws, 18)
	assert.Contains(t, embed.Description, "**#2**")
	assert.Contains(t, embed.Description, "ticket `#9` **1** (3 tickets)")
	assert.Contains(t, embed.Description, "ticket `#1` **0** (1 tickets)")
}
