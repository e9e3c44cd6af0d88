package lottery

import (
	"fmt"
	"strings"

	"prizepool/bot/common"
	"prizepool/domain/entities"
	"prizepool/domain/interfaces"
	"prizepool/domain/utils"

	"github.com/bwmarrin/discordgo"
)

// CreatePurchaseEmbed creates an ephemeral embed confirming a ticket purchase
func CreatePurchaseEmbed(ticket *entities.Ticket, state *entities.LotteryState, newBalance uint64, decimals int32) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Ticket Purchased!",
		Color:       common.ColorSuccess,
		Description: fmt.Sprintf("You bought ticket **#%d** for %s", ticket.ID, common.FormatAmount(ticket.Principal, decimals)),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "First Draw",
				Value:  fmt.Sprintf("#%d", firstDrawFor(ticket, state)),
				Inline: true,
			},
			{
				Name:   "New Balance",
				Value:  common.FormatAmount(newBalance, decimals),
				Inline: true,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Refund any time with /lotto refund",
		},
	}
}

// firstDrawFor returns the number of the first draw a ticket takes part in
func firstDrawFor(ticket *entities.Ticket, state *entities.LotteryState) uint64 {
	if ticket.IsEligible(state.Boundary) {
		return state.DrawNumber()
	}
	return state.DrawNumber() + 1
}

// CreateTicketsEmbed lists a participant's live tickets
func CreateTicketsEmbed(tickets []*entities.Ticket, state *entities.LotteryState) *discordgo.MessageEmbed {
	if len(tickets) == 0 {
		return &discordgo.MessageEmbed{
			Title:       "Your Tickets",
			Color:       common.ColorInfo,
			Description: "You don't hold any tickets. Buy one with /lotto buy",
		}
	}

	shown := min(len(tickets), common.MaxTicketsShown)
	lines := make([]string, 0, shown+1)
	for _, ticket := range tickets[:shown] {
		status := "waiting for next round"
		if ticket.IsEligible(state.Boundary) {
			status = "in the next draw"
		}
		if state.IsWinningTicket(ticket.ID) {
			status = "🏆 last winner"
		}
		lines = append(lines, fmt.Sprintf("`#%d` %s", ticket.ID, status))
	}
	if len(tickets) > shown {
		lines = append(lines, fmt.Sprintf("...and %d more", len(tickets)-shown))
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Your Tickets (%d)", len(tickets)),
		Color:       common.ColorInfo,
		Description: strings.Join(lines, "\n"),
	}
}

// CreatePrizeEmbed shows the pool and the prize for the upcoming draw
func CreatePrizeEmbed(state *entities.LotteryState, ledger *entities.TreasuryLedger, prize uint64, decimals int32) *discordgo.MessageEmbed {
	strategy := ledger.StrategyName
	if strategy == "" {
		strategy = "none (held idle)"
	}

	lastWinner := "No draws yet"
	if state.HasWinner() {
		lastWinner = fmt.Sprintf("Ticket #%d", *state.LastWinner)
		if state.PrizeClaimed {
			lastWinner += " (claimed)"
		}
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Lotto #%d", state.DrawNumber()),
		Color:       common.ColorPrimary,
		Description: fmt.Sprintf("Current prize: %s", common.FormatAmount(prize, decimals)),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Ticket Price",
				Value:  common.FormatAmount(state.TicketPrice, decimals),
				Inline: true,
			},
			{
				Name:   "Principal",
				Value:  common.FormatAmount(ledger.TotalPrincipal, decimals),
				Inline: true,
			},
			{
				Name:   "Strategy",
				Value:  strategy,
				Inline: true,
			},
			{
				Name:   "Last Winner",
				Value:  lastWinner,
				Inline: false,
			},
		},
	}
}

// CreateDrawResultEmbed creates an embed for a completed draw
func CreateDrawResultEmbed(result *interfaces.LotteryDrawResult, decimals int32) *discordgo.MessageEmbed {
	record := result.Record

	description := fmt.Sprintf("Ticket **#%d** held by %s wins %s!",
		record.WinningTicketID, common.Mention(string(record.WinnerAccount)), common.FormatAmount(record.PrizeAtDraw, decimals))
	if record.PrizeAtDraw == 0 {
		description = fmt.Sprintf("Ticket **#%d** held by %s wins, but the pool has not earned anything yet.",
			record.WinningTicketID, common.Mention(string(record.WinnerAccount)))
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🎉 Lotto #%d Results", record.DrawNumber),
		Color:       common.ColorSuccess,
		Description: description,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Tickets In Draw",
				Value:  utils.FormatShortNotation(uint64(record.EligibleCount)),
				Inline: true,
			},
			{
				Name:   "Drawn",
				Value:  common.FormatDiscordTimestamp(record.DrawnAt, "R"),
				Inline: true,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Claim with /lotto claim ticket:%d • next is Lotto #%d", record.WinningTicketID, result.NextDrawNumber),
		},
	}
}

// CreateHistoryEmbed lists recent draws, newest first
func CreateHistoryEmbed(draws []*entities.DrawRecord, decimals int32) *discordgo.MessageEmbed {
	if len(draws) == 0 {
		return &discordgo.MessageEmbed{
			Title:       "Draw History",
			Color:       common.ColorInfo,
			Description: "No draws yet",
		}
	}

	lines := make([]string, 0, len(draws))
	for _, draw := range draws {
		lines = append(lines, fmt.Sprintf("**#%d** %s ticket `#%d` %s (%d tickets)",
			draw.DrawNumber,
			common.FormatDiscordTimestamp(draw.DrawnAt, "d"),
			draw.WinningTicketID,
			common.FormatAmount(draw.PrizeAtDraw, decimals),
			draw.EligibleCount))
	}

	return &discordgo.MessageEmbed{
		Title:       "Draw History",
		Color:       common.ColorInfo,
		Description: strings.Join(lines, "\n"),
	}
}
