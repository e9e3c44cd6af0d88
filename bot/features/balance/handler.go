package balance

import (
	"context"
	"fmt"
	"strings"

	"prizepool/bot/common"
	"prizepool/domain/entities"

	"github.com/bwmarrin/discordgo"
)

func (f *Feature) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	accountID := entities.AccountID(common.UserID(i))

	account, err := f.handler.Account(ctx, accountID)
	if err != nil {
		return common.FromDomainError(err, "failed to load account")
	}

	history, err := f.handler.BalanceHistory(ctx, accountID, historyLimit)
	if err != nil {
		return common.NewSystemError(err, "failed to load balance history")
	}

	return common.RespondWithEmbed(s, i, CreateBalanceEmbed(account, history, f.decimals), true)
}

// CreateBalanceEmbed shows an account's balance and its latest changes
func CreateBalanceEmbed(account *entities.Account, history []*entities.BalanceHistory, decimals int32) *discordgo.MessageEmbed {
	recent := "No activity yet"
	if len(history) > 0 {
		lines := make([]string, 0, len(history))
		for _, entry := range history {
			lines = append(lines, fmt.Sprintf("%s `%s` %s %s",
				activityIcon(entry),
				common.FormatSignedAmount(entry.ChangeAmount, decimals),
				entry.GetTransactionDescription(),
				common.FormatDiscordTimestamp(entry.CreatedAt, "R")))
		}
		recent = strings.Join(lines, "\n")
	}

	return &discordgo.MessageEmbed{
		Title:       "Your Balance",
		Color:       common.ColorPrimary,
		Description: common.FormatAmount(account.Balance, decimals),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Recent Activity",
				Value:  recent,
				Inline: false,
			},
		},
	}
}

func activityIcon(entry *entities.BalanceHistory) string {
	switch {
	case entry.TransactionType.IsSystemGenerated():
		return "🎁"
	case entry.TransactionType.IsLotteryRelated():
		return "🎟️"
	case entry.IsPositiveChange():
		return "📈"
	default:
		return "📉"
	}
}
