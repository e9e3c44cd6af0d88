package lottery

import (
	"context"
	"fmt"

	"prizepool/application"
	"prizepool/bot/common"
	"prizepool/domain/entities"
	"prizepool/domain/interfaces"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Settings configures the lottery feature
type Settings struct {
	ChannelID string             // Where draw results are announced
	Owner     entities.AccountID // Account admins act as
	AdminIDs  []string
	Decimals  int32
}

// Feature represents the lottery feature
type Feature struct {
	session  *discordgo.Session
	handler  *application.LotteryHandler
	settings Settings
	admins   map[string]bool
}

// NewFeature creates a new lottery feature instance
func NewFeature(session *discordgo.Session, handler *application.LotteryHandler, settings Settings) *Feature {
	admins := make(map[string]bool, len(settings.AdminIDs))
	for _, id := range settings.AdminIDs {
		admins[id] = true
	}
	return &Feature{
		session:  session,
		handler:  handler,
		settings: settings,
		admins:   admins,
	}
}

// HandleCommand routes /lotto subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	subcommand, options := common.Options(i.ApplicationCommandData().Options)

	var err error
	switch subcommand {
	case "buy":
		err = f.handleBuy(s, i)
	case "refund":
		err = f.handleRefund(s, i, options)
	case "tickets":
		err = f.handleTickets(s, i)
	case "prize":
		err = f.handlePrize(s, i)
	case "claim":
		err = f.handleClaim(s, i, options)
	case "eligible":
		err = f.handleEligible(s, i, options)
	case "draw":
		err = f.handleDraw(s, i)
	case "history":
		err = f.handleHistory(s, i)
	case "deposit":
		err = f.handleDeposit(s, i, options)
	case "admin withdraw", "admin strategy", "admin grant":
		if !f.admins[common.UserID(i)] {
			err = common.NewUserError("Only lottery admins can do that.", "non-admin used admin command")
			break
		}
		switch subcommand {
		case "admin withdraw":
			err = f.handleAdminWithdraw(s, i, options)
		case "admin strategy":
			err = f.handleAdminStrategy(s, i, options)
		case "admin grant":
			err = f.handleAdminGrant(s, i, options)
		}
	default:
		err = common.NewUserError("Unknown lottery command", fmt.Sprintf("unknown lotto subcommand %q", subcommand))
	}

	if err != nil {
		common.HandleError(s, i, err, false)
	}
}

// PostDrawResult announces a completed draw in the lottery channel (implements DrawPoster)
func (f *Feature) PostDrawResult(ctx context.Context, result *interfaces.LotteryDrawResult) error {
	if f.settings.ChannelID == "" {
		log.Debug("No lottery channel configured, not announcing draw")
		return nil
	}

	embed := CreateDrawResultEmbed(result, f.settings.Decimals)
	if _, err := f.session.ChannelMessageSendEmbed(f.settings.ChannelID, embed); err != nil {
		return fmt.Errorf("failed to post lottery result: %w", err)
	}

	log.WithFields(log.Fields{
		"draw_number": result.Record.DrawNumber,
		"channel_id":  f.settings.ChannelID,
	}).Info("Posted lottery result to Discord")
	return nil
}
