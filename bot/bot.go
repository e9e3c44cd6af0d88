package bot

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"prizepool/application"
	"prizepool/bot/features/balance"
	"prizepool/bot/features/lottery"
	"prizepool/domain/entities"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token            string
	GuildID          string // Commands are registered globally when empty
	LotteryChannelID string
	AdminIDs         []string
	Owner            entities.AccountID
	Decimals         int32
	StrategyNames    []string
}

// Bot manages the Discord bot and all feature modules
type Bot struct {
	config  Config
	session *discordgo.Session
	handler *application.LotteryHandler

	debugServer *http.Server

	// Feature modules
	balance *balance.Feature
	lottery *lottery.Feature
}

// New creates a new bot instance with all features
func New(config Config, handler *application.LotteryHandler) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds

	bot := &Bot{
		config:  config,
		session: dg,
		handler: handler,
	}

	bot.balance = balance.NewFeature(dg, handler, config.Decimals)
	bot.lottery = lottery.NewFeature(dg, handler, lottery.Settings{
		ChannelID: config.LotteryChannelID,
		Owner:     config.Owner,
		AdminIDs:  config.AdminIDs,
		Decimals:  config.Decimals,
	})

	dg.AddHandler(bot.handleCommands)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	if err := bot.StartDebugAPI(debugPort); err != nil {
		log.Warnf("Failed to start debug API on port %d: %v", debugPort, err)
	}

	log.WithFields(log.Fields{
		"guild_id":           config.GuildID,
		"lottery_channel_id": config.LotteryChannelID,
	}).Info("Discord bot connected")

	return bot, nil
}

// Close gracefully shuts down the bot
func (b *Bot) Close() error {
	if b.debugServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := b.debugServer.Shutdown(ctx); err != nil {
			log.WithError(err).Warn("Error stopping debug API")
		}
	}
	return b.session.Close()
}

// GetSession returns the Discord session
func (b *Bot) GetSession() *discordgo.Session {
	return b.session
}

// GetDrawPoster returns the lottery feature as a DrawPoster
func (b *Bot) GetDrawPoster() application.DrawPoster {
	return b.lottery
}

// handleCommands routes slash commands to appropriate handlers
func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "balance":
		b.balance.HandleCommand(s, i)
	case "lotto":
		b.lottery.HandleCommand(s, i)
	default:
		log.Warnf("Unknown command: %s", i.ApplicationCommandData().Name)
	}
}
