package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

func ticketOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "ticket",
		Description: description,
		Required:    true,
	}
}

func amountOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "amount",
		Description: description,
		Required:    true,
	}
}

func userOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "user",
		Description: description,
		Required:    true,
	}
}

// lottoCommand builds the /lotto command tree
func lottoCommand(strategyNames []string) *discordgo.ApplicationCommand {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(strategyNames))
	for _, name := range strategyNames {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: name, Value: name})
	}

	return &discordgo.ApplicationCommand{
		Name:        "lotto",
		Description: "No-loss lottery: buy tickets, refund any time, win the yield",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "buy",
				Description: "Buy a ticket at the current ticket price",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "refund",
				Description: "Burn one of your tickets and get its price back",
				Options:     []*discordgo.ApplicationCommandOption{ticketOption("Ticket to refund")},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "tickets",
				Description: "List your tickets",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "prize",
				Description: "Show the current prize and pool",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "claim",
				Description: "Collect the prize with the winning ticket",
				Options:     []*discordgo.ApplicationCommandOption{ticketOption("Winning ticket")},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "eligible",
				Description: "Check whether a ticket takes part in the next draw",
				Options:     []*discordgo.ApplicationCommandOption{ticketOption("Ticket to check")},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "draw",
				Description: "Run the draw now",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "history",
				Description: "Show recent draws",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "deposit",
				Description: "Donate to the prize pool",
				Options:     []*discordgo.ApplicationCommandOption{amountOption("Amount to donate, e.g. 0.5")},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
				Name:        "admin",
				Description: "Treasury administration (admins only)",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionSubCommand,
						Name:        "withdraw",
						Description: "Send funds out of the treasury",
						Options: []*discordgo.ApplicationCommandOption{
							userOption("Recipient"),
							amountOption("Amount to withdraw"),
						},
					},
					{
						Type:        discordgo.ApplicationCommandOptionSubCommand,
						Name:        "strategy",
						Description: "Switch the treasury strategy",
						Options: []*discordgo.ApplicationCommandOption{
							{
								Type:        discordgo.ApplicationCommandOptionString,
								Name:        "name",
								Description: "Strategy to use",
								Required:    true,
								Choices:     choices,
							},
						},
					},
					{
						Type:        discordgo.ApplicationCommandOptionSubCommand,
						Name:        "grant",
						Description: "Credit funds to a player",
						Options: []*discordgo.ApplicationCommandOption{
							userOption("Player to credit"),
							amountOption("Amount to grant"),
						},
					},
				},
			},
		},
	}
}

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "balance",
			Description: "Check your current balance",
		},
		lottoCommand(b.config.StrategyNames),
	}

	for _, cmd := range commands {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}

	return nil
}
