package common

import (
	"github.com/bwmarrin/discordgo"
)

// UserID returns the invoking user's ID for guild and DM interactions
func UserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

// Options flattens the options of a command, subcommand group or subcommand
// into the name of the innermost subcommand and its options by name
func Options(options []*discordgo.ApplicationCommandInteractionDataOption) (string, map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	var path string
	for len(options) == 1 &&
		(options[0].Type == discordgo.ApplicationCommandOptionSubCommandGroup ||
			options[0].Type == discordgo.ApplicationCommandOptionSubCommand) {
		if path != "" {
			path += " "
		}
		path += options[0].Name
		options = options[0].Options
	}

	byName := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		byName[opt.Name] = opt
	}
	return path, byName
}
