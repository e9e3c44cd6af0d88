package balance

import (
	"prizepool/application"
	"prizepool/bot/common"

	"github.com/bwmarrin/discordgo"
)

const historyLimit = 5

// Feature represents the balance feature
type Feature struct {
	session  *discordgo.Session
	handler  *application.LotteryHandler
	decimals int32
}

// NewFeature creates a new balance feature instance
func NewFeature(session *discordgo.Session, handler *application.LotteryHandler, decimals int32) *Feature {
	return &Feature{
		session:  session,
		handler:  handler,
		decimals: decimals,
	}
}

// HandleCommand handles /balance
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := f.handleBalance(s, i); err != nil {
		common.HandleError(s, i, err, false)
	}
}
