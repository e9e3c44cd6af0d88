package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLottoCommand(t *testing.T) {
	t.Parallel()

	cmd := lottoCommand([]string{"hold", "vault"})
	assert.Equal(t, "lotto", cmd.Name)

	names := make(map[string]*discordgo.ApplicationCommandOption)
	for _, opt := range cmd.Options {
		names[opt.Name] = opt
	}
	for _, name := range []string{"buy", "refund", "tickets", "prize", "claim", "eligible", "draw", "history", "deposit", "admin"} {
		assert.Contains(t, names, name)
	}

	admin := names["admin"]
	require.Equal(t, discordgo.ApplicationCommandOptionSubCommandGroup, admin.Type)
	require.Len(t, admin.Options, 3)

	strategy := admin.Options[1]
	assert.Equal(t, "strategy", strategy.Name)
	require.Len(t, strategy.Options[0].Choices, 2)
	assert.Equal(t, "vault", strategy.Options[0].Choices[1].Value)
}
