package commands

import (
	"fmt"
	"strings"

	"github.com/catmaikl/cosatkaclickmserv/cosatka"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

var Version = discord.SlashCommandCreate{
	Name:        "version",
	Description: "Show the bot version and available games",
}

func VersionHandler(b *cosatka.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		return e.CreateMessage(discord.MessageCreate{
			Content: fmt.Sprintf("Version: %s\nCommit: %s\nGames: %s", b.Version, b.Commit, strings.Join(b.Games(), ", ")),
			Flags:   discord.MessageFlagEphemeral,
		})
	}
}
