// Package meta contains commands about the bot itself.
package meta

import (
	"github.com/starshine-sys/bcr"
	"github.com/starshine-sys/nbot/bot"
	"github.com/starshine-sys/nbot/common/log"
)

type Bot struct {
	*bot.Bot
}

func Setup(root *bot.Bot) {
	log.Debug("Adding meta commands")

	b := &Bot{Bot: root}

	b.Router.AddCommand(&bcr.Command{
		Name:    "ping",
		Summary: "Show the bot's latency.",
		Command: b.ping,
	})

	b.Router.AddCommand(&bcr.Command{
		Name:    "help",
		Aliases: []string{"about"},
		Summary: "Show information about the bot.",
		Command: b.help,
	})
}
