// Package emotes contains the emote management commands and the message listener that substitutes emotes.
package emotes

import (
	"github.com/spf13/pflag"
	"github.com/starshine-sys/bcr"
	"github.com/starshine-sys/nbot/bot"
	"github.com/starshine-sys/nbot/common/log"
)

type Bot struct {
	*bot.Bot
}

func Setup(root *bot.Bot) {
	log.Debug("Adding emote commands and handlers")

	b := &Bot{Bot: root}

	b.Router.AddCommand(&bcr.Command{
		Name:        "add",
		Summary:     "Register an emote.",
		Description: "Register an emote that anyone can use by writing `$name` in a message. The image must be a PNG, JPEG, or GIF.",
		Usage:       "<name> <url>",
		Args:        bcr.MinArgs(2),
		GuildOnly:   true,
		Command:     b.add,
	})

	b.Router.AddCommand(&bcr.Command{
		Name:    "remove",
		Aliases: []string{"rm"},
		Summary: "Remove an emote you registered.",
		Usage:   "<name>",
		Args:    bcr.MinArgs(1),
		Command: b.remove,
	})

	b.Router.AddCommand(&bcr.Command{
		Name:    "emotes",
		Aliases: []string{"list"},
		Summary: "List registered emotes.",
		Usage:   "[--mine]",
		Flags: func(fs *pflag.FlagSet) *pflag.FlagSet {
			fs.BoolP("mine", "m", false, "Only show emotes you registered.")
			return fs
		},
		Command: b.list,
	})

	b.AddHandler(b.messageCreate)
}
