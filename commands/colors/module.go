// Package colors contains the colour role command.
package colors

import (
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/bcr"
	"github.com/starshine-sys/nbot/bot"
	"github.com/starshine-sys/nbot/common/log"
)

type Bot struct {
	*bot.Bot
}

func Setup(root *bot.Bot) {
	log.Debug("Adding color commands")

	b := &Bot{Bot: root}

	b.Router.AddCommand(&bcr.Command{
		Name:        "color",
		Aliases:     []string{"hex", "colorme", "colour"},
		Summary:     "Give yourself a role with the given colour.",
		Description: "Give yourself a role with the given colour, replacing any colour role you already have.",
		Usage:       "<hex>",
		Args:        bcr.MinArgs(1),
		GuildOnly:   true,
		Command:     b.color,
	})
}

const botPermissions = discord.PermissionManageRoles
