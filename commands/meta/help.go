package meta

import (
	"fmt"
	"strings"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/bcr"
	"github.com/starshine-sys/nbot/common"
)

func (b *Bot) help(ctx *bcr.Context) (err error) {
	b.Stats.IncCommand()

	prefix := b.Config.Bot.Prefixes[0]

	commands := []struct{ usage, summary string }{
		{"color <hex>", "Give yourself a role with the given colour."},
		{"add <name> <url>", "Register an emote. Use it in any message as `$name`."},
		{"remove <name>", "Remove an emote you registered."},
		{"emotes [--mine]", "List all registered emotes."},
		{"ping", "Show the bot's latency."},
	}

	var s strings.Builder
	for _, c := range commands {
		fmt.Fprintf(&s, "`%v%v`: %v\n", prefix, c.usage, c.summary)
	}

	_, err = ctx.Send("", discord.Embed{
		Title:       "nbot",
		Description: "Any `$name` in your messages is replaced with the matching emote, even without Nitro.",
		Color:       common.ColourPurple,
		Fields: []discord.EmbedField{{
			Name:  "Commands",
			Value: s.String(),
		}},
		Footer: &discord.EmbedFooter{
			Text: "Version " + common.Version(),
		},
	})
	return err
}
