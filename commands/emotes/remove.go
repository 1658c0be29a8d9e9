package emotes

import (
	"context"
	"fmt"
	"time"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/bcr"
	"github.com/starshine-sys/nbot/common"
	"github.com/starshine-sys/nbot/db"
)

func (bot *Bot) remove(ctx *bcr.Context) (err error) {
	bot.Stats.IncCommand()

	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	e, err := bot.Registry.Remove(c, ctx.Args[0], ctx.Author.ID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ctx.SendX("You don't own an emote with that name.")
		}
		return bot.ReportError(ctx, err)
	}

	return ctx.SendX("", discord.Embed{
		Title:       "Removed emote",
		Description: fmt.Sprintf("`$%v`\n<%v>", bcr.EscapeBackticks(e.Name), e.URL),
		Color:       common.ColourPurple,
		Footer: &discord.EmbedFooter{
			Text: "Registered",
		},
		Timestamp: discord.NewTimestamp(e.Created),
	})
}
