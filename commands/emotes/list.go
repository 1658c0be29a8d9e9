package emotes

import (
	"context"
	"fmt"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/dustin/go-humanize"
	"github.com/starshine-sys/bcr"
	"github.com/starshine-sys/nbot/db"
)

func (bot *Bot) list(ctx *bcr.Context) (err error) {
	bot.Stats.IncCommand()

	var owner discord.UserID
	if mine, _ := ctx.Flags.GetBool("mine"); mine {
		owner = ctx.Author.ID
	}

	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	es, err := bot.Registry.List(c, owner)
	if err != nil {
		return bot.ReportError(ctx, err)
	}

	if len(es) == 0 {
		if owner.IsValid() {
			return ctx.SendX("You haven't registered any emotes.")
		}
		return ctx.SendX("There are no emotes registered.")
	}

	title := fmt.Sprintf("Emotes (%v)", len(es))
	if owner.IsValid() {
		title = fmt.Sprintf("Your emotes (%v)", len(es))
	}

	_, _, err = ctx.ButtonPages(
		bcr.StringPaginator(title, bcr.ColourPurple, emoteLines(es), 20), 10*time.Minute,
	)
	return err
}

func emoteLines(es []db.Emote) []string {
	s := make([]string, len(es))
	for i, e := range es {
		s[i] = fmt.Sprintf("`$%v` by %v, added %v\n", bcr.EscapeBackticks(e.Name), e.Owner.Mention(), humanize.Time(e.Created))
	}
	return s
}
