package emotes

import (
	"context"
	"time"

	"emperror.dev/errors"
	"github.com/starshine-sys/bcr"
	"github.com/starshine-sys/nbot/db"
	"github.com/starshine-sys/nbot/emotes"
)

func (bot *Bot) add(ctx *bcr.Context) (err error) {
	bot.Stats.IncCommand()

	name := ctx.Args[0]
	url := ctx.Args[1]

	// url might be wrapped in <> to suppress the embed
	if len(url) > 2 && url[0] == '<' && url[len(url)-1] == '>' {
		url = url[1 : len(url)-1]
	}

	if !emotes.ValidName(name) {
		return ctx.SendX("Emote names must be 2 to 32 characters long and can only contain letters, numbers, and underscores.")
	}

	c, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err = bot.Registry.Add(c, ctx.Message.GuildID, ctx.Author.ID, name, url)
	if err != nil {
		if errors.Is(err, db.ErrDuplicateName) {
			return ctx.SendX("Emote with that name already exists")
		}

		var ce *emotes.CreationError
		if errors.As(err, &ce) {
			return ctx.SendfX("Couldn't create an emoji from that image: %v", ce.Err)
		}

		return bot.ReportError(ctx, err)
	}

	return ctx.SendfX("Added emote `$%v`", name)
}
