package colors

import (
	"context"
	"strings"
	"time"

	"emperror.dev/errors"
	"github.com/starshine-sys/bcr"
	"github.com/starshine-sys/nbot/colors"
)

func (bot *Bot) color(ctx *bcr.Context) (err error) {
	bot.Stats.IncCommand()

	perms, err := ctx.State.Permissions(ctx.Message.ChannelID, bot.Me().ID)
	if err != nil {
		return bot.ReportError(ctx, err)
	}
	if !perms.Has(botPermissions) {
		return ctx.SendX("I need the **Manage Roles** permission to do that.")
	}

	hex := strings.TrimPrefix(ctx.Args[0], "#")

	c, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err = bot.Colors.SetColor(c, ctx.Message.GuildID, *ctx.Member, hex)
	if err != nil {
		var ae *colors.AssignError
		switch {
		case errors.Is(err, colors.ErrInvalidHex):
			return ctx.SendX("Invalid hex code. Usage: `/color 44ff00`.")
		case errors.Is(err, colors.ErrNoRoleSlots):
			return ctx.SendX("No custom role slots left!")
		case errors.As(err, &ae):
			return ctx.SendfX("Failed to assign new color: %v", ae.Err)
		}
		return bot.ReportError(ctx, err)
	}

	return ctx.State.React(ctx.Message.ChannelID, ctx.Message.ID, "✅")
}
