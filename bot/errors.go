package bot

import (
	"fmt"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/starshine-sys/bcr"
	"github.com/starshine-sys/nbot/common"
	"github.com/starshine-sys/nbot/common/log"
)

// ReportError logs err, sends it to Sentry if it's enabled, and tells the user an error occurred.
func (b *Bot) ReportError(ctx *bcr.Context, err error) error {
	id := b.captureError(ctx, err)

	log.Errorf("Error in command %v (id %v): %v", ctx.Command, id, err)

	_, mErr := ctx.Send(fmt.Sprintf("Error code: ``%v``", id), discord.Embed{
		Title:       "Internal error occurred",
		Description: "An internal error has occurred. If this issue persists, please contact the bot owner with the error code above.",
		Color:       common.ColourRed,
		Timestamp:   discord.NowTimestamp(),
		Footer: &discord.EmbedFooter{
			Text: id,
		},
	})
	return mErr
}

// captureError sends err to Sentry, returning the event ID.
// If Sentry isn't enabled, it returns a random ID so the error can still be found in logs.
func (b *Bot) captureError(ctx *bcr.Context, err error) string {
	if b.Config.Auth.Sentry == "" {
		return uuid.New().String()
	}

	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetUser(sentry.User{ID: ctx.Author.ID.String()})
		scope.SetTag("command", ctx.Command)
		if ctx.Message.GuildID.IsValid() {
			scope.SetTag("guild", ctx.Message.GuildID.String())
		}
	})

	hub.AddBreadcrumb(&sentry.Breadcrumb{
		Category:  "command",
		Message:   ctx.Message.Content,
		Level:     sentry.LevelError,
		Timestamp: time.Now().UTC(),
	}, nil)

	id := hub.CaptureException(err)
	if id == nil {
		return uuid.New().String()
	}
	return string(*id)
}
