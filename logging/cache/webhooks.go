package cache

import (
	"context"
	"time"

	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/starshine-sys/nbot/common/log"
)

// webhooksUpdate drops the cached webhook for the channel, as it might have been deleted.
// The next message in the channel will look it up again.
func (bot *Bot) webhooksUpdate(ev *gateway.WebhooksUpdateEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := bot.Store.DeleteWebhook(ctx, ev.ChannelID)
	if err != nil {
		log.Errorf("deleting cached webhook for %v: %v", ev.ChannelID, err)
	}
}
