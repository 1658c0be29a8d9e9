package redis

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/mediocregopher/radix/v4"
	"github.com/starshine-sys/nbot/store"
)

// WebhookTTL is how long a webhook is cached for.
const WebhookTTL = 24 * time.Hour

func webhookKey(channelID discord.ChannelID) string {
	return "webhook:" + channelID.String()
}

func (s *Store) Webhook(ctx context.Context, channelID discord.ChannelID) (wh discord.Webhook, err error) {
	var raw []byte

	err = s.client.Do(ctx, radix.Cmd(&raw, "GET", webhookKey(channelID)))
	if err != nil {
		return wh, err
	}

	if raw == nil {
		return wh, store.ErrNotFound
	}

	return wh, errors.Wrap(json.Unmarshal(raw, &wh), "unmarshaling webhook")
}

func (s *Store) SetWebhook(ctx context.Context, channelID discord.ChannelID, wh discord.Webhook) error {
	b, err := json.Marshal(wh)
	if err != nil {
		return errors.Wrap(err, "marshaling webhook")
	}

	return s.client.Do(ctx, radix.Cmd(nil, "SET", webhookKey(channelID), string(b), "EX", strconv.Itoa(int(WebhookTTL.Seconds()))))
}

func (s *Store) DeleteWebhook(ctx context.Context, channelID discord.ChannelID) error {
	return s.client.Do(ctx, radix.Cmd(nil, "DEL", webhookKey(channelID)))
}
