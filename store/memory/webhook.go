package memory

import (
	"context"

	"emperror.dev/errors"
	"github.com/ReneKroon/ttlcache/v2"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/nbot/store"
)

func (s *Store) Webhook(_ context.Context, channelID discord.ChannelID) (discord.Webhook, error) {
	v, err := s.webhooks.Get(channelID.String())
	if err != nil {
		if errors.Is(err, ttlcache.ErrNotFound) {
			return discord.Webhook{}, store.ErrNotFound
		}
		return discord.Webhook{}, err
	}

	wh, ok := v.(discord.Webhook)
	if !ok {
		return discord.Webhook{}, store.ErrNotFound
	}
	return wh, nil
}

func (s *Store) SetWebhook(_ context.Context, channelID discord.ChannelID, wh discord.Webhook) error {
	return s.webhooks.Set(channelID.String(), wh)
}

func (s *Store) DeleteWebhook(_ context.Context, channelID discord.ChannelID) error {
	err := s.webhooks.Remove(channelID.String())
	if errors.Is(err, ttlcache.ErrNotFound) {
		return nil
	}
	return err
}
