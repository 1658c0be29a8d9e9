package cache

import (
	"context"
	"time"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/starshine-sys/nbot/common/log"
	"github.com/starshine-sys/nbot/store"
)

// Member events for guilds that aren't cached yet are ignored, as the guild will be fetched in full later.

func (bot *Bot) guildMemberAdd(ev *gateway.GuildMemberAddEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if !bot.isCached(ctx, ev.GuildID) {
		return
	}

	err := bot.Store.SetMember(ctx, ev.GuildID, ev.Member)
	if err != nil {
		log.Errorf("setting member %v in %v: %v", ev.User.ID, ev.GuildID, err)
	}
}

func (bot *Bot) guildMemberUpdate(ev *gateway.GuildMemberUpdateEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if !bot.isCached(ctx, ev.GuildID) {
		return
	}

	m, err := bot.Store.Member(ctx, ev.GuildID, ev.User.ID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Errorf("getting member %v in %v: %v", ev.User.ID, ev.GuildID, err)
			return
		}
		m = discord.Member{User: ev.User}
	}

	ev.UpdateMember(&m)

	err = bot.Store.SetMember(ctx, ev.GuildID, m)
	if err != nil {
		log.Errorf("setting member %v in %v: %v", ev.User.ID, ev.GuildID, err)
	}
}

func (bot *Bot) guildMemberRemove(ev *gateway.GuildMemberRemoveEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := bot.Store.DeleteMember(ctx, ev.GuildID, ev.User.ID)
	if err != nil {
		log.Errorf("deleting member %v in %v: %v", ev.User.ID, ev.GuildID, err)
	}
}

func (bot *Bot) isCached(ctx context.Context, guildID discord.GuildID) bool {
	cached, err := bot.Store.IsGuildCached(ctx, guildID)
	if err != nil {
		log.Errorf("checking if guild %v is cached: %v", guildID, err)
		return false
	}
	return cached
}
