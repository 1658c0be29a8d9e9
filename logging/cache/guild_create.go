package cache

import (
	"context"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/starshine-sys/nbot/common/log"
)

func (bot *Bot) guildCreate(ev *gateway.GuildCreateEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	isCached, err := bot.Store.IsGuildCached(ctx, ev.ID)
	if err != nil {
		log.Errorf("checking if guild %v is cached: %v", ev.ID, err)
		return
	}

	if isCached {
		return
	}

	// large guilds only send online members, so the full list has to be fetched separately
	if ev.Large {
		bot.guildsMu.Lock()
		defer bot.guildsMu.Unlock()

		bot.addToMemberFetchQueue(ev.ID)
		return
	}

	err = bot.Store.SetMembers(ctx, ev.ID, ev.Members)
	if err != nil {
		log.Errorf("setting members for %v: %v", ev.ID, err)
		return
	}

	err = bot.Store.MarkGuildCached(ctx, ev.ID)
	if err != nil {
		log.Errorf("marking guild %v as cached: %v", ev.ID, err)
	}
}

func (bot *Bot) guildDelete(ev *gateway.GuildDeleteEvent) {
	// the guild is only unavailable, we're still in it
	if ev.Unavailable {
		return
	}

	bot.guildsMu.Lock()
	delete(bot.guildsToFetchMembers, ev.ID)
	bot.guildsMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := bot.Store.DeleteGuild(ctx, ev.ID)
	if err != nil {
		log.Errorf("deleting guild %v from cache: %v", ev.ID, err)
	}
}

func (bot *Bot) addToMemberFetchQueue(guildID discord.GuildID) {
	bot.guildsToFetchMembers[guildID] = struct{}{}
}
