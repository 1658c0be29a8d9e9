// Package cache contains handlers that are *only* used for caching.
// These should not send messages at any point.
package cache

import (
	"sync"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/starshine-sys/nbot/bot"
	"github.com/starshine-sys/nbot/common/log"
)

type Bot struct {
	*bot.Bot

	guildsMu             sync.Mutex
	guildsToFetchMembers map[discord.GuildID]struct{}

	fetchOnce sync.Once
}

func Setup(root *bot.Bot) {
	log.Debug("Adding cache handlers")

	bot := newBot(root)

	bot.AddHandler(
		// start the fetch loop once any shard is ready
		func(*gateway.ReadyEvent) {
			bot.fetchOnce.Do(func() {
				go bot.fetchLoop()
			})
		},
		// cache members from guild create if the guild is small enough, otherwise queue it for fetching
		bot.guildCreate,
		bot.guildDelete,
		// keep cached members up to date
		bot.guildMemberAdd,
		bot.guildMemberUpdate,
		bot.guildMemberRemove,
		// drop cached webhooks when a channel's webhooks change
		bot.webhooksUpdate,
	)
}

func newBot(root *bot.Bot) *Bot {
	return &Bot{
		Bot:                  root,
		guildsToFetchMembers: make(map[discord.GuildID]struct{}),
	}
}
