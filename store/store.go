// Package store defines interfaces for a persistent data store for members and webhooks.
// Members aren't sent in guild create events for large guilds, so we fetch them once and keep them up to date from gateway events.
// Moving them out of the bot means these caches can survive bot restarts, if the store itself is persistent.
package store

import (
	"context"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
)

const ErrNotFound = errors.Sentinel("value not found in store")

type Store interface {
	MemberStore
	WebhookStore

	Close() error
}

type MemberStore interface {
	IsGuildCached(ctx context.Context, guildID discord.GuildID) (bool, error)
	MarkGuildCached(ctx context.Context, guildID discord.GuildID) error

	Member(ctx context.Context, guildID discord.GuildID, userID discord.UserID) (discord.Member, error)
	Members(ctx context.Context, guildID discord.GuildID) ([]discord.Member, error)
	SetMember(ctx context.Context, guildID discord.GuildID, m discord.Member) error
	MemberExists(ctx context.Context, guildID discord.GuildID, userID discord.UserID) (bool, error)

	// This can easily just wrap SetMember, this function is separate for optimization reasons
	SetMembers(ctx context.Context, guildID discord.GuildID, ms []discord.Member) error

	DeleteMember(ctx context.Context, guildID discord.GuildID, userID discord.UserID) error
	// DeleteGuild removes all members of a guild and marks it as not cached.
	DeleteGuild(ctx context.Context, guildID discord.GuildID) error
}

// WebhookStore caches the webhook used to post in each channel.
type WebhookStore interface {
	Webhook(ctx context.Context, channelID discord.ChannelID) (discord.Webhook, error)
	SetWebhook(ctx context.Context, channelID discord.ChannelID, wh discord.Webhook) error
	DeleteWebhook(ctx context.Context, channelID discord.ChannelID) error
}
