package common

import "github.com/diamondburned/arikawa/v3/discord"

// IsThread returns true if the channel is any kind of thread.
// Webhooks can't be created in threads, so emote substitution skips them.
func IsThread(ch *discord.Channel) bool {
	return ch.Type == discord.GuildNewsThread || ch.Type == discord.GuildPrivateThread || ch.Type == discord.GuildPublicThread
}
