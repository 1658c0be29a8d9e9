package cache

import (
	"context"
	"testing"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/starshine-sys/nbot/bot"
	"github.com/starshine-sys/nbot/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGuild discord.GuildID = 100

func newTestBot() *Bot {
	return newBot(&bot.Bot{Store: memory.New()})
}

func member(id discord.UserID, nick string) discord.Member {
	return discord.Member{User: discord.User{ID: id, Username: "user"}, Nick: nick}
}

func TestGuildCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("small guild is cached", func(t *testing.T) {
		b := newTestBot()

		ev := &gateway.GuildCreateEvent{Members: []discord.Member{member(1, ""), member(2, "")}}
		ev.ID = testGuild
		b.guildCreate(ev)

		cached, err := b.Store.IsGuildCached(ctx, testGuild)
		require.NoError(t, err)
		assert.True(t, cached)

		ms, err := b.Store.Members(ctx, testGuild)
		require.NoError(t, err)
		assert.Len(t, ms, 2)
		assert.Empty(t, b.guildsToFetchMembers)
	})

	t.Run("large guild is queued", func(t *testing.T) {
		b := newTestBot()

		ev := &gateway.GuildCreateEvent{Large: true, Members: []discord.Member{member(1, "")}}
		ev.ID = testGuild
		b.guildCreate(ev)

		cached, err := b.Store.IsGuildCached(ctx, testGuild)
		require.NoError(t, err)
		assert.False(t, cached)
		assert.Contains(t, b.guildsToFetchMembers, testGuild)
	})
}

func TestMemberEvents(t *testing.T) {
	ctx := context.Background()

	b := newTestBot()

	// events for uncached guilds are ignored
	b.guildMemberAdd(&gateway.GuildMemberAddEvent{Member: member(1, ""), GuildID: testGuild})
	exists, err := b.Store.MemberExists(ctx, testGuild, 1)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, b.Store.MarkGuildCached(ctx, testGuild))

	b.guildMemberAdd(&gateway.GuildMemberAddEvent{Member: member(1, ""), GuildID: testGuild})
	exists, err = b.Store.MemberExists(ctx, testGuild, 1)
	require.NoError(t, err)
	assert.True(t, exists)

	b.guildMemberUpdate(&gateway.GuildMemberUpdateEvent{
		GuildID: testGuild,
		User:    discord.User{ID: 1, Username: "user"},
		Nick:    "new nick",
		RoleIDs: []discord.RoleID{5},
	})
	m, err := b.Store.Member(ctx, testGuild, 1)
	require.NoError(t, err)
	assert.Equal(t, "new nick", m.Nick)
	assert.Equal(t, []discord.RoleID{5}, m.RoleIDs)

	b.guildMemberRemove(&gateway.GuildMemberRemoveEvent{GuildID: testGuild, User: discord.User{ID: 1}})
	exists, err = b.Store.MemberExists(ctx, testGuild, 1)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGuildDelete(t *testing.T) {
	ctx := context.Background()
	b := newTestBot()

	require.NoError(t, b.Store.SetMembers(ctx, testGuild, []discord.Member{member(1, "")}))
	require.NoError(t, b.Store.MarkGuildCached(ctx, testGuild))

	b.guildDelete(&gateway.GuildDeleteEvent{ID: testGuild, Unavailable: true})
	cached, err := b.Store.IsGuildCached(ctx, testGuild)
	require.NoError(t, err)
	assert.True(t, cached, "unavailable guilds stay cached")

	b.guildDelete(&gateway.GuildDeleteEvent{ID: testGuild})
	cached, err = b.Store.IsGuildCached(ctx, testGuild)
	require.NoError(t, err)
	assert.False(t, cached)
}

func TestWebhooksUpdate(t *testing.T) {
	ctx := context.Background()
	b := newTestBot()

	require.NoError(t, b.Store.SetWebhook(ctx, 200, discord.Webhook{ID: 1, ChannelID: 200, Token: "token"}))

	b.webhooksUpdate(&gateway.WebhooksUpdateEvent{GuildID: testGuild, ChannelID: 200})

	_, err := b.Store.Webhook(ctx, 200)
	assert.Error(t, err)
}
