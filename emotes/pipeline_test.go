package emotes

import (
	"context"
	"testing"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/nbot/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMessage(content string) discord.Message {
	return discord.Message{
		ID:        50,
		ChannelID: testChannel,
		GuildID:   testGuild,
		Author:    discord.User{ID: 1, Username: "user"},
		Content:   content,
	}
}

func TestHandleNoTokens(t *testing.T) {
	env := newTestEnv(t, db.Emote{Name: "cat"})

	res, err := env.pipeline.Handle(context.Background(), testMessage("hello world"), nil)
	require.NoError(t, err)

	assert.Nil(t, res.Published)
	assert.Empty(t, env.store.lookups)
	assert.Empty(t, env.discord.executed)
	assert.Empty(t, env.discord.deletedMessages)
	assert.Empty(t, env.discord.deletedEmojis)
}

func TestHandleUnknownTokens(t *testing.T) {
	env := newTestEnv(t, db.Emote{Name: "cat"})

	res, err := env.pipeline.Handle(context.Background(), testMessage("that costs $5"), nil)
	require.NoError(t, err)

	assert.Nil(t, res.Published)
	assert.Empty(t, res.Failed)
	assert.Equal(t, [][]string{{"5"}}, env.store.lookups)
	assert.Empty(t, env.discord.createdEmojis)
	assert.Empty(t, env.discord.executed)
	assert.Empty(t, env.discord.deletedMessages)
}

func TestHandleIgnored(t *testing.T) {
	env := newTestEnv(t, db.Emote{Name: "cat"})

	bot := testMessage("$cat")
	bot.Author.Bot = true

	wh := testMessage("$cat")
	wh.WebhookID = 5

	dm := testMessage("$cat")
	dm.GuildID = 0

	for _, m := range []discord.Message{bot, wh, dm} {
		res, err := env.pipeline.Handle(context.Background(), m, nil)
		require.NoError(t, err)
		assert.Nil(t, res.Published)
	}

	assert.Empty(t, env.store.lookups)
	assert.Empty(t, env.discord.executed)
}

func TestHandleLongestFirst(t *testing.T) {
	env := newTestEnv(t, db.Emote{Name: "cat"}, db.Emote{Name: "catlaugh"})

	res, err := env.pipeline.Handle(context.Background(), testMessage("$catlaugh says $cat"), &discord.Member{Nick: "n"})
	require.NoError(t, err)
	require.NotNil(t, res.Published)

	assert.Equal(t, []string{"catlaugh", "cat"}, res.Substituted)

	require.Len(t, env.discord.createdEmojis, 2)
	laugh, cat := env.discord.createdEmojis[0], env.discord.createdEmojis[1]
	assert.Equal(t, "catlaugh", laugh.Name)
	assert.Equal(t, "cat", cat.Name)

	require.Len(t, env.discord.executed, 1)
	data := env.discord.executed[0]
	assert.Equal(t, Render(laugh)+" says "+Render(cat), data.Content)
	assert.Equal(t, "n"+string(Filler), data.Username)

	assert.Equal(t, []discord.MessageID{50}, env.discord.deletedMessages)
	assert.ElementsMatch(t, []discord.EmojiID{laugh.ID, cat.ID}, env.discord.deletedEmojis)
}

func TestHandlePartialFailure(t *testing.T) {
	env := newTestEnv(t, db.Emote{Name: "cat"}, db.Emote{Name: "dog"})
	env.discord.failEmoji["dog"] = true

	res, err := env.pipeline.Handle(context.Background(), testMessage("$cat and $dog"), nil)
	require.NoError(t, err)
	require.NotNil(t, res.Published)

	assert.Equal(t, []string{"cat"}, res.Substituted)
	assert.Equal(t, []string{"dog"}, res.Failed)

	require.Len(t, env.discord.executed, 1)
	require.Len(t, env.discord.createdEmojis, 1)
	assert.Equal(t, Render(env.discord.createdEmojis[0])+" and $dog", env.discord.executed[0].Content)
	assert.Len(t, env.discord.deletedMessages, 1)
}

func TestHandleBadURL(t *testing.T) {
	env := newTestEnv(t, db.Emote{Name: "cat"})
	env.store.emotes["cat"] = db.Emote{Name: "cat", URL: env.srv.URL + "/missing.png"}

	res, err := env.pipeline.Handle(context.Background(), testMessage("$cat"), nil)
	require.NoError(t, err)

	assert.Nil(t, res.Published)
	assert.Empty(t, env.discord.createdEmojis)
	assert.Empty(t, env.discord.executed)
	assert.Empty(t, env.discord.deletedMessages)
}

func TestHandlePublishFailure(t *testing.T) {
	env := newTestEnv(t, db.Emote{Name: "cat"}, db.Emote{Name: "dog"})
	env.discord.executeErrs = []error{errors.New("missing permissions")}

	res, err := env.pipeline.Handle(context.Background(), testMessage("$cat $dog"), nil)
	require.Error(t, err)
	assert.Nil(t, res.Published)

	// the original message stays, but the emoji are cleaned up
	assert.Empty(t, env.discord.deletedMessages)
	require.Len(t, env.discord.createdEmojis, 2)
	assert.ElementsMatch(t,
		[]discord.EmojiID{env.discord.createdEmojis[0].ID, env.discord.createdEmojis[1].ID},
		env.discord.deletedEmojis,
	)
}
