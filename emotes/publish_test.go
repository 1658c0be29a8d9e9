package emotes

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/utils/httputil"
	"github.com/starshine-sys/nbot/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsername(t *testing.T) {
	filler := string(Filler)

	assert.Equal(t, filler+filler, Username(""))
	assert.Equal(t, "a"+filler, Username("a"))
	assert.Equal(t, "ab", Username("ab"))
	assert.Equal(t, "ñ"+filler, Username("ñ"))
	assert.Len(t, []rune(Username(strings.Repeat("a", 100))), 80)

	for _, tc := range []struct{ in, want string }{
		{"clyde", "c" + filler + "lyde"},
		{"Discord Fan", "D" + filler + "iscord Fan"},
		{"CLYDE and discord", "C" + filler + "LYDE and d" + filler + "iscord"},
		{"clydesdale", "c" + filler + "lydesdale"},
	} {
		t.Run(tc.in, func(t *testing.T) {
			got := Username(tc.in)
			assert.Equal(t, tc.want, got)
			assert.NotContains(t, strings.ToLower(got), "clyde")
			assert.NotContains(t, strings.ToLower(got), "discord")
		})
	}
}

func TestAuthorFrom(t *testing.T) {
	u := discord.User{ID: 1, Username: "user"}

	assert.Equal(t, "user", AuthorFrom(u, nil).Name)
	assert.Equal(t, "user", AuthorFrom(u, &discord.Member{}).Name)
	assert.Equal(t, "nick", AuthorFrom(u, &discord.Member{Nick: "nick"}).Name)
}

func TestPublishSkipsWebhookWithoutUser(t *testing.T) {
	d := newFakeDiscord()
	// webhooks created by other integrations can come back without a user
	d.webhooks = []discord.Webhook{
		{ID: 1, ChannelID: testChannel, Token: "token"},
	}

	cache := memory.New()
	defer cache.Close()

	p := NewPublisher(d, cache, testBot, "")

	msg, err := p.Publish(context.Background(), Author{Name: "a"}, "hi", testChannel)
	require.NoError(t, err)

	assert.Equal(t, 1, d.createdWebhooks)
	assert.NotEqual(t, discord.WebhookID(1), msg.WebhookID)
}

func TestPublishReusesWebhook(t *testing.T) {
	d := newFakeDiscord()
	d.webhooks = []discord.Webhook{
		{ID: 1, ChannelID: testChannel, User: &discord.User{ID: 999}, Token: "someone else's"},
		{ID: 2, ChannelID: testChannel, User: &discord.User{ID: testBot}, Token: "ours"},
	}

	cache := memory.New()
	defer cache.Close()

	p := NewPublisher(d, cache, testBot, "")

	for i := 0; i < 3; i++ {
		msg, err := p.Publish(context.Background(), Author{Name: "a"}, "hi", testChannel)
		require.NoError(t, err)
		assert.Equal(t, discord.WebhookID(2), msg.WebhookID)
	}

	assert.Zero(t, d.createdWebhooks)
	require.Len(t, d.executed, 3)

	data := d.executed[0]
	assert.Equal(t, "a"+string(Filler), data.Username)
	require.NotNil(t, data.AllowedMentions)
	assert.Equal(t, []api.AllowedMentionType{api.AllowUserMention}, data.AllowedMentions.Parse)
}

func TestPublishCreatesWebhookOnce(t *testing.T) {
	d := newFakeDiscord()

	cache := memory.New()
	defer cache.Close()

	p := NewPublisher(d, cache, testBot, "")

	done := make(chan error)
	for i := 0; i < 10; i++ {
		go func() {
			_, err := p.Publish(context.Background(), Author{Name: "user"}, "hi", testChannel)
			done <- err
		}()
	}
	for i := 0; i < 10; i++ {
		require.NoError(t, <-done)
	}

	assert.Equal(t, 1, d.createdWebhooks)
	assert.Equal(t, DefaultWebhookName, d.webhooks[0].Name)
}

func TestPublishRetriesDeletedWebhook(t *testing.T) {
	d := newFakeDiscord()
	d.executeErrs = []error{&httputil.HTTPError{Status: http.StatusNotFound, Code: 10015}}

	cache := memory.New()
	defer cache.Close()

	p := NewPublisher(d, cache, testBot, "")
	require.NoError(t, cache.SetWebhook(context.Background(), testChannel, discord.Webhook{ID: 1, ChannelID: testChannel, Token: "stale"}))

	msg, err := p.Publish(context.Background(), Author{Name: "user"}, "hi", testChannel)
	require.NoError(t, err)

	assert.Len(t, d.executed, 2)
	assert.Equal(t, 1, d.createdWebhooks)
	assert.Equal(t, d.webhooks[0].ID, msg.WebhookID)

	wh, err := cache.Webhook(context.Background(), testChannel)
	require.NoError(t, err)
	assert.Equal(t, d.webhooks[0].ID, wh.ID)
}

func TestPublishTooLong(t *testing.T) {
	d := newFakeDiscord()

	cache := memory.New()
	defer cache.Close()

	p := NewPublisher(d, cache, testBot, "")

	_, err := p.Publish(context.Background(), Author{Name: "user"}, strings.Repeat("a", MaxMessageLength+1), testChannel)
	assert.ErrorIs(t, err, ErrMessageTooLong)
	assert.Empty(t, d.executed)
}
