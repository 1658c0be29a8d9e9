package emotes

import (
	"context"
	"net/http"
	"regexp"
	"sync"
	"unicode/utf8"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/api/webhook"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/utils/httputil"
	"github.com/starshine-sys/nbot/common"
	"github.com/starshine-sys/nbot/common/log"
	"github.com/starshine-sys/nbot/store"
)

const (
	// DefaultWebhookName is the name given to webhooks the bot creates.
	DefaultWebhookName = "NBot"
	// Filler pads webhook usernames to the minimum length. It renders as nothing.
	Filler = '\u17b5'
	// MaxMessageLength is the longest message a webhook can send.
	MaxMessageLength = 2000

	minUsernameLength = 2
	maxUsernameLength = 80

	errUnknownWebhook httputil.ErrorCode = 10015
)

// ErrMessageTooLong is returned if the rewritten message is longer than MaxMessageLength.
const ErrMessageTooLong = errors.Sentinel("message is too long to send")

// Webhooks manages channel webhooks.
type Webhooks interface {
	ChannelWebhooks(ctx context.Context, channelID discord.ChannelID) ([]discord.Webhook, error)
	CreateWebhook(ctx context.Context, channelID discord.ChannelID, name string) (*discord.Webhook, error)
	ExecuteWebhook(ctx context.Context, wh discord.Webhook, data webhook.ExecuteData) (*discord.Message, error)
}

// Author is who a published message appears to be from.
type Author struct {
	ID        discord.UserID
	Name      string
	AvatarURL string
}

// AuthorFrom returns the display identity of u. If m is not nil, its nickname takes precedence.
func AuthorFrom(u discord.User, m *discord.Member) Author {
	name := u.Username
	if m != nil && m.Nick != "" {
		name = m.Nick
	}

	return Author{
		ID:        u.ID,
		Name:      name,
		AvatarURL: u.AvatarURL(),
	}
}

// bannedNameRe matches substrings Discord doesn't allow in webhook usernames.
var bannedNameRe = regexp.MustCompile(`(?i)clyde|discord`)

// Username returns name as a valid webhook username, padded with Filler if it's too short.
// Banned substrings are broken up with Filler after their first letter.
func Username(name string) string {
	name = bannedNameRe.ReplaceAllStringFunc(name, func(s string) string {
		return s[:1] + string(Filler) + s[1:]
	})

	for utf8.RuneCountInString(name) < minUsernameLength {
		name += string(Filler)
	}

	if utf8.RuneCountInString(name) > maxUsernameLength {
		name = string([]rune(name)[:maxUsernameLength])
	}
	return name
}

// Publisher posts messages through a webhook owned by the bot, creating one per channel as needed.
type Publisher struct {
	Webhooks Webhooks
	Cache    store.WebhookStore

	// BotID is the bot's own user ID, used to find webhooks the bot created earlier.
	BotID discord.UserID
	// Name is the name given to new webhooks.
	Name string

	locks *common.Map[discord.ChannelID, *sync.Mutex]
}

func NewPublisher(webhooks Webhooks, cache store.WebhookStore, botID discord.UserID, name string) *Publisher {
	if name == "" {
		name = DefaultWebhookName
	}

	return &Publisher{
		Webhooks: webhooks,
		Cache:    cache,
		BotID:    botID,
		Name:     name,
		locks:    common.NewMap[discord.ChannelID, *sync.Mutex](),
	}
}

// Publish sends text to channelID as author, and returns the sent message.
func (p *Publisher) Publish(ctx context.Context, author Author, text string, channelID discord.ChannelID) (*discord.Message, error) {
	if utf8.RuneCountInString(text) > MaxMessageLength {
		return nil, ErrMessageTooLong
	}

	data := webhook.ExecuteData{
		Content:   text,
		Username:  Username(author.Name),
		AvatarURL: author.AvatarURL,
		AllowedMentions: &api.AllowedMentions{
			Parse: []api.AllowedMentionType{api.AllowUserMention},
		},
	}

	wh, err := p.webhook(ctx, channelID)
	if err != nil {
		return nil, errors.Wrap(err, "getting webhook")
	}

	msg, err := p.Webhooks.ExecuteWebhook(ctx, wh, data)
	if err == nil {
		return msg, nil
	}

	if !isUnknownWebhook(err) {
		return nil, errors.Wrap(err, "executing webhook")
	}

	// the cached webhook was deleted, so get a new one and try again
	log.Debugf("webhook %v in %v was deleted, retrying", wh.ID, channelID)
	if err := p.Cache.DeleteWebhook(ctx, channelID); err != nil {
		log.Errorf("deleting cached webhook for %v: %v", channelID, err)
	}

	wh, err = p.webhook(ctx, channelID)
	if err != nil {
		return nil, errors.Wrap(err, "getting webhook")
	}

	msg, err = p.Webhooks.ExecuteWebhook(ctx, wh, data)
	if err != nil {
		return nil, errors.Wrap(err, "executing webhook")
	}
	return msg, nil
}

// webhook returns the bot's webhook in channelID, creating it if it doesn't exist.
// Creation is serialized per channel, so concurrent messages can't create duplicate webhooks.
func (p *Publisher) webhook(ctx context.Context, channelID discord.ChannelID) (discord.Webhook, error) {
	wh, err := p.Cache.Webhook(ctx, channelID)
	if err == nil {
		return wh, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Errorf("getting cached webhook for %v: %v", channelID, err)
	}

	mu := p.locks.GetOrSet(channelID, func() *sync.Mutex { return &sync.Mutex{} })
	mu.Lock()
	defer mu.Unlock()

	// another message might have created it while we were waiting
	wh, err = p.Cache.Webhook(ctx, channelID)
	if err == nil {
		return wh, nil
	}

	ws, err := p.Webhooks.ChannelWebhooks(ctx, channelID)
	if err != nil {
		return wh, errors.Wrap(err, "getting channel webhooks")
	}

	var found bool
	for _, w := range ws {
		if w.User != nil && w.User.ID == p.BotID && w.Token != "" {
			wh = w
			found = true
			break
		}
	}

	if !found {
		w, err := p.Webhooks.CreateWebhook(ctx, channelID, p.Name)
		if err != nil {
			return wh, errors.Wrap(err, "creating webhook")
		}
		wh = *w
	}

	if err := p.Cache.SetWebhook(ctx, channelID, wh); err != nil {
		log.Errorf("caching webhook for %v: %v", channelID, err)
	}
	return wh, nil
}

func isUnknownWebhook(err error) bool {
	var httpErr *httputil.HTTPError
	if !errors.As(err, &httpErr) {
		return false
	}
	return httpErr.Code == errUnknownWebhook || httpErr.Status == http.StatusNotFound
}
