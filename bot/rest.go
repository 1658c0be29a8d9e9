package bot

import (
	"context"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/api/webhook"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/nbot/colors"
	"github.com/starshine-sys/nbot/common"
	"github.com/starshine-sys/nbot/emotes"
	"github.com/starshine-sys/nbot/store"
)

var (
	_ emotes.Emojis   = (*Rest)(nil)
	_ emotes.Webhooks = (*Rest)(nil)
	_ emotes.Messages = (*Rest)(nil)
	_ colors.Guild    = (*Rest)(nil)
)

// Rest implements the Discord operations used by the emote and colour services on top of an API client.
type Rest struct {
	Client  *api.Client
	Members store.MemberStore

	webhookClients *common.Map[discord.WebhookID, *webhook.Client]
}

func NewRest(c *api.Client, members store.MemberStore) *Rest {
	return &Rest{
		Client:         c,
		Members:        members,
		webhookClients: common.NewMap[discord.WebhookID, *webhook.Client](),
	}
}

func (r *Rest) CreateEmoji(ctx context.Context, guildID discord.GuildID, data api.CreateEmojiData) (*discord.Emoji, error) {
	return r.Client.WithContext(ctx).CreateEmoji(guildID, data)
}

func (r *Rest) DeleteEmoji(ctx context.Context, guildID discord.GuildID, emojiID discord.EmojiID) error {
	return r.Client.WithContext(ctx).DeleteEmoji(guildID, emojiID, "")
}

func (r *Rest) DeleteMessage(ctx context.Context, channelID discord.ChannelID, messageID discord.MessageID) error {
	return r.Client.WithContext(ctx).DeleteMessage(channelID, messageID, "")
}

func (r *Rest) ChannelWebhooks(ctx context.Context, channelID discord.ChannelID) ([]discord.Webhook, error) {
	return r.Client.WithContext(ctx).ChannelWebhooks(channelID)
}

func (r *Rest) CreateWebhook(ctx context.Context, channelID discord.ChannelID, name string) (*discord.Webhook, error) {
	return r.Client.WithContext(ctx).CreateWebhook(channelID, api.CreateWebhookData{
		Name: name,
	})
}

func (r *Rest) ExecuteWebhook(ctx context.Context, wh discord.Webhook, data webhook.ExecuteData) (*discord.Message, error) {
	return r.webhookClient(wh).WithContext(ctx).ExecuteAndWait(data)
}

// webhookClient returns a client for the given webhook.
// If no client is cached, it creates a new one.
func (r *Rest) webhookClient(wh discord.Webhook) *webhook.Client {
	c := r.webhookClients.GetOrSet(wh.ID, func() *webhook.Client {
		return webhook.FromAPI(wh.ID, wh.Token, r.Client)
	})

	// the webhook was recreated with the same ID but a new token
	if c.Token != wh.Token {
		c = webhook.FromAPI(wh.ID, wh.Token, r.Client)
		r.webhookClients.Set(wh.ID, c)
	}
	return c
}

func (r *Rest) Roles(ctx context.Context, guildID discord.GuildID) ([]discord.Role, error) {
	return r.Client.WithContext(ctx).Roles(guildID)
}

func (r *Rest) CreateRole(ctx context.Context, guildID discord.GuildID, data api.CreateRoleData) (*discord.Role, error) {
	return r.Client.WithContext(ctx).CreateRole(guildID, data)
}

func (r *Rest) DeleteRole(ctx context.Context, guildID discord.GuildID, roleID discord.RoleID) error {
	return r.Client.WithContext(ctx).DeleteRole(guildID, roleID, "")
}

func (r *Rest) AddRole(ctx context.Context, guildID discord.GuildID, userID discord.UserID, roleID discord.RoleID) error {
	return r.Client.WithContext(ctx).AddRole(guildID, userID, roleID, api.AddRoleData{})
}

func (r *Rest) RemoveRole(ctx context.Context, guildID discord.GuildID, userID discord.UserID, roleID discord.RoleID) error {
	return r.Client.WithContext(ctx).RemoveRole(guildID, userID, roleID, "")
}

// RoleMembers returns all members with the given role.
// If the guild's members haven't been cached yet, they're fetched first.
func (r *Rest) RoleMembers(ctx context.Context, guildID discord.GuildID, roleID discord.RoleID) ([]discord.UserID, error) {
	ms, err := r.GuildMembers(ctx, guildID)
	if err != nil {
		return nil, err
	}

	var ids []discord.UserID
	for _, m := range ms {
		for _, id := range m.RoleIDs {
			if id == roleID {
				ids = append(ids, m.User.ID)
				break
			}
		}
	}
	return ids, nil
}

// GuildMembers returns all members of a guild from the member store, fetching them if needed.
func (r *Rest) GuildMembers(ctx context.Context, guildID discord.GuildID) ([]discord.Member, error) {
	cached, err := r.Members.IsGuildCached(ctx, guildID)
	if err != nil {
		return nil, errors.Wrap(err, "checking member cache")
	}

	if cached {
		return r.Members.Members(ctx, guildID)
	}

	ms, err := r.Client.WithContext(ctx).Members(guildID, 0)
	if err != nil {
		return nil, errors.Wrap(err, "fetching members")
	}

	err = r.Members.SetMembers(ctx, guildID, ms)
	if err != nil {
		return nil, errors.Wrap(err, "caching members")
	}

	err = r.Members.MarkGuildCached(ctx, guildID)
	if err != nil {
		return nil, errors.Wrap(err, "caching members")
	}
	return ms, nil
}
