package emotes

import (
	"context"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/nbot/common/log"
)

// Messages deletes messages.
type Messages interface {
	DeleteMessage(ctx context.Context, channelID discord.ChannelID, messageID discord.MessageID) error
}

// Pipeline rewrites messages containing emote tokens.
type Pipeline struct {
	Lookup       Lookup
	Materializer *Materializer
	Publisher    *Publisher
	Emojis       Emojis
	Messages     Messages
}

// Result is the outcome of handling a single message.
type Result struct {
	// Substituted is the names of all emotes that were substituted, longest first.
	Substituted []string
	// Failed is the names of emotes that couldn't be turned into emoji.
	Failed []string
	// Published is the message sent in place of the original, or nil if nothing was sent.
	Published *discord.Message
}

// Handle rewrites m if it contains any registered emotes.
// Messages from bots, webhooks, and outside of guilds are ignored.
// If publishing fails, the emoji created for m are deleted and m is left in place.
func (p *Pipeline) Handle(ctx context.Context, m discord.Message, member *discord.Member) (res Result, err error) {
	if !m.GuildID.IsValid() || m.Author.Bot || m.WebhookID.IsValid() {
		return res, nil
	}

	names := Scan(m.Content)
	if len(names) == 0 {
		return res, nil
	}

	es, err := Resolve(ctx, p.Lookup, names)
	if err != nil {
		return res, err
	}

	subs := make([]Substitution, 0, len(es))
	for _, e := range es {
		emoji, err := p.Materializer.Materialize(ctx, m.GuildID, e.Name, e.URL)
		if err != nil {
			log.Debugf("couldn't materialize emote %q in %v: %v", e.Name, m.GuildID, err)
			res.Failed = append(res.Failed, e.Name)
			continue
		}

		subs = append(subs, Substitution{Name: e.Name, Emoji: *emoji})
	}

	if len(subs) == 0 {
		return res, nil
	}

	text := Reconstruct(m.Content, subs)

	sent, err := p.Publisher.Publish(ctx, AuthorFrom(m.Author, member), text, m.ChannelID)
	if err != nil {
		p.deleteEmojis(ctx, m.GuildID, subs)
		return res, errors.Wrap(err, "publishing message")
	}

	for _, s := range subs {
		res.Substituted = append(res.Substituted, s.Name)
	}
	res.Published = sent

	if err := p.Messages.DeleteMessage(ctx, m.ChannelID, m.ID); err != nil {
		log.Errorf("deleting original message %v in %v: %v", m.ID, m.ChannelID, err)
	}
	p.deleteEmojis(ctx, m.GuildID, subs)

	return res, nil
}

// deleteEmojis deletes every emoji in subs. Failures are logged and don't stop the remaining deletions.
func (p *Pipeline) deleteEmojis(ctx context.Context, guildID discord.GuildID, subs []Substitution) {
	for _, s := range subs {
		err := p.Emojis.DeleteEmoji(ctx, guildID, s.Emoji.ID)
		if err != nil {
			log.Errorf("deleting emoji %v (%q) in %v: %v", s.Emoji.ID, s.Name, guildID, err)
		}
	}
}
