package emotes

import (
	"context"
	"strings"
	"time"

	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/starshine-sys/nbot/common"
	"github.com/starshine-sys/nbot/common/log"
)

func (bot *Bot) messageCreate(ev *gateway.MessageCreateEvent) {
	if !ev.GuildID.IsValid() || ev.Author.Bot || ev.WebhookID.IsValid() {
		return
	}

	if isCommand(ev.Content, bot.Router.Prefixes, bot.commandExists) {
		return
	}

	s, _ := bot.Router.StateFromGuildID(ev.GuildID)
	ch, err := s.Channel(ev.ChannelID)
	if err != nil {
		log.Errorf("getting channel %v: %v", ev.ChannelID, err)
		return
	}
	// webhooks can't post in threads without a thread ID, which this version of arikawa doesn't support
	if common.IsThread(ch) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := bot.Emotes.Handle(ctx, ev.Message, ev.Member)
	bot.Stats.IncEmotes(len(res.Substituted), len(res.Failed))
	if err != nil {
		log.Errorf("substituting emotes in message %v: %v", ev.ID, err)
		return
	}

	if res.Published != nil {
		log.Debugf("replaced message %v with %v (%v emotes)", ev.ID, res.Published.ID, len(res.Substituted))
	}
}

func (bot *Bot) commandExists(name string) bool {
	return bot.Router.GetCommand(name) != nil
}

// isCommand returns true if content is a prefix followed by the name of a known command.
// Other text after a prefix, like "/shrug $cat", is still a normal message.
func isCommand(content string, prefixes []string, exists func(name string) bool) bool {
	for _, p := range prefixes {
		if p == "" || !strings.HasPrefix(content, p) {
			continue
		}

		fields := strings.Fields(strings.TrimPrefix(content, p))
		if len(fields) > 0 && exists(strings.ToLower(fields[0])) {
			return true
		}
	}
	return false
}
