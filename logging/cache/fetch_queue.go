package cache

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/utils/httputil"
	"github.com/starshine-sys/nbot/common/log"
)

// fetchLoop fetches one guild's members every few seconds
func (bot *Bot) fetchLoop() {
	// close on interrupt signal
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer cancel()

	ticker := time.NewTicker(3 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			go bot.fetchOneGuild()
		case <-ctx.Done():
			return
		}
	}
}

// fetchOneGuild fetches the full member list of a single queued guild.
func (bot *Bot) fetchOneGuild() {
	bot.guildsMu.Lock()
	var guildID discord.GuildID
	// get a single (mostly) random guild ID
	for k := range bot.guildsToFetchMembers {
		guildID = k
		delete(bot.guildsToFetchMembers, k)
		break
	}
	bot.guildsMu.Unlock()

	if !guildID.IsValid() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	log.Debugf("fetching members for %v", guildID)

	// GuildMembers marks the guild as cached when it's done
	ms, err := bot.Rest.GuildMembers(ctx, guildID)
	if err != nil {
		log.Errorf("fetching members for %v: %v", guildID, err)

		var httpErr *httputil.HTTPError
		if errors.As(err, &httpErr) {
			if httpErr.Status == http.StatusForbidden || httpErr.Status == http.StatusUnauthorized {
				log.Debugf("fetching members for %v is forbidden/unauthorized", guildID)
				return
			}
		}

		bot.guildsMu.Lock()
		bot.addToMemberFetchQueue(guildID)
		bot.guildsMu.Unlock()
		return
	}

	log.Debugf("cached %v members for %v", len(ms), guildID)
}
