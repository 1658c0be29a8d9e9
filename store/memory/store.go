// Package memory provides an in-memory store.
package memory

import (
	"sync"
	"time"

	"github.com/ReneKroon/ttlcache/v2"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/nbot/store"
)

var _ store.Store = (*Store)(nil)

// WebhookTTL is how long a webhook is cached for.
const WebhookTTL = 24 * time.Hour

type Store struct {
	members      map[discord.GuildID]map[discord.UserID]discord.Member
	cachedGuilds map[discord.GuildID]struct{}
	membersMu    sync.RWMutex

	webhooks *ttlcache.Cache
}

func New() *Store {
	webhooks := ttlcache.NewCache()
	_ = webhooks.SetTTL(WebhookTTL)
	webhooks.SkipTTLExtensionOnHit(true)

	return &Store{
		members:      make(map[discord.GuildID]map[discord.UserID]discord.Member),
		cachedGuilds: make(map[discord.GuildID]struct{}),
		webhooks:     webhooks,
	}
}

func (s *Store) Close() error {
	return s.webhooks.Close()
}
