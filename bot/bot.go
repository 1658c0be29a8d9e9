// Package bot wires the Discord router, databases, and feature services together.
package bot

import (
	"context"
	"time"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/getsentry/sentry-go"
	"github.com/starshine-sys/bcr"
	"github.com/starshine-sys/nbot/colors"
	"github.com/starshine-sys/nbot/common/log"
	"github.com/starshine-sys/nbot/db"
	"github.com/starshine-sys/nbot/db/mongodb"
	"github.com/starshine-sys/nbot/db/stats"
	"github.com/starshine-sys/nbot/emotes"
	"github.com/starshine-sys/nbot/store"
	"github.com/starshine-sys/nbot/store/memory"
	"github.com/starshine-sys/nbot/store/redis"
)

// IntentMessageContent is required to read message content. This version of arikawa doesn't define it.
const IntentMessageContent gateway.Intents = 1 << 15

const Intents = gateway.IntentGuilds |
	gateway.IntentGuildMembers |
	gateway.IntentGuildEmojis |
	gateway.IntentGuildWebhooks |
	gateway.IntentGuildMessages |
	gateway.IntentGuildMessageReactions |
	IntentMessageContent

type Bot struct {
	Router *bcr.Router
	Config Config

	DB    db.EmoteStore
	Store store.Store
	Stats *stats.Client
	Rest  *Rest

	Emotes   *emotes.Pipeline
	Registry *emotes.Registry
	Colors   *colors.Service

	Start time.Time
}

// New creates a new Bot, connecting to all databases in c.
// The gateway isn't opened until Open is called.
func New(ctx context.Context, c Config) (_ *Bot, err error) {
	if c.Bot.Debug {
		log.SetDebug(true)
	}

	b := &Bot{
		Config: c,
		Start:  time.Now().UTC(),
	}

	// clean up anything already opened if a later step fails
	defer func() {
		if err != nil {
			b.closeStores()
		}
	}()

	if c.Auth.Sentry != "" {
		err = sentry.Init(sentry.ClientOptions{
			Dsn:     c.Auth.Sentry,
			Release: version(),
		})
		if err != nil {
			return nil, errors.Wrap(err, "initializing sentry")
		}
	}

	b.DB, err = OpenDB(ctx, c)
	if err != nil {
		return nil, err
	}
	log.Info("Opened database connection")

	if c.Auth.Redis != "" {
		rs, err := redis.New(ctx, c.Auth.Redis)
		if err != nil {
			return nil, errors.Wrap(err, "creating redis store")
		}
		b.Store = rs
	} else {
		log.Info("No Redis URL set, using in-memory store")
		b.Store = memory.New()
	}

	if c.Auth.Influx.URL != "" {
		b.Stats = stats.New(c.Auth.Influx.URL, c.Auth.Influx.Token, c.Auth.Influx.Organization, c.Auth.Influx.Database)
	}

	b.Router, err = bcr.NewWithIntents(c.Auth.Discord, c.Bot.Owners, c.Bot.Prefixes, Intents)
	if err != nil {
		return nil, errors.Wrap(err, "creating router")
	}
	b.Router.EmbedColor = bcr.ColourPurple

	s, _ := b.Router.StateFromGuildID(0)
	me, err := s.Me()
	if err != nil {
		return nil, errors.Wrap(err, "fetching bot user")
	}
	b.Router.Bot = me
	// normally creating a Context would do this, but as we set the user above, that doesn't work
	b.Router.Prefixes = append(b.Router.Prefixes, "<@"+me.ID.String()+">", "<@!"+me.ID.String()+">")

	b.Rest = NewRest(s.Client, b.Store)
	s.Client.Client.OnResponse = append(s.Client.Client.OnResponse, b.onResponse)

	mat := emotes.NewMaterializer(b.Rest)
	b.Emotes = &emotes.Pipeline{
		Lookup:       b.DB,
		Materializer: mat,
		Publisher:    emotes.NewPublisher(b.Rest, b.Store, me.ID, c.Bot.WebhookName),
		Emojis:       b.Rest,
		Messages:     b.Rest,
	}
	b.Registry = &emotes.Registry{
		Store:        b.DB,
		Materializer: mat,
		Emojis:       b.Rest,
	}
	b.Colors = colors.New(b.Rest, c.Bot.ColorRolePrefix)

	b.Router.AddHandler(b.Router.MessageCreate)
	if b.Stats != nil {
		b.Router.AddHandler(b.Stats.EventHandler)
	}

	return b, nil
}

// OpenDB opens the emote database configured in c.
// MongoDB is used if a Mongo URL is set, otherwise Postgres.
func OpenDB(ctx context.Context, c Config) (db.EmoteStore, error) {
	if c.Auth.Mongo != "" {
		mdb, err := mongodb.New(ctx, c.Auth.Mongo)
		if err != nil {
			return nil, errors.Wrap(err, "opening mongodb database")
		}
		return mdb, nil
	}

	pdb, err := db.New(ctx, c.Auth.Postgres, !c.Bot.NoAutoMigrate)
	if err != nil {
		return nil, errors.Wrap(err, "opening postgres database")
	}
	return pdb, nil
}

// Me returns the bot user.
func (b *Bot) Me() *discord.User {
	return b.Router.Bot
}

// Open connects to the gateway.
func (b *Bot) Open(ctx context.Context) error {
	log.Debug("opening gateway connection")

	return b.Router.ShardManager.Open(ctx)
}

// Close disconnects from the gateway and closes all databases.
func (b *Bot) Close() error {
	err := b.Router.ShardManager.Close()
	b.closeStores()
	sentry.Flush(2 * time.Second)
	return err
}

func (b *Bot) closeStores() {
	if b.DB != nil {
		if err := b.DB.Close(); err != nil {
			log.Errorf("closing database: %v", err)
		}
	}

	if b.Store != nil {
		if err := b.Store.Close(); err != nil {
			log.Errorf("closing store: %v", err)
		}
	}

	if err := b.Stats.Close(); err != nil {
		log.Errorf("closing metrics client: %v", err)
	}
}

// AddHandler adds handlers to all shards.
func (b *Bot) AddHandler(i ...interface{}) {
	for _, hn := range i {
		b.Router.AddHandler(hn)
	}
}
