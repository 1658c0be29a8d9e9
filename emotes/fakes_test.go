package emotes

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/api/webhook"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/nbot/db"
	"github.com/starshine-sys/nbot/store/memory"
	"github.com/stretchr/testify/require"
)

const (
	testGuild   discord.GuildID   = 100
	testChannel discord.ChannelID = 200
	testBot     discord.UserID    = 300
)

// fakeStore is an in-memory db.EmoteStore.
type fakeStore struct {
	mu      sync.Mutex
	emotes  map[string]db.Emote
	lookups [][]string
}

var _ db.EmoteStore = (*fakeStore)(nil)

func newFakeStore(es ...db.Emote) *fakeStore {
	s := &fakeStore{emotes: map[string]db.Emote{}}
	for _, e := range es {
		s.emotes[e.Name] = e
	}
	return s
}

func (s *fakeStore) AddEmote(_ context.Context, e db.Emote) (db.Emote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.emotes[e.Name]; ok {
		return e, db.ErrDuplicateName
	}
	s.emotes[e.Name] = e
	return e, nil
}

func (s *fakeStore) RemoveEmote(_ context.Context, name string, owner discord.UserID) (db.Emote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.emotes[name]
	if !ok || e.Owner != owner {
		return db.Emote{}, db.ErrNotFound
	}
	delete(s.emotes, name)
	return e, nil
}

func (s *fakeStore) Emote(_ context.Context, name string) (db.Emote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.emotes[name]
	if !ok {
		return db.Emote{}, db.ErrNotFound
	}
	return e, nil
}

func (s *fakeStore) Emotes(ctx context.Context) ([]db.Emote, error) {
	return s.filter(func(db.Emote) bool { return true }), nil
}

func (s *fakeStore) EmotesByOwner(_ context.Context, owner discord.UserID) ([]db.Emote, error) {
	return s.filter(func(e db.Emote) bool { return e.Owner == owner }), nil
}

func (s *fakeStore) EmotesByName(_ context.Context, names []string) ([]db.Emote, error) {
	s.mu.Lock()
	s.lookups = append(s.lookups, names)
	s.mu.Unlock()

	return s.filter(func(e db.Emote) bool {
		for _, n := range names {
			if n == e.Name {
				return true
			}
		}
		return false
	}), nil
}

func (s *fakeStore) Close() error { return nil }

// filter returns matching emotes in map order, so callers can't rely on the store for ordering.
func (s *fakeStore) filter(fn func(db.Emote) bool) []db.Emote {
	s.mu.Lock()
	defer s.mu.Unlock()

	var es []db.Emote
	for _, e := range s.emotes {
		if fn(e) {
			es = append(es, e)
		}
	}
	return es
}

// fakeDiscord records every call the emote code makes to Discord.
type fakeDiscord struct {
	mu sync.Mutex

	nextID discord.Snowflake

	failEmoji       map[string]bool
	createdEmojis   []discord.Emoji
	deletedEmojis   []discord.EmojiID
	deletedMessages []discord.MessageID

	webhooks        []discord.Webhook
	createdWebhooks int
	executed        []webhook.ExecuteData
	executeErrs     []error
}

func newFakeDiscord() *fakeDiscord {
	return &fakeDiscord{nextID: 1000, failEmoji: map[string]bool{}}
}

func (d *fakeDiscord) id() discord.Snowflake {
	d.nextID++
	return d.nextID
}

func (d *fakeDiscord) CreateEmoji(_ context.Context, _ discord.GuildID, data api.CreateEmojiData) (*discord.Emoji, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.failEmoji[data.Name] {
		return nil, errors.New("maximum number of emojis reached")
	}

	e := discord.Emoji{ID: discord.EmojiID(d.id()), Name: data.Name}
	d.createdEmojis = append(d.createdEmojis, e)
	return &e, nil
}

func (d *fakeDiscord) DeleteEmoji(_ context.Context, _ discord.GuildID, id discord.EmojiID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.deletedEmojis = append(d.deletedEmojis, id)
	return nil
}

func (d *fakeDiscord) DeleteMessage(_ context.Context, _ discord.ChannelID, id discord.MessageID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.deletedMessages = append(d.deletedMessages, id)
	return nil
}

func (d *fakeDiscord) ChannelWebhooks(_ context.Context, ch discord.ChannelID) ([]discord.Webhook, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var ws []discord.Webhook
	for _, w := range d.webhooks {
		if w.ChannelID == ch {
			ws = append(ws, w)
		}
	}
	return ws, nil
}

func (d *fakeDiscord) CreateWebhook(_ context.Context, ch discord.ChannelID, name string) (*discord.Webhook, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	w := discord.Webhook{
		ID:        discord.WebhookID(d.id()),
		ChannelID: ch,
		Name:      name,
		Token:     "token",
		User:      &discord.User{ID: testBot},
	}
	d.webhooks = append(d.webhooks, w)
	d.createdWebhooks++
	return &w, nil
}

func (d *fakeDiscord) ExecuteWebhook(_ context.Context, wh discord.Webhook, data webhook.ExecuteData) (*discord.Message, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.executed = append(d.executed, data)

	if len(d.executeErrs) > 0 {
		err := d.executeErrs[0]
		d.executeErrs = d.executeErrs[1:]
		if err != nil {
			return nil, err
		}
	}

	return &discord.Message{
		ID:        discord.MessageID(d.id()),
		ChannelID: wh.ChannelID,
		Content:   data.Content,
		WebhookID: wh.ID,
	}, nil
}

// testPNG returns a w*h PNG image filled with noise.
func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	seed := uint32(1)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// xorshift, so large images don't compress well
			seed ^= seed << 13
			seed ^= seed >> 17
			seed ^= seed << 5
			img.Set(x, y, color.NRGBA{R: uint8(seed), G: uint8(seed >> 8), B: uint8(seed >> 16), A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// imageServer serves a small PNG at /ok.png, and 404s everything else.
func imageServer(t *testing.T) *httptest.Server {
	t.Helper()

	img := testPNG(t, 16, 16)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ok.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(img)
	}))
	t.Cleanup(srv.Close)
	return srv
}

type testEnv struct {
	store    *fakeStore
	discord  *fakeDiscord
	pipeline *Pipeline
	registry *Registry
	srv      *httptest.Server
}

func newTestEnv(t *testing.T, es ...db.Emote) *testEnv {
	t.Helper()

	srv := imageServer(t)
	for i := range es {
		if es[i].URL == "" {
			es[i].URL = srv.URL + "/ok.png"
		}
	}

	s := newFakeStore(es...)
	d := newFakeDiscord()

	cache := memory.New()
	t.Cleanup(func() { cache.Close() })

	mat := &Materializer{Emojis: d, Client: srv.Client()}

	return &testEnv{
		store:   s,
		discord: d,
		srv:     srv,
		pipeline: &Pipeline{
			Lookup:       s,
			Materializer: mat,
			Publisher:    NewPublisher(d, cache, testBot, ""),
			Emojis:       d,
			Messages:     d,
		},
		registry: &Registry{
			Store:        s,
			Materializer: mat,
			Emojis:       d,
		},
	}
}
