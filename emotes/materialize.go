package emotes

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"time"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/nfnt/resize"

	// image decoders
	_ "image/gif"
	_ "image/jpeg"
)

const (
	// MaxEmojiSize is the largest image Discord accepts for a custom emoji.
	MaxEmojiSize = 256 * 1024
	// MaxEmojiDimension is the size static images are scaled down to if they're too large.
	MaxEmojiDimension = 128
	// maxDownloadSize caps how much of a response body is read.
	maxDownloadSize = 8 * 1024 * 1024
)

// ErrCreationDenied is returned (wrapped in a *CreationError) when an emoji can't be created from an image.
const ErrCreationDenied = errors.Sentinel("emoji creation denied")

// CreationError is the reason an emoji couldn't be created.
type CreationError struct {
	Name string
	Err  error
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("creating emoji %q: %v", e.Name, e.Err)
}

func (e *CreationError) Unwrap() error { return e.Err }

func (e *CreationError) Is(target error) bool { return target == ErrCreationDenied }

// Emojis creates and deletes guild emoji.
type Emojis interface {
	CreateEmoji(ctx context.Context, guildID discord.GuildID, data api.CreateEmojiData) (*discord.Emoji, error)
	DeleteEmoji(ctx context.Context, guildID discord.GuildID, emojiID discord.EmojiID) error
}

// Materializer turns an image URL into a guild emoji.
type Materializer struct {
	Emojis Emojis
	Client *http.Client
}

// NewMaterializer returns a Materializer using a HTTP client with a 15 second timeout.
func NewMaterializer(emojis Emojis) *Materializer {
	return &Materializer{
		Emojis: emojis,
		Client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Materialize downloads the image at url and creates a guild emoji named name from it.
// Every failure is returned as a *CreationError matching ErrCreationDenied.
func (m *Materializer) Materialize(ctx context.Context, guildID discord.GuildID, name, url string) (*discord.Emoji, error) {
	img, err := m.fetch(ctx, url)
	if err != nil {
		return nil, &CreationError{Name: name, Err: err}
	}

	e, err := m.Emojis.CreateEmoji(ctx, guildID, api.CreateEmojiData{
		Name:  name,
		Image: *img,
	})
	if err != nil {
		return nil, &CreationError{Name: name, Err: err}
	}
	return e, nil
}

func (m *Materializer) fetch(ctx context.Context, url string) (*api.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "preparing request")
	}

	client := m.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "downloading image")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("downloading image: unexpected status %v", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize))
	if err != nil {
		return nil, errors.Wrap(err, "reading image")
	}

	return prepareImage(data)
}

// prepareImage checks that data is an image type Discord accepts, and shrinks static images above MaxEmojiSize.
func prepareImage(data []byte) (*api.Image, error) {
	mt := mimetype.Detect(data)
	if !mt.Is("image/png") && !mt.Is("image/jpeg") && !mt.Is("image/gif") {
		return nil, errors.Errorf("unsupported image type %v", mt.String())
	}

	if len(data) <= MaxEmojiSize {
		return &api.Image{ContentType: mt.String(), Content: data}, nil
	}

	// animated images can't be resized without losing frames
	if mt.Is("image/gif") {
		return nil, errors.Errorf("image is too large (%v, maximum %v)", humanize.IBytes(uint64(len(data))), humanize.IBytes(MaxEmojiSize))
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "decoding image")
	}

	img = resize.Thumbnail(MaxEmojiDimension, MaxEmojiDimension, img, resize.Lanczos3)

	var buf bytes.Buffer
	err = png.Encode(&buf, img)
	if err != nil {
		return nil, errors.Wrap(err, "encoding image")
	}

	if buf.Len() > MaxEmojiSize {
		return nil, errors.Errorf("image is too large after resizing (%v)", humanize.IBytes(uint64(buf.Len())))
	}
	return &api.Image{ContentType: "image/png", Content: buf.Bytes()}, nil
}
