package emotes

import (
	"context"
	"regexp"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/nbot/common/log"
	"github.com/starshine-sys/nbot/db"
)

// ErrInvalidName is returned if an emote name isn't a valid Discord emoji name.
const ErrInvalidName = errors.Sentinel("emote names must be 2 to 32 characters of letters, numbers, and underscores")

var nameRe = regexp.MustCompile(`^[A-Za-z0-9_]{2,32}$`)

// ValidName returns true if name can be used for an emote.
func ValidName(name string) bool {
	return nameRe.MatchString(name)
}

// Registry registers and removes emotes.
type Registry struct {
	Store        db.EmoteStore
	Materializer *Materializer
	Emojis       Emojis
}

// Add registers an emote named name owned by owner.
// The image at url is checked by creating a temporary emoji in guildID, which is always deleted afterwards.
func (r *Registry) Add(ctx context.Context, guildID discord.GuildID, owner discord.UserID, name, url string) (db.Emote, error) {
	if !ValidName(name) {
		return db.Emote{}, ErrInvalidName
	}

	_, err := r.Store.Emote(ctx, name)
	if err == nil {
		return db.Emote{}, db.ErrDuplicateName
	}
	if !errors.Is(err, db.ErrNotFound) {
		return db.Emote{}, errors.Wrap(err, "checking for existing emote")
	}

	emoji, err := r.Materializer.Materialize(ctx, guildID, name, url)
	if err != nil {
		return db.Emote{}, err
	}
	defer func() {
		err := r.Emojis.DeleteEmoji(ctx, guildID, emoji.ID)
		if err != nil {
			log.Errorf("deleting temporary emoji %v in %v: %v", emoji.ID, guildID, err)
		}
	}()

	return r.Store.AddEmote(ctx, db.Emote{
		Name:  name,
		Owner: owner,
		URL:   url,
	})
}

// Remove deletes the emote named name, if it's owned by owner.
func (r *Registry) Remove(ctx context.Context, name string, owner discord.UserID) (db.Emote, error) {
	return r.Store.RemoveEmote(ctx, name, owner)
}

// List returns all emotes, or only those owned by owner if it is valid.
func (r *Registry) List(ctx context.Context, owner discord.UserID) ([]db.Emote, error) {
	if owner.IsValid() {
		return r.Store.EmotesByOwner(ctx, owner)
	}
	return r.Store.Emotes(ctx)
}
