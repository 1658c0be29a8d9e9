package db

import (
	"context"
	"time"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/georgysavva/scany/pgxscan"
	"github.com/jackc/pgconn"
)

// Errors returned by EmoteStore implementations.
const (
	ErrDuplicateName = errors.Sentinel("an emote with that name already exists")
	ErrNotFound      = errors.Sentinel("emote not found")
)

// Emote is a registered emote.
type Emote struct {
	Name    string         `json:"name"`
	Owner   discord.UserID `json:"owner"`
	URL     string         `json:"url"`
	Created time.Time      `json:"created"`
}

// EmoteStore persists emote records.
// Lists are always ordered by name length in code points, longest first, then by name.
type EmoteStore interface {
	// AddEmote stores e. If an emote named e.Name already exists, it returns ErrDuplicateName and changes nothing.
	AddEmote(ctx context.Context, e Emote) (Emote, error)
	// RemoveEmote deletes the emote with the given name owned by owner.
	// It returns ErrNotFound if no emote matches both.
	RemoveEmote(ctx context.Context, name string, owner discord.UserID) (Emote, error)

	Emote(ctx context.Context, name string) (Emote, error)
	Emotes(ctx context.Context) ([]Emote, error)
	EmotesByOwner(ctx context.Context, owner discord.UserID) ([]Emote, error)
	// EmotesByName returns every emote whose name is in names. Unknown names are omitted.
	EmotesByName(ctx context.Context, names []string) ([]Emote, error)

	Close() error
}

const pgUniqueViolation = "23505"

func (db *DB) AddEmote(ctx context.Context, e Emote) (Emote, error) {
	if e.Created.IsZero() {
		e.Created = time.Now().UTC()
	}

	sql, args, err := sq.Insert("emotes").
		Columns("name", "owner", "url", "created").
		Values(e.Name, e.Owner, e.URL, e.Created).
		Suffix("returning *").ToSql()
	if err != nil {
		return e, errors.Wrap(err, "building sql")
	}

	var out Emote
	err = pgxscan.Get(ctx, db, &out, sql, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return e, ErrDuplicateName
		}
		return e, errors.Wrap(err, "inserting emote")
	}
	return out, nil
}

func (db *DB) RemoveEmote(ctx context.Context, name string, owner discord.UserID) (e Emote, err error) {
	sql, args, err := sq.Delete("emotes").
		Where("name = ?", name).
		Where("owner = ?", owner).
		Suffix("returning *").ToSql()
	if err != nil {
		return e, errors.Wrap(err, "building sql")
	}

	var es []Emote
	err = pgxscan.Select(ctx, db, &es, sql, args...)
	if err != nil {
		return e, errors.Wrap(err, "deleting emote")
	}
	if len(es) == 0 {
		return e, ErrNotFound
	}
	return es[0], nil
}

func (db *DB) Emote(ctx context.Context, name string) (e Emote, err error) {
	var es []Emote
	err = pgxscan.Select(ctx, db, &es, "select * from emotes where name = $1", name)
	if err != nil {
		return e, errors.Wrap(err, "getting emote")
	}
	if len(es) == 0 {
		return e, ErrNotFound
	}
	return es[0], nil
}

// emoteOrder sorts longest name first, so that substituting in order never replaces a prefix of a longer name.
const emoteOrder = "char_length(name) desc, name"

func (db *DB) Emotes(ctx context.Context) (es []Emote, err error) {
	sql, args, err := sq.Select("*").From("emotes").OrderBy(emoteOrder).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building sql")
	}

	err = pgxscan.Select(ctx, db, &es, sql, args...)
	return es, errors.Wrap(err, "getting emotes")
}

func (db *DB) EmotesByOwner(ctx context.Context, owner discord.UserID) (es []Emote, err error) {
	sql, args, err := sq.Select("*").From("emotes").Where("owner = ?", owner).OrderBy(emoteOrder).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building sql")
	}

	err = pgxscan.Select(ctx, db, &es, sql, args...)
	return es, errors.Wrap(err, "getting emotes")
}

func (db *DB) EmotesByName(ctx context.Context, names []string) (es []Emote, err error) {
	if len(names) == 0 {
		return nil, nil
	}

	sql, args, err := sq.Select("*").From("emotes").Where("name = any(?)", names).OrderBy(emoteOrder).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building sql")
	}

	err = pgxscan.Select(ctx, db, &es, sql, args...)
	return es, errors.Wrap(err, "getting emotes")
}
