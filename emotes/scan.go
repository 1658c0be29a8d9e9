package emotes

import (
	"context"
	"regexp"
	"sort"
	"unicode/utf8"

	"emperror.dev/errors"
	"github.com/starshine-sys/nbot/db"
)

// Delimiter is the character that starts an emote token.
const Delimiter = "$"

var tokenRe = regexp.MustCompile(`\$([^\s$]+)`)

// Scan returns the names of every emote token in text, in order of appearance.
// Duplicates are kept.
func Scan(text string) []string {
	matches := tokenRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}

// Lookup is the subset of db.EmoteStore used to resolve names.
type Lookup interface {
	EmotesByName(ctx context.Context, names []string) ([]db.Emote, error)
}

// Resolve looks up all registered emotes named in candidates with a single query.
// Unknown names are dropped. The result is ordered by name length, longest first,
// so that replacing in order never substitutes part of a longer name.
func Resolve(ctx context.Context, lookup Lookup, candidates []string) ([]db.Emote, error) {
	names := dedupe(candidates)
	if len(names) == 0 {
		return nil, nil
	}

	es, err := lookup.EmotesByName(ctx, names)
	if err != nil {
		return nil, errors.Wrap(err, "resolving emotes")
	}

	SortEmotes(es)
	return es, nil
}

// SortEmotes sorts es by name length in code points, longest first, then by name.
func SortEmotes(es []db.Emote) {
	sort.SliceStable(es, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(es[i].Name), utf8.RuneCountInString(es[j].Name)
		if li != lj {
			return li > lj
		}
		return es[i].Name < es[j].Name
	})
}

func dedupe(s []string) []string {
	seen := make(map[string]struct{}, len(s))
	out := make([]string, 0, len(s))
	for _, v := range s {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
