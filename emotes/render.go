package emotes

import (
	"strings"

	"github.com/diamondburned/arikawa/v3/discord"
)

// Substitution is a token name and the inline emoji markup that replaces it.
type Substitution struct {
	Name  string
	Emoji discord.Emoji
}

// Render returns the inline markup for a custom emoji.
func Render(e discord.Emoji) string {
	if e.Animated {
		return "<a:" + e.Name + ":" + e.ID.String() + ">"
	}
	return "<:" + e.Name + ":" + e.ID.String() + ">"
}

// Reconstruct replaces every $name token in text with its emoji, applying subs in order.
// subs should be ordered longest name first.
func Reconstruct(text string, subs []Substitution) string {
	for _, s := range subs {
		text = strings.ReplaceAll(text, Delimiter+s.Name, Render(s.Emoji))
	}
	return text
}
