package common

import (
	"testing"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/stretchr/testify/assert"
)

func TestIsThread(t *testing.T) {
	for _, tc := range []struct {
		typ  discord.ChannelType
		want bool
	}{
		{discord.GuildText, false},
		{discord.GuildNews, false},
		{discord.GuildPublicThread, true},
		{discord.GuildPrivateThread, true},
		{discord.GuildNewsThread, true},
	} {
		ch := &discord.Channel{ID: 1, Type: tc.typ}
		assert.Equal(t, tc.want, IsThread(ch), "channel type %v", tc.typ)
	}
}
