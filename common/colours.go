package common

import "github.com/diamondburned/arikawa/v3/discord"

// Embed colours
const (
	ColourRed    discord.Color = 0xEF4444
	ColourGreen  discord.Color = 0x22C55E
	ColourBlue   discord.Color = 0x3B82F6
	ColourPurple discord.Color = 0x9B59B6
)
