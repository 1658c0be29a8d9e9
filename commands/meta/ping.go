package meta

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/dustin/go-humanize"
	"github.com/starshine-sys/bcr"
	"github.com/starshine-sys/nbot/common"
	"github.com/starshine-sys/nbot/common/log"
)

func (b *Bot) ping(ctx *bcr.Context) (err error) {
	b.Stats.IncCommand()

	stats := runtime.MemStats{}
	runtime.ReadMemStats(&stats)

	t := time.Now()

	m, err := ctx.Send("...")
	if err != nil {
		return err
	}

	latency := time.Since(t).Round(time.Millisecond)

	// database latency
	t = time.Now()
	_, err = b.DB.Emote(context.Background(), "ping")
	if err != nil {
		// not found is expected, anything else is worth logging
		log.Debugf("Database ping: %v", err)
	}
	dbLatency := time.Since(t).Round(time.Microsecond)

	e := discord.Embed{
		Color:     common.ColourPurple,
		Footer:    &discord.EmbedFooter{Text: fmt.Sprintf("Version %v (%v on %v/%v)", common.Version(), runtime.Version(), runtime.GOOS, runtime.GOARCH)},
		Timestamp: discord.NowTimestamp(),
		Fields: []discord.EmbedField{
			{
				Name:   "Ping",
				Value:  fmt.Sprintf("Message: %v\nDatabase: %v", latency, dbLatency),
				Inline: true,
			},
			{
				Name:   "Memory usage",
				Value:  fmt.Sprintf("%v / %v", humanize.Bytes(stats.Alloc), humanize.Bytes(stats.Sys)),
				Inline: true,
			},
			{
				Name:   "Garbage collected",
				Value:  humanize.Bytes(stats.TotalAlloc),
				Inline: true,
			},
			{
				Name:   "Goroutines",
				Value:  fmt.Sprint(runtime.NumGoroutine()),
				Inline: true,
			},
			{
				Name: "Uptime",
				Value: fmt.Sprintf(
					"%v\n(Since <t:%v:D> <t:%v:T>)",
					bcr.HumanizeDuration(bcr.DurationPrecisionSeconds, time.Since(b.Start)),
					b.Start.Unix(), b.Start.Unix(),
				),
				Inline: true,
			},
		},
	}

	_, err = ctx.State.EditMessage(m.ChannelID, m.ID, "", e)
	return err
}
