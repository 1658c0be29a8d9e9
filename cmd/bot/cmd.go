package bot

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"emperror.dev/errors"
	"github.com/starshine-sys/nbot/bot"
	colorcommands "github.com/starshine-sys/nbot/commands/colors"
	emotecommands "github.com/starshine-sys/nbot/commands/emotes"
	metacommands "github.com/starshine-sys/nbot/commands/meta"
	"github.com/starshine-sys/nbot/common/log"
	"github.com/starshine-sys/nbot/logging/cache"
	"github.com/starshine-sys/nbot/web/server"
	"github.com/urfave/cli/v2"
)

var Command = &cli.Command{
	Name:   "bot",
	Usage:  "Run the bot",
	Action: run,
}

func run(c *cli.Context) error {
	conf, err := bot.ReadConfig(c.String("config"))
	if err != nil {
		return errors.Wrap(err, "reading config")
	}

	ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	b, err := bot.New(ctx, conf)
	if err != nil {
		return errors.Wrap(err, "creating bot")
	}

	u := b.Me()
	log.Infof("User: %v#%v (%v)", u.Username, u.Discriminator, u.ID)

	// set up modules (cache, commands)
	cache.Setup(b)         // member and webhook cache handlers
	emotecommands.Setup(b) // emote commands and substitution
	colorcommands.Setup(b) // colour role command
	metacommands.Setup(b)  // meta commands

	var api *server.Server
	if conf.Bot.HTTPPort != "" {
		api = server.New(b.DB)
		api.Listen(conf.Bot.HTTPPort)
	}

	// actually run bot!
	err = b.Open(ctx)
	if err != nil {
		b.Close()
		return errors.Wrap(err, "opening gateway connection")
	}

	log.Info("Connected to Discord. Press Ctrl-C or send an interrupt signal to stop.")

	<-ctx.Done()

	log.Info("Interrupt signal received. Shutting down...")

	if api != nil {
		sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer scancel()

		err = api.Shutdown(sctx)
		if err != nil {
			log.Errorf("shutting down HTTP API: %v", err)
		}
	}

	err = b.Close()
	if err != nil {
		log.Errorf("closing gateway connection: %v", err)
	}
	return nil
}
