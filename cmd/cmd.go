package cmd

import (
	"os"

	"github.com/starshine-sys/nbot/cmd/bot"
	"github.com/starshine-sys/nbot/cmd/importdb"
	"github.com/starshine-sys/nbot/cmd/migrate"
	"github.com/starshine-sys/nbot/common"
	"github.com/urfave/cli/v2"
)

var app = &cli.App{
	Name:    "nbot",
	Usage:   "Discord emote and colour role bot",
	Version: common.Version(),

	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the configuration file",
			Value:   "config.toml",
		},
	},

	Commands: []*cli.Command{
		bot.Command,
		migrate.Command,
		importdb.Command,
	},
}

func Run() error {
	return app.Run(os.Args)
}
