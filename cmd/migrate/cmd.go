package migrate

import (
	"github.com/starshine-sys/nbot/bot"
	"github.com/starshine-sys/nbot/common/log"
	"github.com/starshine-sys/nbot/db"
	"github.com/urfave/cli/v2"
)

var Command = &cli.Command{
	Name:   "migrate",
	Usage:  "Run migrations manually",
	Action: run,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "force",
			Aliases: []string{"f"},
			Usage:   "Run migrations whether or not no_auto_migrate is set in the config.",
			Value:   false,
		},
		&cli.IntFlag{
			Name:  "max",
			Usage: "Maximum number of migrations to run, 0 for all.",
			Value: 0,
		},
	},
}

func run(c *cli.Context) error {
	conf, err := bot.ReadConfig(c.String("config"))
	if err != nil {
		log.Fatalf("Reading configuration: %v", err)
	}

	if conf.Auth.Mongo != "" {
		return cli.Exit("A MongoDB database is configured, which doesn't use migrations.", 1)
	}

	if conf.Auth.Postgres == "" {
		return cli.Exit("No database url set in the configuration file.", 1)
	}

	if !conf.Bot.NoAutoMigrate && !c.Bool("force") {
		return cli.Exit("Migrations are run automatically, and the --force flag is not set.", 1)
	}

	n, err := db.RunMigrations(conf.Auth.Postgres, c.Int("max"))
	if err != nil {
		log.Fatalf("Running migrations: %v", err)
	}

	log.Infof("Successfully ran %v migrations!", n)
	return nil
}
