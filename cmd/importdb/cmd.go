package importdb

import (
	"os"

	"emperror.dev/errors"
	"github.com/starshine-sys/nbot/bot"
	"github.com/starshine-sys/nbot/common/log"
	"github.com/starshine-sys/nbot/db"
	"github.com/urfave/cli/v2"
)

var Command = &cli.Command{
	Name:      "import",
	Usage:     "Import emotes from a mongoexport JSON file",
	ArgsUsage: "<file>",
	Action:    run,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "skip-existing",
			Usage: "Skip emotes that already exist instead of stopping.",
			Value: true,
		},
	},
}

func run(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("No file given.", 1)
	}

	conf, err := bot.ReadConfig(c.String("config"))
	if err != nil {
		log.Fatalf("Reading configuration: %v", err)
	}

	f, err := os.Open(c.Args().First())
	if err != nil {
		return errors.Wrap(err, "opening file")
	}
	defer f.Close()

	es, err := readExport(f)
	if err != nil {
		return errors.Wrap(err, "reading export")
	}

	store, err := bot.OpenDB(c.Context, conf)
	if err != nil {
		return err
	}
	defer store.Close()

	var added, skipped int
	for _, e := range es {
		_, err = store.AddEmote(c.Context, e)
		if err != nil {
			if errors.Is(err, db.ErrDuplicateName) && c.Bool("skip-existing") {
				log.Infof("Emote %q already exists, skipping", e.Name)
				skipped++
				continue
			}
			return errors.Wrapf(err, "adding emote %q", e.Name)
		}
		added++
	}

	log.Infof("Imported %v emotes (%v skipped)", added, skipped)
	return nil
}
