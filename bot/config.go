package bot

import (
	"os"

	"emperror.dev/errors"
	"github.com/BurntSushi/toml"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/nbot/colors"
	"github.com/starshine-sys/nbot/emotes"
)

type Config struct {
	Auth AuthConfig `toml:"auth"`
	Bot  BotConfig  `toml:"bot"`
}

type AuthConfig struct {
	Discord  string `toml:"discord"`
	Postgres string `toml:"postgres"`
	// Mongo is used instead of Postgres if set.
	Mongo  string `toml:"mongo"`
	Redis  string `toml:"redis"`
	Sentry string `toml:"sentry"`

	Influx AuthInfluxConfig `toml:"influx"`
}

type AuthInfluxConfig struct {
	URL          string `toml:"url"`
	Token        string `toml:"token"`
	Organization string `toml:"organization"`
	Database     string `toml:"database"`
}

type BotConfig struct {
	Owners   []discord.UserID `toml:"owners"`
	Prefixes []string         `toml:"prefixes"`

	// ColorRolePrefix is the name prefix of colour roles.
	ColorRolePrefix string `toml:"color_role_prefix"`
	// WebhookName is the name of webhooks created to post rewritten messages.
	WebhookName string `toml:"webhook_name"`

	Debug bool `toml:"debug"`

	// NoAutoMigrate specifies if migrations should be done automatically when the bot starts.
	// If this is set to true, migrations must be done manually by running the `nbot migrate` command.
	NoAutoMigrate bool `toml:"no_auto_migrate"`

	// HTTPPort is the port the read-only API listens on. The API is disabled if it's empty.
	HTTPPort string `toml:"http_port"`
}

// ReadConfig reads the config file at path.
// If path doesn't exist, the config is built from environment variables alone.
func ReadConfig(path string) (c Config, err error) {
	b, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return c, errors.Wrap(err, "read config file")
	}

	if err == nil {
		err = toml.Unmarshal(b, &c)
		if err != nil {
			return c, errors.Wrap(err, "unmarshal config")
		}
	}

	c.applyDefaults()

	if c.Auth.Discord == "" {
		return c, errors.New("no Discord token set")
	}
	if c.Auth.Postgres == "" && c.Auth.Mongo == "" {
		return c, errors.New("no database set")
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	envDefault(&c.Auth.Discord, "TOKEN")
	envDefault(&c.Auth.Postgres, "DATABASE_URL")
	envDefault(&c.Auth.Mongo, "MONGO_URL")
	envDefault(&c.Auth.Redis, "REDIS")
	envDefault(&c.Auth.Sentry, "SENTRY_URL")

	if len(c.Bot.Prefixes) == 0 {
		c.Bot.Prefixes = []string{"/"}
	}
	if c.Bot.ColorRolePrefix == "" {
		c.Bot.ColorRolePrefix = colors.DefaultPrefix
	}
	if c.Bot.WebhookName == "" {
		c.Bot.WebhookName = emotes.DefaultWebhookName
	}
}

func envDefault(field *string, key string) {
	if *field == "" {
		*field = os.Getenv(key)
	}
}
