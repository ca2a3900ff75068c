package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "KATEGORIE"

// dailyLetter as --letter switches to a letter of the day.
const dailyLetter = "daily"

// Config is filled from flags, KATEGORIE_* env vars and .env, in that order
// of precedence.
type Config struct {
	bind         string
	port         int
	store        string
	dbPath       string
	baseURL      string
	corsOrigin   string
	inviteSecret string
	inviteTTL    time.Duration
	letter       string
	dailySalt    string
	scoring      bool
	timeLimit    int
	logLevel     string
	logFormat    string
}

func (c *Config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	switch c.store {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("invalid store %q (want memory or sqlite)", c.store)
	}
	if c.store == "sqlite" && c.dbPath == "" {
		return errors.New("--db is required with --store=sqlite")
	}
	if c.letter == dailyLetter {
		if c.dailySalt == "" {
			return errors.New("--daily-salt is required with --letter=daily")
		}
	} else if utf8.RuneCountInString(c.letter) != 1 {
		return fmt.Errorf("--letter must be a single character: %q", c.letter)
	}
	if c.inviteTTL <= 0 {
		return errors.New("--invite-ttl must be positive")
	}
	if c.timeLimit < 0 {
		return errors.New("--time-limit cannot be negative")
	}
	return nil
}

// setupLogging configures the global zerolog logger.
func (c *Config) setupLogging() error {
	lvl, err := zerolog.ParseLevel(c.logLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	zerolog.SetGlobalLevel(lvl)
	switch c.logFormat {
	case "json":
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	case "console":
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	default:
		return fmt.Errorf("invalid --log-format %q (want console or json)", c.logFormat)
	}
	return nil
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "kategorie",
		Short:         "Two-player category word game server.",
		Args:          cobra.ExactArgs(0),
		Version:       releaseVersion,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			bindEnv(v, cmd.Flags())
			return cfg.setupLogging()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	pfs := cmd.PersistentFlags()
	pfs.StringVar(&cfg.logLevel, "log-level", "info", "log level: trace, debug, info, warn, error (env: KATEGORIE_LOG_LEVEL)")
	pfs.StringVar(&cfg.logFormat, "log-format", "console", "log format: console or json (env: KATEGORIE_LOG_FORMAT)")

	fs := cmd.Flags()
	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: KATEGORIE_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 5175, "port to listen on (env: KATEGORIE_PORT)")
	fs.StringVar(&cfg.store, "store", "sqlite", "game store: sqlite or memory (env: KATEGORIE_STORE)")
	fs.StringVar(&cfg.dbPath, "db", "./data/kategorie.db", "sqlite database path (env: KATEGORIE_DB)")
	fs.StringVar(&cfg.baseURL, "base-url", "http://localhost:5173", "web client base URL used in share links (env: KATEGORIE_BASE_URL)")
	fs.StringVar(&cfg.corsOrigin, "cors-origin", "", "allowed CORS origin, defaults to --base-url (env: KATEGORIE_CORS_ORIGIN)")
	fs.StringVar(&cfg.inviteSecret, "invite-secret", "dev_secret_change_me", "HMAC secret for invite tokens (env: KATEGORIE_INVITE_SECRET)")
	fs.DurationVar(&cfg.inviteTTL, "invite-ttl", 7*24*time.Hour, "invite token lifetime (env: KATEGORIE_INVITE_TTL)")
	fs.StringVar(&cfg.letter, "letter", "b", `required starting letter for new games, or "daily" (env: KATEGORIE_LETTER)`)
	fs.StringVar(&cfg.dailySalt, "daily-salt", "kategorie", "salt for the letter of the day (env: KATEGORIE_DAILY_SALT)")
	fs.BoolVar(&cfg.scoring, "scoring", true, "score games when the second player joins (env: KATEGORIE_SCORING)")
	fs.IntVar(&cfg.timeLimit, "time-limit", 0, "advisory answer time limit in seconds, 0 for none (env: KATEGORIE_TIME_LIMIT)")

	cmd.AddCommand(newPlayCmd())

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("kategorie v{{.Version}}\n")

	return cmd
}

// bindEnv lets KATEGORIE_<FLAG> set any flag the user did not pass.
func bindEnv(v *viper.Viper, fs *pflag.FlagSet) {
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}
