package config

import (
	room_constants "Dilemma/constants/room"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const releaseVersion = "1.0.0"

// NewCommand builds the root command. Every flag can also be set through a
// DILEMMA_ environment variable. The connection parts POSTGRES_USER,
// POSTGRES_PASSWORD, POSTGRES_HOST, POSTGRES_PORT and POSTGRES_DATABASE
// are read without the prefix.
func NewCommand(cfg *Config, run func(ctx context.Context, cfg *Config) error) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("DILEMMA")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:     "dilemma",
		Short:   "Live Prisoner's Dilemma rooms for a facilitator and their participants.",
		Args:    cobra.ExactArgs(0),
		Version: releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.ConfigureLogging(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.Bind, "bind", "b", "0.0.0.0", "address to bind to (env: DILEMMA_BIND)")
	fs.IntVarP(&cfg.Port, "port", "p", 8080, "port to listen on (env: DILEMMA_PORT)")
	fs.BoolVar(&cfg.Prod, "prod", false, "run gin in release mode and require a strong session key (env: DILEMMA_PROD)")

	fs.StringVar(&cfg.DatabaseURL, "database-url", "", "postgres connection string (env: DILEMMA_DATABASE_URL)")
	fs.BoolVar(&cfg.Migrate, "migrate", false, "create or update the schema on startup (env: DILEMMA_MIGRATE)")
	fs.BoolVar(&cfg.VerbosePostgres, "verbose-postgres", false, "log every SQL statement (env: DILEMMA_VERBOSE_POSTGRES)")

	fs.StringVar(&cfg.RedisURL, "redis-url", "", "redis address or redis:// url (env: DILEMMA_REDIS_URL)")
	fs.StringVar(&cfg.Store, "store", STORE_POSTGRES, "where rooms live: postgres|memory (env: DILEMMA_STORE)")
	fs.StringVar(&cfg.Feed, "feed", room_constants.FEED_POSTGRES, "change feed: postgres|redis|memory (env: DILEMMA_FEED)")

	fs.StringVar(&cfg.SessionKey, "session-key", "", "secret that signs session cookies and stream tokens (env: DILEMMA_SESSION_KEY)")
	fs.StringVar(&cfg.PublicURL, "public-url", "", "base URL used in join links and QR codes (env: DILEMMA_PUBLIC_URL)")
	fs.StringSliceVar(&cfg.AllowOrigins, "allow-origin", nil, "CORS origins, any when empty (env: DILEMMA_ALLOW_ORIGIN)")

	fs.StringVar(&cfg.ChoicePolicy, "choice-policy", room_constants.CHOICE_POLICY_FINAL, "final|resettable (env: DILEMMA_CHOICE_POLICY)")
	fs.StringVar(&cfg.LeavePolicy, "leave-policy", room_constants.LEAVE_POLICY_KEEP, "keep|delete (env: DILEMMA_LEAVE_POLICY)")

	fs.StringVar(&cfg.LogLevel, "log-level", "info", "logrus level (env: DILEMMA_LOG_LEVEL)")
	fs.StringVar(&cfg.LogFormat, "log-format", "text", "text|json (env: DILEMMA_LOG_FORMAT)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	// POSTGRES_* as the original deployment sets them
	pg := viper.New()
	pg.SetEnvPrefix("POSTGRES")
	pg.AutomaticEnv()
	cfg.PostgresUser = pg.GetString("user")
	cfg.PostgresPassword = pg.GetString("password")
	cfg.PostgresHost = pg.GetString("host")
	cfg.PostgresPort = pg.GetString("port")
	cfg.PostgresDatabase = pg.GetString("database")

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("dilemma v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
