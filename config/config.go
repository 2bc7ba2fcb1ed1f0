package config

import (
	room_constants "Dilemma/constants/room"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	STORE_POSTGRES = "postgres"
	STORE_MEMORY   = "memory"
)

type Config struct {
	Bind string
	Port int
	Prod bool

	// DatabaseURL wins over the POSTGRES_* parts
	DatabaseURL      string
	PostgresUser     string
	PostgresPassword string
	PostgresHost     string
	PostgresPort     string
	PostgresDatabase string
	Migrate          bool
	VerbosePostgres  bool

	RedisURL string
	Store    string
	Feed     string

	SessionKey   string
	PublicURL    string
	AllowOrigins []string

	ChoicePolicy string
	LeavePolicy  string

	LogLevel  string
	LogFormat string
}

func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Port)
	}
	if c.SessionKey == "" {
		return errors.New("--session-key is required (env: DILEMMA_SESSION_KEY)")
	}
	if c.Prod && len(c.SessionKey) < 32 {
		return errors.New("--session-key must be at least 32 characters in production")
	}

	switch c.Store {
	case STORE_POSTGRES:
		if c.DSN() == "" {
			return errors.New("postgres store needs --database-url or POSTGRES_HOST/POSTGRES_DATABASE")
		}
	case STORE_MEMORY:
	default:
		return fmt.Errorf("unknown store '%s' (postgres|memory)", c.Store)
	}

	switch c.Feed {
	case room_constants.FEED_POSTGRES:
		if c.Store != STORE_POSTGRES {
			return errors.New("the postgres feed needs the postgres store")
		}
	case room_constants.FEED_REDIS:
		if c.RedisURL == "" {
			return errors.New("the redis feed needs --redis-url")
		}
	case room_constants.FEED_MEMORY:
		if c.Store == STORE_POSTGRES {
			logrus.Warn("Memory feed with the postgres store: dashboards only see writes made by this process")
		}
	default:
		return fmt.Errorf("unknown feed '%s' (postgres|redis|memory)", c.Feed)
	}

	switch c.ChoicePolicy {
	case room_constants.CHOICE_POLICY_FINAL, room_constants.CHOICE_POLICY_RESETTABLE:
	default:
		return fmt.Errorf("unknown choice policy '%s' (final|resettable)", c.ChoicePolicy)
	}
	switch c.LeavePolicy {
	case room_constants.LEAVE_POLICY_KEEP, room_constants.LEAVE_POLICY_DELETE:
	default:
		return fmt.Errorf("unknown leave policy '%s' (keep|delete)", c.LeavePolicy)
	}

	if c.PublicURL != "" {
		if u, err := url.Parse(c.PublicURL); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid public url '%s'", c.PublicURL)
		}
	}
	return nil
}

// DSN is the PostgreSQL connection string, "" when nothing is configured.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	if c.PostgresHost == "" || c.PostgresDatabase == "" {
		return ""
	}
	// NOTE: https://stackoverflow.com/questions/57205060/how-to-connect-postgresql-database-using-gorm
	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(c.PostgresUser, c.PostgresPassword),
		Host:   c.PostgresHost + ":" + c.PostgresPort,
		Path:   "/" + c.PostgresDatabase,
	}
	if c.PostgresPort == "" {
		u.Host = c.PostgresHost
	}
	return u.String()
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Bind, c.Port)
}

// ConfigureLogging applies the log level and format to the logrus standard logger.
func (c *Config) ConfigureLogging() error {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)

	switch strings.ToLower(c.LogFormat) {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("unknown log format '%s' (text|json)", c.LogFormat)
	}
	return nil
}
