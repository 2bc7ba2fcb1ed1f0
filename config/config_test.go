package config_test

import (
	"Dilemma/config"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *config.Config {
	return &config.Config{
		Bind:         "127.0.0.1",
		Port:         8080,
		Store:        config.STORE_MEMORY,
		Feed:         "memory",
		SessionKey:   "dev-secret",
		ChoicePolicy: "final",
		LeavePolicy:  "keep",
		LogLevel:     "info",
		LogFormat:    "text",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr bool
	}{
		{"memory defaults", func(c *config.Config) {}, false},
		{"bad port", func(c *config.Config) { c.Port = 0 }, true},
		{"missing session key", func(c *config.Config) { c.SessionKey = "" }, true},
		{"weak key in prod", func(c *config.Config) { c.Prod = true }, true},
		{"unknown store", func(c *config.Config) { c.Store = "sqlite" }, true},
		{"postgres without dsn", func(c *config.Config) { c.Store = config.STORE_POSTGRES }, true},
		{"postgres with url", func(c *config.Config) {
			c.Store = config.STORE_POSTGRES
			c.Feed = "postgres"
			c.DatabaseURL = "postgres://dilemma@localhost/dilemma"
		}, false},
		{"postgres feed on memory store", func(c *config.Config) { c.Feed = "postgres" }, true},
		{"redis feed without url", func(c *config.Config) { c.Feed = "redis" }, true},
		{"redis feed", func(c *config.Config) { c.Feed = "redis"; c.RedisURL = "redis://localhost:6379/0" }, false},
		{"both choice policies", func(c *config.Config) { c.ChoicePolicy = "final,resettable" }, true},
		{"unknown leave policy", func(c *config.Config) { c.LeavePolicy = "archive" }, true},
		{"relative public url", func(c *config.Config) { c.PublicURL = "/join" }, true},
		{"public url", func(c *config.Config) { c.PublicURL = "https://dilemma.example.org" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDSNFromParts(t *testing.T) {
	c := &config.Config{
		PostgresUser:     "dilemma",
		PostgresPassword: "p@ss",
		PostgresHost:     "db",
		PostgresPort:     "5432",
		PostgresDatabase: "rooms",
	}
	assert.Equal(t, "postgresql://dilemma:p%40ss@db:5432/rooms", c.DSN())

	c.DatabaseURL = "postgres://override/db"
	assert.Equal(t, "postgres://override/db", c.DSN())

	assert.Equal(t, "", (&config.Config{}).DSN())
}

func TestConfigureLogging(t *testing.T) {
	c := validConfig()
	assert.NoError(t, c.ConfigureLogging())

	c.LogFormat = "json"
	assert.NoError(t, c.ConfigureLogging())

	c.LogLevel = "loud"
	assert.Error(t, c.ConfigureLogging())
}

func TestCommandReadsEnvironment(t *testing.T) {
	t.Setenv("DILEMMA_PORT", "9090")
	t.Setenv("DILEMMA_STORE", "memory")
	t.Setenv("DILEMMA_FEED", "memory")
	t.Setenv("DILEMMA_SESSION_KEY", "from-env")
	t.Setenv("DILEMMA_CHOICE_POLICY", "resettable")
	t.Setenv("POSTGRES_HOST", "db.internal")

	var got *config.Config
	cfg := &config.Config{}
	cmd := config.NewCommand(cfg, func(ctx context.Context, c *config.Config) error {
		got = c
		return nil
	})
	cmd.SetArgs([]string{"--leave-policy", "delete"})

	require.NoError(t, cmd.Execute())
	require.NotNil(t, got)
	assert.Equal(t, 9090, got.Port)
	assert.Equal(t, "from-env", got.SessionKey)
	assert.Equal(t, "resettable", got.ChoicePolicy)
	assert.Equal(t, "delete", got.LeavePolicy)
	assert.Equal(t, "db.internal", got.PostgresHost)
}

func TestCommandRejectsInvalidConfig(t *testing.T) {
	t.Setenv("DILEMMA_SESSION_KEY", "")
	cmd := config.NewCommand(&config.Config{}, func(ctx context.Context, c *config.Config) error {
		t.Fatal("run must not be called")
		return nil
	})
	cmd.SetArgs([]string{"--store", "memory", "--feed", "memory"})
	assert.Error(t, cmd.Execute())
}
