package main

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"account-service/internal/config"
)

func TestServeFlagsOverrideEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/accounts")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "9090")

	v := viper.New()
	cmd := NewServeCommand(v)
	require.NoError(t, cmd.ParseFlags([]string{"--port", "7000", "--run-migrations"}))

	cfg, err := config.Load(v)
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Port)
	assert.True(t, cfg.RunMigrations)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestServeFlagsDefaultToEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/accounts")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")

	v := viper.New()
	cmd := NewServeCommand(v)
	require.NoError(t, cmd.ParseFlags(nil))

	cfg, err := config.Load(v)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.RunMigrations)
}

func TestRootCommand(t *testing.T) {
	root := NewRootCommand()

	names := make([]string, 0, len(root.Commands()))
	for _, sub := range root.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "migrate")
	assert.NotNil(t, root.Flags().Lookup("port"))
}

func TestServeRequiresConfig(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")

	cmd := NewServeCommand(viper.New())
	cmd.SetArgs([]string{})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "JWT_SECRET")
}
