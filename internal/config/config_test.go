package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zakazai/ulin-sql/internal/config"
	"github.com/zakazai/ulin-sql/internal/snapshot"
	"github.com/zakazai/ulin-sql/internal/types"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	for _, key := range []string{config.EnvLogLevel, config.EnvSnapshot, config.EnvSnapshotFormat, config.EnvHistory, config.EnvPrompt} {
		t.Setenv(key, "")
	}

	cfg, err := config.LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, "ulin-sql> ", cfg.Prompt)
	assert.Equal(t, types.LogLevelInfo, cfg.Level())

	_, ok := cfg.Snapshot()
	assert.False(t, ok)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv(config.EnvLogLevel, "DEBUG")
	t.Setenv(config.EnvSnapshot, "/tmp/data.parquet")
	t.Setenv(config.EnvSnapshotFormat, "")
	t.Setenv(config.EnvHistory, "/tmp/history")
	t.Setenv(config.EnvPrompt, "> ")

	cfg, err := config.LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, types.LogLevelDebug, cfg.Level())
	assert.Equal(t, "/tmp/history", cfg.HistoryFile)
	assert.Equal(t, "> ", cfg.Prompt)

	snap, ok := cfg.Snapshot()
	require.True(t, ok)
	assert.Equal(t, snapshot.Config{Path: "/tmp/data.parquet"}, snap)

	t.Setenv(config.EnvSnapshotFormat, "sqlite")
	cfg, err = config.LoadFromEnv()
	require.NoError(t, err)
	snap, _ = cfg.Snapshot()
	assert.Equal(t, snapshot.FormatSQLite, snap.Format)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{name: "Defaults", mutate: func(*config.Config) {}},
		{name: "Level_off", mutate: func(c *config.Config) { c.LogLevel = "off" }},
		{name: "Unknown_level", mutate: func(c *config.Config) { c.LogLevel = "loud" }, wantErr: true},
		{name: "Known_format", mutate: func(c *config.Config) { c.SnapshotFormat = "JSON" }},
		{name: "Unknown_format", mutate: func(c *config.Config) { c.SnapshotFormat = "csv" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}

	t.Setenv(config.EnvLogLevel, "chatty")
	_, err := config.LoadFromEnv()
	assert.ErrorContains(t, err, "invalid log level")
}

func TestOverrideBeforeValidate(t *testing.T) {
	t.Setenv(config.EnvLogLevel, "loud")
	t.Setenv(config.EnvSnapshot, "/tmp/env.json")
	t.Setenv(config.EnvSnapshotFormat, "csv")
	t.Setenv(config.EnvPrompt, "env> ")

	cfg := config.ReadEnv()
	assert.Error(t, cfg.Validate())

	cfg = cfg.Override(config.Config{LogLevel: "debug", SnapshotFormat: "json"})
	require.NoError(t, cfg.Validate())
	assert.Equal(t, types.LogLevelDebug, cfg.Level())
	assert.Equal(t, "/tmp/env.json", cfg.SnapshotPath)
	assert.Equal(t, "env> ", cfg.Prompt)

	cfg = cfg.Override(config.Config{SnapshotPath: "/tmp/flag.db", Prompt: "flag> "})
	assert.Equal(t, "/tmp/flag.db", cfg.SnapshotPath)
	assert.Equal(t, "flag> ", cfg.Prompt)
}
