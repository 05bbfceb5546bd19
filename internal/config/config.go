package config

import (
	"fmt"
	"os"

	"github.com/zakazai/ulin-sql/internal/snapshot"
	"github.com/zakazai/ulin-sql/internal/types"
)

// Environment variables read by LoadFromEnv
const (
	EnvLogLevel       = "ULINSQL_LOG_LEVEL"
	EnvSnapshot       = "ULINSQL_SNAPSHOT"
	EnvSnapshotFormat = "ULINSQL_SNAPSHOT_FORMAT"
	EnvHistory        = "ULINSQL_HISTORY"
	EnvPrompt         = "ULINSQL_PROMPT"
)

// DefaultPrompt is shown by the interactive shell unless configured otherwise
const DefaultPrompt = "ulin-sql> "

// Config holds runtime configuration for the shell and CLI
type Config struct {
	LogLevel       string
	SnapshotPath   string // loaded on start and saved by .save when set
	SnapshotFormat string // empty means infer from SnapshotPath
	HistoryFile    string
	Prompt         string
}

// Default returns the configuration used when nothing is set
func Default() Config {
	return Config{
		LogLevel: "info",
		Prompt:   DefaultPrompt,
	}
}

// ReadEnv reads configuration from environment variables without validating
// it, so that command line overrides can replace bad values first
func ReadEnv() Config {
	config := Default()

	if level := os.Getenv(EnvLogLevel); level != "" {
		config.LogLevel = level
	}
	config.SnapshotPath = os.Getenv(EnvSnapshot)
	config.SnapshotFormat = os.Getenv(EnvSnapshotFormat)
	config.HistoryFile = os.Getenv(EnvHistory)
	if prompt := os.Getenv(EnvPrompt); prompt != "" {
		config.Prompt = prompt
	}
	return config
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (Config, error) {
	config := ReadEnv()
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Override returns c with every non-empty field of o applied on top
func (c Config) Override(o Config) Config {
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.SnapshotPath != "" {
		c.SnapshotPath = o.SnapshotPath
	}
	if o.SnapshotFormat != "" {
		c.SnapshotFormat = o.SnapshotFormat
	}
	if o.HistoryFile != "" {
		c.HistoryFile = o.HistoryFile
	}
	if o.Prompt != "" {
		c.Prompt = o.Prompt
	}
	return c
}

// Validate rejects unknown log levels and snapshot formats
func (c Config) Validate() error {
	if _, err := types.ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if c.SnapshotFormat != "" {
		if _, err := snapshot.ParseFormat(c.SnapshotFormat); err != nil {
			return fmt.Errorf("invalid snapshot format: %w", err)
		}
	}
	return nil
}

// Level returns the parsed log level
func (c Config) Level() types.LogLevel {
	level, err := types.ParseLogLevel(c.LogLevel)
	if err != nil {
		return types.LogLevelInfo
	}
	return level
}

// Snapshot returns the store configuration, or false if no snapshot file is
// configured
func (c Config) Snapshot() (snapshot.Config, bool) {
	if c.SnapshotPath == "" {
		return snapshot.Config{}, false
	}
	format, _ := snapshot.ParseFormat(c.SnapshotFormat)
	return snapshot.Config{Format: format, Path: c.SnapshotPath}, true
}
