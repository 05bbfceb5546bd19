package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/zakazai/ulin-sql/internal/config"
	"github.com/zakazai/ulin-sql/internal/executor"
	"github.com/zakazai/ulin-sql/internal/generator"
	"github.com/zakazai/ulin-sql/internal/repl"
	"github.com/zakazai/ulin-sql/internal/snapshot"
	"github.com/zakazai/ulin-sql/internal/storage"
	"github.com/zakazai/ulin-sql/internal/types"
)

var (
	logLevel       string
	snapshotPath   string
	snapshotFormat string
	historyFile    string
	prompt         string
	saveAfter      bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "ulinsql",
	Short:         "In-memory SQL engine",
	Long:          `An in-memory SQL engine with an interactive shell, script execution and snapshot files.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runShell,
}

var execCmd = &cobra.Command{
	Use:   "exec [file]",
	Short: "Execute a SQL script",
	Long:  `Execute a SQL script read from a file, or from stdin when no file is given.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExec,
}

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the snapshot as a SQL script",
	Long:  `Load the configured snapshot and print a SQL script that recreates it.`,
	Args:  cobra.NoArgs,
	RunE:  runDump,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warning, error or none (env "+config.EnvLogLevel+")")
	flags.StringVar(&snapshotPath, "snapshot", "", "Snapshot file loaded on start (env "+config.EnvSnapshot+")")
	flags.StringVar(&snapshotFormat, "format", "", "Snapshot format: json, parquet or sqlite (default: from file extension)")
	rootCmd.Flags().StringVar(&historyFile, "history", "", "Shell history file (env "+config.EnvHistory+")")
	rootCmd.Flags().StringVar(&prompt, "prompt", "", "Shell prompt (env "+config.EnvPrompt+")")
	execCmd.Flags().BoolVar(&saveAfter, "save", false, "Save the catalog to the snapshot file after the script succeeds")

	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(dumpCmd)
}

// loadConfig reads the environment and applies command line overrides
// before validating, so a valid flag replaces a bad environment value
func loadConfig() (config.Config, error) {
	cfg := config.ReadEnv().Override(config.Config{
		LogLevel:       logLevel,
		SnapshotPath:   snapshotPath,
		SnapshotFormat: snapshotFormat,
		HistoryFile:    historyFile,
		Prompt:         prompt,
	})
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}

	types.GlobalLogger = types.InitLogger(cfg.Level(), os.Stderr)
	return cfg, nil
}

// newSession builds a session over the configured snapshot, or over an empty
// catalog if there is none yet
func newSession(cfg config.Config) (*repl.Session, error) {
	exec := executor.New(storage.NewCatalog())
	exec.SetLogger(types.GlobalLogger)
	s := repl.NewSession(exec, os.Stdout, types.GlobalLogger)

	snap, ok := cfg.Snapshot()
	if !ok {
		return s, nil
	}
	s.SetSnapshot(snap)
	if _, err := os.Stat(snap.Path); errors.Is(err, os.ErrNotExist) {
		types.GlobalLogger.Info("Snapshot %s does not exist yet, starting empty", snap.Path)
		return s, nil
	}
	if err := s.Load(snap); err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	types.GlobalLogger.Info("Loaded snapshot %s", snap.Path)
	return s, nil
}

func runShell(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := newSession(cfg)
	if err != nil {
		return err
	}

	// Check if we're in interactive mode or piped input
	interactive := true
	if stat, err := os.Stdin.Stat(); err == nil && (stat.Mode()&os.ModeCharDevice) == 0 {
		interactive = false
	}

	return repl.Run(s, os.Stdin, repl.Options{
		Prompt:      cfg.Prompt,
		HistoryFile: cfg.HistoryFile,
		Interactive: interactive,
	})
}

func runExec(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var script []byte
	if len(args) == 1 {
		script, err = os.ReadFile(args[0])
	} else {
		script, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}

	s, err := newSession(cfg)
	if err != nil {
		return err
	}
	if err := s.Exec(string(script)); err != nil {
		return fmt.Errorf("%s: %w", executor.ErrorKind(err), err)
	}

	if !saveAfter {
		return nil
	}
	snap, ok := cfg.Snapshot()
	if !ok {
		return fmt.Errorf("--save needs a snapshot file")
	}
	img, err := snapshot.Save(s.Catalog(), snap)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	types.GlobalLogger.Info("Saved snapshot %s to %s", img.ID, snap.Path)
	return nil
}

func runDump(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	snap, ok := cfg.Snapshot()
	if !ok {
		return fmt.Errorf("dump needs a snapshot file, pass --snapshot")
	}
	cat, err := snapshot.Load(snap)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}
	script, err := generator.GenerateSQL(cat)
	if err != nil {
		return err
	}
	fmt.Print(script)
	return nil
}
