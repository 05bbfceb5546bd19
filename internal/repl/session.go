package repl

import (
	"fmt"
	"io"
	"strings"

	"github.com/zakazai/ulin-sql/internal/executor"
	"github.com/zakazai/ulin-sql/internal/generator"
	"github.com/zakazai/ulin-sql/internal/snapshot"
	"github.com/zakazai/ulin-sql/internal/storage"
	"github.com/zakazai/ulin-sql/internal/types"
)

const helpText = `Statements end at the end of the line; separate several with ';'.
Meta commands:
  .databases         list databases
  .tables            list tables of the current database
  .schema <table>    show the columns of a table
  .dump              print the catalog as a SQL script
  .save [path]       write a snapshot (default: the configured snapshot)
  .load [path]       replace the catalog with a snapshot
  .help              show this help
  exit, quit         leave the shell`

// Session executes input lines against one catalog and writes results to out
type Session struct {
	exec     *executor.Executor
	out      io.Writer
	logger   *types.Logger
	snapshot snapshot.Config
}

// NewSession creates a session over exec writing to out
func NewSession(exec *executor.Executor, out io.Writer, logger *types.Logger) *Session {
	if logger == nil {
		logger = types.NopLogger()
	}
	return &Session{exec: exec, out: out, logger: logger.With("repl")}
}

// SetSnapshot sets the default target of .save and .load
func (s *Session) SetSnapshot(config snapshot.Config) {
	s.snapshot = config
}

// Catalog returns the catalog the session currently runs against
func (s *Session) Catalog() *storage.Catalog {
	return s.exec.Catalog()
}

// Handle processes one line of input and reports whether the session should
// end. Errors are printed, never returned, so one bad statement does not end
// the session.
func (s *Session) Handle(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	switch strings.ToLower(strings.TrimSuffix(line, ";")) {
	case "exit", "quit", ".exit", ".quit":
		return true
	}

	if strings.HasPrefix(line, ".") {
		if err := s.handleMeta(line); err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}
		return false
	}

	if err := s.Exec(line); err != nil {
		fmt.Fprintf(s.out, "Error (%s): %v\n", executor.ErrorKind(err), err)
	}
	return false
}

// Exec runs a script and prints the outcome of every statement that
// succeeded. The first failure is returned unprinted.
func (s *Session) Exec(text string) error {
	outcomes, err := s.exec.ExecuteScript(text)
	for _, out := range outcomes {
		s.print(out)
	}
	return err
}

func (s *Session) print(out *executor.Outcome) {
	if out.IsRowSet() {
		printFormattedResults(s.out, out.Columns, out.Rows)
		if len(out.Rows) > 0 {
			fmt.Fprintln(s.out, out.Summary())
		}
		return
	}
	fmt.Fprintln(s.out, out.Summary())
}

func (s *Session) handleMeta(line string) error {
	fields := strings.Fields(line)
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case ".help":
		fmt.Fprintln(s.out, helpText)
	case ".databases":
		printList(s.out, "databases", s.Catalog().DatabaseNames())
	case ".tables":
		db, err := s.Catalog().Current()
		if err != nil {
			return err
		}
		printList(s.out, "tables", db.TableNames())
	case ".schema":
		if len(args) != 1 {
			return fmt.Errorf("usage: .schema <table>")
		}
		table, err := s.Catalog().Table(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, generator.NewDDLGenerator().GenerateTable(table))
	case ".dump":
		script, err := generator.GenerateSQL(s.Catalog())
		if err != nil {
			return err
		}
		fmt.Fprint(s.out, script)
	case ".save":
		config, err := s.snapshotConfig(args)
		if err != nil {
			return err
		}
		img, err := snapshot.Save(s.Catalog(), config)
		if err != nil {
			return err
		}
		s.logger.Info("Saved snapshot %s to %s", img.ID, config.Path)
		fmt.Fprintf(s.out, "Saved snapshot to %s\n", config.Path)
	case ".load":
		config, err := s.snapshotConfig(args)
		if err != nil {
			return err
		}
		if err := s.Load(config); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Loaded snapshot from %s\n", config.Path)
	default:
		return fmt.Errorf("unknown command %s, try .help", fields[0])
	}
	return nil
}

func (s *Session) snapshotConfig(args []string) (snapshot.Config, error) {
	switch len(args) {
	case 0:
		if s.snapshot.Path == "" {
			return snapshot.Config{}, fmt.Errorf("no snapshot file configured, pass a path")
		}
		return s.snapshot, nil
	case 1:
		return snapshot.Config{Path: args[0]}, nil
	default:
		return snapshot.Config{}, fmt.Errorf("expected at most one path")
	}
}

// Load swaps in the catalog of a snapshot. The old catalog is kept if the
// snapshot cannot be read.
func (s *Session) Load(config snapshot.Config) error {
	cat, err := snapshot.Load(config)
	if err != nil {
		return err
	}
	exec := executor.New(cat)
	exec.SetLogger(s.logger)
	s.exec = exec
	return nil
}

