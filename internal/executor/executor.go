package executor

import (
	"fmt"

	"github.com/zakazai/ulin-sql/internal/parser"
	"github.com/zakazai/ulin-sql/internal/planner"
	"github.com/zakazai/ulin-sql/internal/storage"
	"github.com/zakazai/ulin-sql/internal/types"
)

// Outcome is the result of one executed statement: a row set for SELECT or
// a mutation summary for everything else
type Outcome = planner.Result

// Executor runs statement text against a catalog. A failing statement leaves
// the catalog as it was before the statement began.
type Executor struct {
	catalog *storage.Catalog
	planner *planner.Planner
	logger  *types.Logger
}

// New creates an executor over catalog that logs to the global logger
func New(catalog *storage.Catalog) *Executor {
	return &Executor{
		catalog: catalog,
		planner: planner.NewPlanner(catalog),
		logger:  types.GlobalLogger.With("executor"),
	}
}

// SetLogger replaces the logger for this executor and its catalog
func (e *Executor) SetLogger(logger *types.Logger) {
	if logger == nil {
		logger = types.NopLogger()
	}
	e.logger = logger.With("executor")
	e.catalog.SetLogger(logger)
}

// Catalog returns the catalog statements run against
func (e *Executor) Catalog() *storage.Catalog {
	return e.catalog
}

// Execute lexes, parses and runs exactly one statement
func Execute(catalog *storage.Catalog, text string) (*Outcome, error) {
	return New(catalog).Execute(text)
}

// Execute lexes, parses and runs exactly one statement
func (e *Executor) Execute(text string) (*Outcome, error) {
	stmt, err := parser.Parse(text)
	if err != nil {
		e.logger.Warning("Failed to parse statement (%s): %v", ErrorKind(err), err)
		return nil, err
	}
	return e.ExecuteStatement(stmt)
}

// ExecuteScript parses a whole script and runs its statements in order. The
// script is rejected before anything runs if any statement fails to parse.
// Execution stops at the first failing statement; the outcomes of the
// statements before it are returned along with the error.
func (e *Executor) ExecuteScript(text string) ([]*Outcome, error) {
	stmts, err := parser.ParseScript(text)
	if err != nil {
		e.logger.Warning("Failed to parse script (%s): %v", ErrorKind(err), err)
		return nil, err
	}

	outcomes := make([]*Outcome, 0, len(stmts))
	for i, stmt := range stmts {
		out, err := e.ExecuteStatement(stmt)
		if err != nil {
			return outcomes, fmt.Errorf("statement %d: %w", i+1, err)
		}
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}

// ExecuteStatement runs an already parsed statement
func (e *Executor) ExecuteStatement(stmt parser.Statement) (*Outcome, error) {
	e.logger.Debug("Executing %s", stmt.Kind())

	out, err := e.planner.Execute(stmt)
	if err != nil {
		e.logger.Warning("%s failed (%s): %v", stmt.Kind(), ErrorKind(err), err)
		return nil, err
	}

	if stmt.Kind().IsDDL() {
		e.logger.Info("%s", describe(stmt, out))
	} else {
		e.logger.Debug("%s", out.Summary())
	}
	return out, nil
}

func describe(stmt parser.Statement, out *Outcome) string {
	switch s := stmt.(type) {
	case *parser.CreateDatabaseStatement:
		return "Created database " + s.Name
	case *parser.DropDatabaseStatement:
		return "Dropped database " + s.Name
	case *parser.UseDatabaseStatement:
		return "Using database " + s.Name
	case *parser.CreateTableStatement:
		return fmt.Sprintf("Created table %s with %d columns", s.Table, len(s.Columns))
	case *parser.DropTableStatement:
		return "Dropped table " + s.Table
	case *parser.TruncateTableStatement:
		return fmt.Sprintf("Truncated table %s, removed %d rows", s.Table, out.RowsAffected)
	case *parser.AlterAddColumnStatement:
		return fmt.Sprintf("Added column %s to table %s", s.Column, s.Table)
	case *parser.AlterDropColumnStatement:
		return fmt.Sprintf("Dropped column %s from table %s", s.Column, s.Table)
	case *parser.AlterModifyColumnStatement:
		return fmt.Sprintf("Changed column %s of table %s to %s", s.Column, s.Table, s.Type)
	default:
		return out.Summary()
	}
}
