package planner

import (
	"fmt"
	"sort"

	"github.com/zakazai/ulin-sql/internal/parser"
	"github.com/zakazai/ulin-sql/internal/storage"
	"github.com/zakazai/ulin-sql/internal/types"
)

// Result is what running a plan produces: a row set for SELECT, otherwise the
// statement kind and the number of rows it touched
type Result struct {
	Kind         parser.StatementKind
	Columns      []string
	Rows         [][]types.Value
	RowsAffected int
}

// IsRowSet reports whether the result carries rows to display
func (r *Result) IsRowSet() bool {
	return r.Kind == parser.KindSelect
}

// Summary is a one-line status for display after a statement ran
func (r *Result) Summary() string {
	switch r.Kind {
	case parser.KindSelect:
		return plural(len(r.Rows), "row") + " in set"
	case parser.KindInsert, parser.KindUpdate, parser.KindDelete, parser.KindTruncateTable:
		return fmt.Sprintf("%s OK, %s affected", r.Kind, plural(r.RowsAffected, "row"))
	default:
		return r.Kind.String() + " OK"
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// Plan is a statement bound to the catalog it runs against. For DML the
// target table, column positions and predicate are resolved up front, so a
// plan that was created successfully can only fail on row data.
type Plan struct {
	Kind    parser.StatementKind
	Catalog *storage.Catalog
	Table   *storage.Table

	// Columns holds projection positions for SELECT and target positions for
	// INSERT, Names the matching output names.
	Columns []int
	Names   []string
	Where   Predicate
	Set     map[int]types.Value
	Rows    []storage.Row

	stmt parser.Statement
}

// Planner creates plans against one catalog
type Planner struct {
	catalog *storage.Catalog
}

// NewPlanner creates a new planner
func NewPlanner(catalog *storage.Catalog) *Planner {
	return &Planner{catalog: catalog}
}

// Execute plans and runs a single statement
func (p *Planner) Execute(stmt parser.Statement) (*Result, error) {
	plan, err := CreatePlan(stmt, p.catalog)
	if err != nil {
		return nil, err
	}
	return plan.Execute()
}

// CreatePlan converts a Statement into an execution Plan
func CreatePlan(stmt parser.Statement, catalog *storage.Catalog) (*Plan, error) {
	plan := &Plan{
		Kind:    stmt.Kind(),
		Catalog: catalog,
		stmt:    stmt,
	}

	var err error
	switch s := stmt.(type) {
	case *parser.SelectStatement:
		err = plan.bindSelect(s)
	case *parser.InsertStatement:
		err = plan.bindInsert(s)
	case *parser.UpdateStatement:
		err = plan.bindUpdate(s)
	case *parser.DeleteStatement:
		err = plan.bindDelete(s)
	case *parser.CreateDatabaseStatement, *parser.DropDatabaseStatement, *parser.UseDatabaseStatement,
		*parser.CreateTableStatement, *parser.DropTableStatement, *parser.TruncateTableStatement,
		*parser.AlterAddColumnStatement, *parser.AlterDropColumnStatement, *parser.AlterModifyColumnStatement:
	default:
		return nil, fmt.Errorf("unsupported statement type: %T", stmt)
	}
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (p *Plan) bindTable(name string) error {
	t, err := p.Catalog.Table(name)
	if err != nil {
		return err
	}
	p.Table = t
	return nil
}

func (p *Plan) bindSelect(s *parser.SelectStatement) error {
	if err := p.bindTable(s.Table); err != nil {
		return err
	}

	if s.Wildcard {
		p.Names = p.Table.ColumnNames()
		p.Columns = make([]int, len(p.Names))
		for i := range p.Columns {
			p.Columns[i] = i
		}
	} else {
		for _, name := range s.Columns {
			idx, err := p.Table.ColumnIndex(name)
			if err != nil {
				return err
			}
			p.Columns = append(p.Columns, idx)
		}
		// projected columns come back in declaration order, not list order
		sort.Ints(p.Columns)
		names := p.Table.ColumnNames()
		for _, idx := range p.Columns {
			p.Names = append(p.Names, names[idx])
		}
	}

	where, err := CompilePredicate(s.Where, p.Table)
	if err != nil {
		return err
	}
	p.Where = where
	return nil
}

// bindInsert resolves target positions and expands every tuple into a full
// row in declaration order, with NULL for columns the statement does not name
func (p *Plan) bindInsert(s *parser.InsertStatement) error {
	if err := p.bindTable(s.Table); err != nil {
		return err
	}
	width := len(p.Table.ColumnNames())

	if s.Columns == nil {
		p.Names = p.Table.ColumnNames()
		for i := 0; i < width; i++ {
			p.Columns = append(p.Columns, i)
		}
	} else {
		seen := make(map[int]bool)
		for _, name := range s.Columns {
			idx, err := p.Table.ColumnIndex(name)
			if err != nil {
				return err
			}
			if seen[idx] {
				return fmt.Errorf("%w: %s listed twice in INSERT", storage.ErrDuplicateColumn, name)
			}
			seen[idx] = true
			p.Columns = append(p.Columns, idx)
			p.Names = append(p.Names, name)
		}
	}

	for n, values := range s.Rows {
		if len(values) != len(p.Columns) {
			return fmt.Errorf("%w: %d columns, %d values in tuple %d",
				storage.ErrColumnCountMismatch, len(p.Columns), len(values), n+1)
		}
		row := make(storage.Row, width)
		for i := range row {
			row[i] = types.Null
		}
		for i, v := range values {
			row[p.Columns[i]] = v
		}
		p.Rows = append(p.Rows, row)
	}
	return nil
}

// bindUpdate type-checks every assignment once, before any row is visited
func (p *Plan) bindUpdate(s *parser.UpdateStatement) error {
	if err := p.bindTable(s.Table); err != nil {
		return err
	}

	p.Set = make(map[int]types.Value, len(s.Set))
	for _, a := range s.Set {
		col, idx, err := p.Table.Column(a.Column)
		if err != nil {
			return err
		}
		if _, ok := p.Set[idx]; ok {
			return fmt.Errorf("%w: %s assigned twice in UPDATE", storage.ErrDuplicateColumn, a.Column)
		}
		v, err := col.Type.Check(a.Value)
		if err != nil {
			return fmt.Errorf("column %s: %w", col.Name, err)
		}
		p.Set[idx] = v
		p.Names = append(p.Names, col.Name)
	}

	where, err := CompilePredicate(s.Where, p.Table)
	if err != nil {
		return err
	}
	p.Where = where
	return nil
}

func (p *Plan) bindDelete(s *parser.DeleteStatement) error {
	if err := p.bindTable(s.Table); err != nil {
		return err
	}
	where, err := CompilePredicate(s.Where, p.Table)
	if err != nil {
		return err
	}
	p.Where = where
	return nil
}

// Execute executes the query plan
func (p *Plan) Execute() (*Result, error) {
	switch p.Kind {
	case parser.KindSelect:
		return p.executeSelect()
	case parser.KindInsert:
		if err := p.Table.Insert(p.Rows...); err != nil {
			return nil, err
		}
		return p.result(len(p.Rows)), nil
	case parser.KindUpdate:
		return p.executeUpdate()
	case parser.KindDelete:
		matched, err := p.matching()
		if err != nil {
			return nil, err
		}
		return p.result(p.Table.Delete(matched)), nil
	default:
		return p.executeDDL()
	}
}

func (p *Plan) result(affected int) *Result {
	return &Result{Kind: p.Kind, RowsAffected: affected}
}

// matching returns the positions of rows the predicate holds for. An
// evaluation error aborts the whole statement.
func (p *Plan) matching() ([]int, error) {
	var positions []int
	err := p.Table.Scan(func(i int, row storage.Row) error {
		ok, err := p.Where(row)
		if err != nil {
			return err
		}
		if ok {
			positions = append(positions, i)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return positions, nil
}

func (p *Plan) executeSelect() (*Result, error) {
	res := &Result{Kind: p.Kind, Columns: p.Names, Rows: [][]types.Value{}}
	err := p.Table.Scan(func(_ int, row storage.Row) error {
		ok, err := p.Where(row)
		if err != nil || !ok {
			return err
		}
		out := make([]types.Value, len(p.Columns))
		for i, idx := range p.Columns {
			out[i] = row[idx]
		}
		res.Rows = append(res.Rows, out)
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.RowsAffected = len(res.Rows)
	return res, nil
}

func (p *Plan) executeUpdate() (*Result, error) {
	matched, err := p.matching()
	if err != nil {
		return nil, err
	}
	if len(matched) == 0 {
		return p.result(0), nil
	}

	rows := p.Table.Rows()
	updates := make(map[int]storage.Row, len(matched))
	for _, i := range matched {
		row := rows[i]
		for idx, v := range p.Set {
			row[idx] = v
		}
		updates[i] = row
	}
	if err := p.Table.Replace(updates); err != nil {
		return nil, err
	}
	return p.result(len(matched)), nil
}

func (p *Plan) executeDDL() (*Result, error) {
	c := p.Catalog
	var err error
	affected := 0

	switch s := p.stmt.(type) {
	case *parser.CreateDatabaseStatement:
		err = c.CreateDatabase(s.Name)
	case *parser.DropDatabaseStatement:
		err = c.DropDatabase(s.Name)
	case *parser.UseDatabaseStatement:
		err = c.UseDatabase(s.Name)
	case *parser.CreateTableStatement:
		err = c.CreateTable(s.Table, s.Columns)
	case *parser.DropTableStatement:
		err = c.DropTable(s.Table)
	case *parser.TruncateTableStatement:
		affected, err = c.TruncateTable(s.Table)
	case *parser.AlterAddColumnStatement:
		err = c.AlterAddColumn(s.Table, s.Column)
	case *parser.AlterDropColumnStatement:
		err = c.AlterDropColumn(s.Table, s.Column)
	case *parser.AlterModifyColumnStatement:
		err = c.AlterModifyColumn(s.Table, s.Column, s.Type)
	default:
		return nil, fmt.Errorf("unsupported statement type: %s", p.Kind)
	}
	if err != nil {
		return nil, err
	}
	return p.result(affected), nil
}
