package storage

import (
	"fmt"

	"github.com/zakazai/ulin-sql/internal/types"
)

// Row is one record of a table. Its length and per-position types always
// match the owning table's columns.
type Row []types.Value

// Clone returns a copy that shares no storage with r
func (r Row) Clone() Row {
	out := make(Row, len(r))
	copy(out, r)
	return out
}

// Table owns an ordered column schema and the rows that follow it
type Table struct {
	name    string
	columns []types.Column
	rows    []Row
}

func newTable(name string, columns []types.Column) (*Table, error) {
	seen := make(map[string]bool)
	for _, col := range columns {
		if seen[col.Name] {
			return nil, fmt.Errorf("%w: %s in table %s", ErrDuplicateColumn, col.Name, name)
		}
		seen[col.Name] = true
	}

	cols := make([]types.Column, len(columns))
	copy(cols, columns)
	return &Table{name: name, columns: cols}, nil
}

// RestoreTable rebuilds a table from a persisted schema and rows. Every row
// is checked against the schema.
func RestoreTable(name string, columns []types.Column, rows []Row) (*Table, error) {
	t, err := newTable(name, columns)
	if err != nil {
		return nil, err
	}
	if err := t.Insert(rows...); err != nil {
		return nil, err
	}
	return t, nil
}

// Name returns the table name
func (t *Table) Name() string {
	return t.name
}

// Columns returns a copy of the schema in declaration order
func (t *Table) Columns() []types.Column {
	cols := make([]types.Column, len(t.columns))
	copy(cols, t.columns)
	return cols
}

// ColumnNames returns the column names in declaration order
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name
	}
	return names
}

// ColumnIndex returns the position of the named column
func (t *Table) ColumnIndex(name string) (int, error) {
	for i, col := range t.columns {
		if col.Name == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s in table %s", ErrUnknownColumn, name, t.name)
}

// Column returns the named column and its position
func (t *Table) Column(name string) (types.Column, int, error) {
	i, err := t.ColumnIndex(name)
	if err != nil {
		return types.Column{}, -1, err
	}
	return t.columns[i], i, nil
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns a copy of every row in insertion order
func (t *Table) Rows() []Row {
	rows := make([]Row, len(t.rows))
	for i, row := range t.rows {
		rows[i] = row.Clone()
	}
	return rows
}

// Scan calls fn for each row in order, stopping at the first error. The row
// passed to fn must not be modified or retained.
func (t *Table) Scan(fn func(i int, row Row) error) error {
	for i, row := range t.rows {
		if err := fn(i, row); err != nil {
			return err
		}
	}
	return nil
}

// checkRow validates a full row against the schema and returns it in stored
// form
func (t *Table) checkRow(row Row) (Row, error) {
	if len(row) != len(t.columns) {
		return nil, fmt.Errorf("%w: table %s has %d columns, row has %d values",
			ErrColumnCountMismatch, t.name, len(t.columns), len(row))
	}

	out := make(Row, len(row))
	for i, v := range row {
		stored, err := t.columns[i].Type.Check(v)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", t.columns[i].Name, err)
		}
		out[i] = stored
	}
	return out, nil
}

// Insert appends rows after validating all of them. Nothing is appended if
// any row is invalid.
func (t *Table) Insert(rows ...Row) error {
	checked := make([]Row, 0, len(rows))
	for _, row := range rows {
		r, err := t.checkRow(row)
		if err != nil {
			return err
		}
		checked = append(checked, r)
	}
	t.rows = append(t.rows, checked...)
	return nil
}

// Replace swaps the rows at the given positions for new full rows. All
// replacements are validated before any is applied.
func (t *Table) Replace(updates map[int]Row) error {
	checked := make(map[int]Row, len(updates))
	for i, row := range updates {
		if i < 0 || i >= len(t.rows) {
			return fmt.Errorf("row %d out of range for table %s", i, t.name)
		}
		r, err := t.checkRow(row)
		if err != nil {
			return err
		}
		checked[i] = r
	}
	for i, r := range checked {
		t.rows[i] = r
	}
	return nil
}

// Delete removes the rows at the given positions, keeping the relative order
// of the rest, and returns how many were removed
func (t *Table) Delete(positions []int) int {
	if len(positions) == 0 {
		return 0
	}
	drop := make(map[int]bool, len(positions))
	for _, i := range positions {
		drop[i] = true
	}

	kept := make([]Row, 0, len(t.rows))
	for i, row := range t.rows {
		if !drop[i] {
			kept = append(kept, row)
		}
	}
	removed := len(t.rows) - len(kept)
	t.rows = kept
	return removed
}

func (t *Table) truncate() int {
	n := len(t.rows)
	t.rows = nil
	return n
}

// addColumn appends col to the schema and NULL to every row
func (t *Table) addColumn(col types.Column) error {
	if _, err := t.ColumnIndex(col.Name); err == nil {
		return fmt.Errorf("%w: %s in table %s", ErrDuplicateColumn, col.Name, t.name)
	}

	t.columns = append(t.columns, col)
	for i, row := range t.rows {
		grown := make(Row, len(row)+1)
		copy(grown, row)
		grown[len(row)] = types.Null
		t.rows[i] = grown
	}
	return nil
}

// dropColumn removes the named column from the schema and the value at the
// same position from every row
func (t *Table) dropColumn(name string) error {
	idx, err := t.ColumnIndex(name)
	if err != nil {
		return err
	}
	if len(t.columns) == 1 {
		return fmt.Errorf("%w: cannot drop %s, the only column of table %s", ErrIncompatibleAlteration, name, t.name)
	}

	t.columns = append(t.columns[:idx:idx], t.columns[idx+1:]...)
	for i, row := range t.rows {
		t.rows[i] = append(row[:idx:idx], row[idx+1:]...)
	}
	return nil
}

// modifyColumn changes the named column's type if every stored value fits the
// new type. Otherwise the table is left untouched.
func (t *Table) modifyColumn(name string, dt types.DataType) error {
	idx, err := t.ColumnIndex(name)
	if err != nil {
		return err
	}

	converted := make([]types.Value, len(t.rows))
	for i, row := range t.rows {
		v, err := dt.Check(row[idx])
		if err != nil {
			return fmt.Errorf("%w: column %s to %s, row %d: %v", ErrIncompatibleAlteration, name, dt, i, err)
		}
		converted[i] = v
	}

	t.columns[idx].Type = dt
	for i, row := range t.rows {
		row[idx] = converted[i]
	}
	return nil
}
