package generator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zakazai/ulin-sql/internal/storage"
	"github.com/zakazai/ulin-sql/internal/types"
)

// ErrAllNull is returned for a row with no non-NULL value. The dialect has no
// NULL literal, so such a row has no INSERT form.
var ErrAllNull = errors.New("row has no non-NULL value")

// DMLGenerator generates DML statements
type DMLGenerator struct{}

// NewDMLGenerator creates a new DML generator
func NewDMLGenerator() *DMLGenerator {
	return &DMLGenerator{}
}

// Generate renders one INSERT per row, in row order
func (g *DMLGenerator) Generate(table *storage.Table) (string, error) {
	var statements []string
	names := table.ColumnNames()

	for i, row := range table.Rows() {
		stmt, err := g.generateInsert(table.Name(), names, row)
		if err != nil {
			return "", fmt.Errorf("table %s row %d: %w", table.Name(), i+1, err)
		}
		statements = append(statements, stmt)
	}
	return strings.Join(statements, "\n"), nil
}

// generateInsert names only the non-NULL columns; the omitted ones are
// filled with NULL again on replay
func (g *DMLGenerator) generateInsert(tableName string, names []string, row storage.Row) (string, error) {
	var columns []string
	var values []string

	for i, val := range row {
		if types.IsNull(val) {
			continue
		}
		columns = append(columns, names[i])
		values = append(values, val.Literal())
	}
	if len(columns) == 0 {
		return "", ErrAllNull
	}

	if len(columns) == len(names) {
		return fmt.Sprintf("INSERT INTO %s VALUES (%s);", tableName, strings.Join(values, ", ")), nil
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s);",
		tableName,
		strings.Join(columns, ", "),
		strings.Join(values, ", "),
	), nil
}
