package planner

import (
	"fmt"

	"github.com/zakazai/ulin-sql/internal/parser"
	"github.com/zakazai/ulin-sql/internal/storage"
	"github.com/zakazai/ulin-sql/internal/types"
)

// Predicate decides whether a row matches a WHERE clause
type Predicate func(row storage.Row) (bool, error)

// matchAll is the predicate of a statement without WHERE
func matchAll(storage.Row) (bool, error) { return true, nil }

// operand yields one side of a comparison for a given row
type operand func(row storage.Row) types.Value

// CompilePredicate binds column references in expr to positions in table.
// A nil expr matches every row.
func CompilePredicate(expr parser.Expr, table *storage.Table) (Predicate, error) {
	if expr == nil {
		return matchAll, nil
	}

	switch e := expr.(type) {
	case *parser.LogicalExpr:
		left, err := CompilePredicate(e.Left, table)
		if err != nil {
			return nil, err
		}
		right, err := CompilePredicate(e.Right, table)
		if err != nil {
			return nil, err
		}
		return logical(e.Op, left, right)
	case *parser.ComparisonExpr:
		left, err := compileOperand(e.Left, table)
		if err != nil {
			return nil, err
		}
		right, err := compileOperand(e.Right, table)
		if err != nil {
			return nil, err
		}
		return comparison(e.Op, left, right)
	default:
		return nil, fmt.Errorf("unsupported predicate %s", expr)
	}
}

func compileOperand(expr parser.Expr, table *storage.Table) (operand, error) {
	switch e := expr.(type) {
	case *parser.ColumnExpr:
		idx, err := table.ColumnIndex(e.Name)
		if err != nil {
			return nil, err
		}
		return func(row storage.Row) types.Value { return row[idx] }, nil
	case *parser.LiteralExpr:
		v := e.Value
		return func(storage.Row) types.Value { return v }, nil
	default:
		return nil, fmt.Errorf("unsupported operand %s", expr)
	}
}

// Both sides are always evaluated so a type mismatch surfaces regardless of
// what the other side yields.
func logical(op parser.Operator, left, right Predicate) (Predicate, error) {
	if op != parser.OpAnd && op != parser.OpOr {
		return nil, fmt.Errorf("unsupported logical operator %s", op)
	}
	return func(row storage.Row) (bool, error) {
		l, err := left(row)
		if err != nil {
			return false, err
		}
		r, err := right(row)
		if err != nil {
			return false, err
		}
		if op == parser.OpAnd {
			return l && r, nil
		}
		return l || r, nil
	}, nil
}

func comparison(op parser.Operator, left, right operand) (Predicate, error) {
	var holds func(c int) bool
	switch op {
	case parser.OpEq:
		holds = func(c int) bool { return c == 0 }
	case parser.OpNotEq:
		holds = func(c int) bool { return c != 0 }
	case parser.OpLt:
		holds = func(c int) bool { return c < 0 }
	case parser.OpGt:
		holds = func(c int) bool { return c > 0 }
	case parser.OpLtEq:
		holds = func(c int) bool { return c <= 0 }
	case parser.OpGtEq:
		holds = func(c int) bool { return c >= 0 }
	default:
		return nil, fmt.Errorf("unsupported comparison operator %s", op)
	}

	return func(row storage.Row) (bool, error) {
		l, r := left(row), right(row)
		// NULL never satisfies a comparison
		if types.IsNull(l) || types.IsNull(r) {
			return false, nil
		}
		c, err := types.Compare(l, r)
		if err != nil {
			return false, err
		}
		return holds(c), nil
	}, nil
}
