package parser

import (
	"fmt"
	"strings"

	"github.com/zakazai/ulin-sql/internal/types"
)

// StatementKind names the statement forms the parser produces
type StatementKind int

const (
	KindCreateDatabase StatementKind = iota
	KindDropDatabase
	KindUseDatabase
	KindCreateTable
	KindDropTable
	KindTruncateTable
	KindAlterAddColumn
	KindAlterDropColumn
	KindAlterModifyColumn
	KindSelect
	KindInsert
	KindUpdate
	KindDelete
)

var statementKindNames = [...]string{
	KindCreateDatabase:    "CREATE DATABASE",
	KindDropDatabase:      "DROP DATABASE",
	KindUseDatabase:       "USE",
	KindCreateTable:       "CREATE TABLE",
	KindDropTable:         "DROP TABLE",
	KindTruncateTable:     "TRUNCATE TABLE",
	KindAlterAddColumn:    "ALTER TABLE ADD COLUMN",
	KindAlterDropColumn:   "ALTER TABLE DROP COLUMN",
	KindAlterModifyColumn: "ALTER TABLE MODIFY COLUMN",
	KindSelect:            "SELECT",
	KindInsert:            "INSERT",
	KindUpdate:            "UPDATE",
	KindDelete:            "DELETE",
}

func (k StatementKind) String() string {
	if int(k) < len(statementKindNames) {
		return statementKindNames[k]
	}
	return fmt.Sprintf("StatementKind(%d)", int(k))
}

// IsDDL reports whether the statement changes schema rather than rows
func (k StatementKind) IsDDL() bool {
	switch k {
	case KindSelect, KindInsert, KindUpdate, KindDelete:
		return false
	default:
		return true
	}
}

// Statement is a parsed SQL statement
type Statement interface {
	Kind() StatementKind
}

// CreateDatabaseStatement represents CREATE DATABASE name
type CreateDatabaseStatement struct {
	Name string
}

// DropDatabaseStatement represents DROP DATABASE name
type DropDatabaseStatement struct {
	Name string
}

// UseDatabaseStatement represents USE name
type UseDatabaseStatement struct {
	Name string
}

// CreateTableStatement represents a CREATE TABLE SQL statement
type CreateTableStatement struct {
	Table   string
	Columns []types.Column
}

// DropTableStatement represents DROP TABLE name
type DropTableStatement struct {
	Table string
}

// TruncateTableStatement represents TRUNCATE TABLE name
type TruncateTableStatement struct {
	Table string
}

// AlterAddColumnStatement represents ALTER TABLE t ADD COLUMN c type
type AlterAddColumnStatement struct {
	Table  string
	Column types.Column
}

// AlterDropColumnStatement represents ALTER TABLE t DROP COLUMN c
type AlterDropColumnStatement struct {
	Table  string
	Column string
}

// AlterModifyColumnStatement represents ALTER TABLE t MODIFY COLUMN c type
type AlterModifyColumnStatement struct {
	Table  string
	Column string
	Type   types.DataType
}

// SelectStatement represents a SELECT SQL statement
type SelectStatement struct {
	Table    string
	Wildcard bool
	Columns  []string
	Where    Expr
}

// InsertStatement represents an INSERT SQL statement. Columns is nil when
// the statement names no column list.
type InsertStatement struct {
	Table   string
	Columns []string
	Rows    [][]types.Value
}

// Assignment is one col = value pair of an UPDATE
type Assignment struct {
	Column string
	Value  types.Value
}

// UpdateStatement represents an UPDATE SQL statement
type UpdateStatement struct {
	Table string
	Set   []Assignment
	Where Expr
}

// DeleteStatement represents a DELETE SQL statement
type DeleteStatement struct {
	Table string
	Where Expr
}

func (*CreateDatabaseStatement) Kind() StatementKind    { return KindCreateDatabase }
func (*DropDatabaseStatement) Kind() StatementKind      { return KindDropDatabase }
func (*UseDatabaseStatement) Kind() StatementKind       { return KindUseDatabase }
func (*CreateTableStatement) Kind() StatementKind       { return KindCreateTable }
func (*DropTableStatement) Kind() StatementKind         { return KindDropTable }
func (*TruncateTableStatement) Kind() StatementKind     { return KindTruncateTable }
func (*AlterAddColumnStatement) Kind() StatementKind    { return KindAlterAddColumn }
func (*AlterDropColumnStatement) Kind() StatementKind   { return KindAlterDropColumn }
func (*AlterModifyColumnStatement) Kind() StatementKind { return KindAlterModifyColumn }
func (*SelectStatement) Kind() StatementKind            { return KindSelect }
func (*InsertStatement) Kind() StatementKind            { return KindInsert }
func (*UpdateStatement) Kind() StatementKind            { return KindUpdate }
func (*DeleteStatement) Kind() StatementKind            { return KindDelete }

// Operator is a comparison or logical operator in a WHERE clause
type Operator int

const (
	OpEq Operator = iota
	OpNotEq
	OpLt
	OpGt
	OpLtEq
	OpGtEq
	OpAnd
	OpOr
)

var operatorNames = [...]string{
	OpEq:    "=",
	OpNotEq: "!=",
	OpLt:    "<",
	OpGt:    ">",
	OpLtEq:  "<=",
	OpGtEq:  ">=",
	OpAnd:   "AND",
	OpOr:    "OR",
}

func (o Operator) String() string {
	if int(o) < len(operatorNames) {
		return operatorNames[o]
	}
	return fmt.Sprintf("Operator(%d)", int(o))
}

// Expr is a node of a WHERE predicate tree
type Expr interface {
	exprNode()
	String() string
}

// ColumnExpr references a column of the row being evaluated
type ColumnExpr struct {
	Name string
}

// LiteralExpr is a constant operand
type LiteralExpr struct {
	Value types.Value
}

// ComparisonExpr compares two operands
type ComparisonExpr struct {
	Left  Expr
	Op    Operator
	Right Expr
}

// LogicalExpr combines two predicates with AND or OR
type LogicalExpr struct {
	Left  Expr
	Op    Operator
	Right Expr
}

func (*ColumnExpr) exprNode()     {}
func (*LiteralExpr) exprNode()    {}
func (*ComparisonExpr) exprNode() {}
func (*LogicalExpr) exprNode()    {}

func (e *ColumnExpr) String() string  { return e.Name }
func (e *LiteralExpr) String() string { return e.Value.Literal() }

func (e *ComparisonExpr) String() string {
	return fmt.Sprintf("%s %s %s", e.Left, e.Op, e.Right)
}

func (e *LogicalExpr) String() string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(e.Left.String())
	sb.WriteString(" ")
	sb.WriteString(e.Op.String())
	sb.WriteString(" ")
	sb.WriteString(e.Right.String())
	sb.WriteString(")")
	return sb.String()
}
