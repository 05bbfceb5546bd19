package executor

import (
	"errors"

	"github.com/zakazai/ulin-sql/internal/lexer"
	"github.com/zakazai/ulin-sql/internal/parser"
	"github.com/zakazai/ulin-sql/internal/storage"
	"github.com/zakazai/ulin-sql/internal/types"
)

// Error kinds a statement can fail with, gathered from the packages that
// raise them
var (
	ErrDuplicateDatabase      = storage.ErrDuplicateDatabase
	ErrUnknownDatabase        = storage.ErrUnknownDatabase
	ErrNoActiveDatabase       = storage.ErrNoActiveDatabase
	ErrDuplicateTable         = storage.ErrDuplicateTable
	ErrUnknownTable           = storage.ErrUnknownTable
	ErrDuplicateColumn        = storage.ErrDuplicateColumn
	ErrUnknownColumn          = storage.ErrUnknownColumn
	ErrColumnCountMismatch    = storage.ErrColumnCountMismatch
	ErrTypeMismatch           = types.ErrTypeMismatch
	ErrIncompatibleAlteration = storage.ErrIncompatibleAlteration
)

var errorKinds = []struct {
	err  error
	name string
}{
	{ErrIncompatibleAlteration, "IncompatibleAlteration"},
	{ErrTypeMismatch, "TypeMismatch"},
	{ErrDuplicateDatabase, "DuplicateDatabase"},
	{ErrUnknownDatabase, "UnknownDatabase"},
	{ErrNoActiveDatabase, "NoActiveDatabase"},
	{ErrDuplicateTable, "DuplicateTable"},
	{ErrUnknownTable, "UnknownTable"},
	{ErrDuplicateColumn, "DuplicateColumn"},
	{ErrUnknownColumn, "UnknownColumn"},
	{ErrColumnCountMismatch, "ColumnCountMismatch"},
}

// ErrorKind names the kind of a statement error, e.g. "TypeMismatch" or
// "ParseError". Errors of no known kind yield "Error"; nil yields "".
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}

	var lexErr *lexer.LexError
	if errors.As(err, &lexErr) {
		return "LexError"
	}
	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) {
		return "ParseError"
	}
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "Error"
}
