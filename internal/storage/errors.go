package storage

import "errors"

// Catalog error kinds. Operations wrap these with the offending name, so
// callers match them with errors.Is.
var (
	ErrDuplicateDatabase      = errors.New("database already exists")
	ErrUnknownDatabase        = errors.New("database does not exist")
	ErrNoActiveDatabase       = errors.New("no database selected")
	ErrDuplicateTable         = errors.New("table already exists")
	ErrUnknownTable           = errors.New("table does not exist")
	ErrDuplicateColumn        = errors.New("duplicate column")
	ErrUnknownColumn          = errors.New("unknown column")
	ErrColumnCountMismatch    = errors.New("column count mismatch")
	ErrIncompatibleAlteration = errors.New("incompatible alteration")
)
