package storage

import (
	"fmt"
	"sort"

	"github.com/zakazai/ulin-sql/internal/types"
)

// Database is a named collection of tables
type Database struct {
	name   string
	tables map[string]*Table
}

// NewDatabase creates an empty database
func NewDatabase(name string) *Database {
	return &Database{name: name, tables: make(map[string]*Table)}
}

// Name returns the database name
func (d *Database) Name() string {
	return d.name
}

// Table looks up a table by name
func (d *Database) Table(name string) (*Table, error) {
	t, ok := d.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s in database %s", ErrUnknownTable, name, d.name)
	}
	return t, nil
}

// TableNames returns the table names in sorted order
func (d *Database) TableNames() []string {
	names := make([]string, 0, len(d.tables))
	for name := range d.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AttachTable adds an already built table, such as one restored from a
// snapshot
func (d *Database) AttachTable(t *Table) error {
	if _, ok := d.tables[t.name]; ok {
		return fmt.Errorf("%w: %s in database %s", ErrDuplicateTable, t.name, d.name)
	}
	d.tables[t.name] = t
	return nil
}

// Catalog holds every database and the current database pointer. It is not
// safe for concurrent use.
type Catalog struct {
	databases map[string]*Database
	current   *Database
	logger    *types.Logger
}

// NewCatalog creates an empty catalog with no current database
func NewCatalog() *Catalog {
	return &Catalog{
		databases: make(map[string]*Database),
		logger:    types.GlobalLogger.With("catalog"),
	}
}

// SetLogger replaces the logger used for schema change messages
func (c *Catalog) SetLogger(logger *types.Logger) {
	if logger == nil {
		logger = types.NopLogger()
	}
	c.logger = logger.With("catalog")
}

// CreateDatabase registers a new empty database
func (c *Catalog) CreateDatabase(name string) error {
	if _, ok := c.databases[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateDatabase, name)
	}
	c.databases[name] = NewDatabase(name)
	return nil
}

// AttachDatabase registers an already built database
func (c *Catalog) AttachDatabase(db *Database) error {
	if _, ok := c.databases[db.name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateDatabase, db.name)
	}
	c.databases[db.name] = db
	return nil
}

// DropDatabase removes a database with all of its tables. Dropping the current
// database leaves no database selected.
func (c *Catalog) DropDatabase(name string) error {
	db, ok := c.databases[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownDatabase, name)
	}
	delete(c.databases, name)
	if c.current == db {
		c.current = nil
		c.logger.Debug("Dropped current database %s, no database selected", name)
	}
	return nil
}

// UseDatabase makes the named database current
func (c *Catalog) UseDatabase(name string) error {
	db, ok := c.databases[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownDatabase, name)
	}
	c.current = db
	return nil
}

// Current returns the database table operations resolve against
func (c *Catalog) Current() (*Database, error) {
	if c.current == nil {
		return nil, ErrNoActiveDatabase
	}
	return c.current, nil
}

// CurrentName returns the current database name, or "" if none is selected
func (c *Catalog) CurrentName() string {
	if c.current == nil {
		return ""
	}
	return c.current.name
}

// Database looks up a database by name
func (c *Catalog) Database(name string) (*Database, error) {
	db, ok := c.databases[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDatabase, name)
	}
	return db, nil
}

// DatabaseNames returns the database names in sorted order
func (c *Catalog) DatabaseNames() []string {
	names := make([]string, 0, len(c.databases))
	for name := range c.databases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateTable adds an empty table to the current database
func (c *Catalog) CreateTable(name string, columns []types.Column) error {
	db, err := c.Current()
	if err != nil {
		return err
	}
	if _, ok := db.tables[name]; ok {
		return fmt.Errorf("%w: %s in database %s", ErrDuplicateTable, name, db.name)
	}
	t, err := newTable(name, columns)
	if err != nil {
		return err
	}
	db.tables[name] = t
	return nil
}

// DropTable removes a table from the current database
func (c *Catalog) DropTable(name string) error {
	db, err := c.Current()
	if err != nil {
		return err
	}
	if _, err := db.Table(name); err != nil {
		return err
	}
	delete(db.tables, name)
	return nil
}

// TruncateTable removes every row of a table and returns how many there were
func (c *Catalog) TruncateTable(name string) (int, error) {
	t, err := c.Table(name)
	if err != nil {
		return 0, err
	}
	return t.truncate(), nil
}

// Table looks up a table in the current database
func (c *Catalog) Table(name string) (*Table, error) {
	db, err := c.Current()
	if err != nil {
		return nil, err
	}
	return db.Table(name)
}

// AlterAddColumn appends a column to a table, filling existing rows with NULL
func (c *Catalog) AlterAddColumn(table string, col types.Column) error {
	t, err := c.Table(table)
	if err != nil {
		return err
	}
	if err := t.addColumn(col); err != nil {
		return err
	}
	c.logger.Debug("Added column %s to %s, backfilled %d rows", col, table, t.Len())
	return nil
}

// AlterDropColumn removes a column and its values from a table
func (c *Catalog) AlterDropColumn(table, column string) error {
	t, err := c.Table(table)
	if err != nil {
		return err
	}
	if err := t.dropColumn(column); err != nil {
		return err
	}
	c.logger.Debug("Dropped column %s from %s, %d columns remain", column, table, len(t.columns))
	return nil
}

// AlterModifyColumn changes a column's type. Every existing value must satisfy
// the new type, otherwise nothing changes.
func (c *Catalog) AlterModifyColumn(table, column string, dt types.DataType) error {
	t, err := c.Table(table)
	if err != nil {
		return err
	}
	if err := t.modifyColumn(column, dt); err != nil {
		return err
	}
	c.logger.Debug("Changed column %s of %s to %s, converted %d rows", column, table, dt, t.Len())
	return nil
}
