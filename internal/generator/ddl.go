package generator

import (
	"fmt"
	"strings"

	"github.com/zakazai/ulin-sql/internal/storage"
)

// DDLGenerator generates DDL statements
type DDLGenerator struct{}

// NewDDLGenerator creates a new DDL generator
func NewDDLGenerator() *DDLGenerator {
	return &DDLGenerator{}
}

// GenerateDatabase creates a database and makes it current, so the tables
// that follow land in it
func (g *DDLGenerator) GenerateDatabase(name string) string {
	return fmt.Sprintf("CREATE DATABASE %s;\nUSE %s;", name, name)
}

// GenerateTable renders CREATE TABLE for the table's current schema
func (g *DDLGenerator) GenerateTable(table *storage.Table) string {
	var columnDefs []string
	for _, col := range table.Columns() {
		columnDefs = append(columnDefs, "  "+col.String())
	}
	return fmt.Sprintf("CREATE TABLE %s (\n%s\n);", table.Name(), strings.Join(columnDefs, ",\n"))
}
