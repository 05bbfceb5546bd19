package generator

import (
	"strings"

	"github.com/zakazai/ulin-sql/internal/storage"
)

// GenerateSQL renders the whole catalog as a script that rebuilds it when
// executed against an empty catalog. The current database, if any, is
// selected again at the end.
func GenerateSQL(cat *storage.Catalog) (string, error) {
	var sqlStatements []string

	ddlGen := NewDDLGenerator()
	dmlGen := NewDMLGenerator()
	for _, dbName := range cat.DatabaseNames() {
		db, err := cat.Database(dbName)
		if err != nil {
			return "", err
		}
		sqlStatements = append(sqlStatements, ddlGen.GenerateDatabase(dbName))

		for _, tableName := range db.TableNames() {
			table, err := db.Table(tableName)
			if err != nil {
				return "", err
			}
			sqlStatements = append(sqlStatements, ddlGen.GenerateTable(table))

			inserts, err := dmlGen.Generate(table)
			if err != nil {
				return "", err
			}
			if inserts != "" {
				sqlStatements = append(sqlStatements, inserts)
			}
		}
	}

	if current := cat.CurrentName(); current != "" {
		sqlStatements = append(sqlStatements, "USE "+current+";")
	}
	if len(sqlStatements) == 0 {
		return "", nil
	}
	return strings.Join(sqlStatements, "\n\n") + "\n", nil
}
