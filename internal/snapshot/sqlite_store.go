package snapshot

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	_ "modernc.org/sqlite"

	"github.com/zakazai/ulin-sql/internal/types"
)

const (
	createMetadataTable = `
		CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`

	createDatabasesTable = `
		CREATE TABLE IF NOT EXISTS databases (
			name TEXT PRIMARY KEY
		);
	`

	createTableSchemasTable = `
		CREATE TABLE IF NOT EXISTS table_schemas (
			database_name TEXT NOT NULL,
			table_name TEXT NOT NULL,
			columns_json TEXT NOT NULL,
			PRIMARY KEY (database_name, table_name)
		);
	`

	createTableDataTable = `
		CREATE TABLE IF NOT EXISTS table_data (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			database_name TEXT NOT NULL,
			table_name TEXT NOT NULL,
			row_json TEXT NOT NULL
		);
	`

	createTableDataIndex = `
		CREATE INDEX IF NOT EXISTS idx_table_data_table
		ON table_data(database_name, table_name);
	`
)

// SQLiteStore keeps an image in a SQLite database file
type SQLiteStore struct {
	filePath string
}

// NewSQLiteStore creates a SQLite store writing to filePath
func NewSQLiteStore(filePath string) *SQLiteStore {
	return &SQLiteStore{filePath: filePath}
}

func initializeSchema(db *sql.DB) error {
	schemas := []string{
		createMetadataTable,
		createDatabasesTable,
		createTableSchemasTable,
		createTableDataTable,
		createTableDataIndex,
	}

	for _, schema := range schemas {
		if _, err := db.Exec(schema); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Save(img *Image) error {
	return replaceFile(s.filePath, func(tmpPath string) error {
		return writeDatabase(tmpPath, img)
	})
}

// writeDatabase fills a fresh sqlite file at path with img in one transaction
func writeDatabase(path string, img *Image) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot database: %w", err)
	}
	defer db.Close()

	if err := initializeSchema(db); err != nil {
		return fmt.Errorf("failed to initialize snapshot schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	metadata := map[string]string{
		"id":         img.ID,
		"created_at": img.CreatedAt.Format(time.RFC3339),
		"current":    img.Current,
	}
	for key, value := range metadata {
		if _, err := tx.Exec("INSERT INTO metadata (key, value) VALUES (?, ?)", key, value); err != nil {
			return fmt.Errorf("failed to insert metadata: %w", err)
		}
	}

	rowStmt, err := tx.Prepare("INSERT INTO table_data (database_name, table_name, row_json) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer rowStmt.Close()

	for _, dbImg := range img.Databases {
		if _, err := tx.Exec("INSERT INTO databases (name) VALUES (?)", dbImg.Name); err != nil {
			return fmt.Errorf("failed to insert database %s: %w", dbImg.Name, err)
		}
		for _, t := range dbImg.Tables {
			cols, err := json.Marshal(t.Columns)
			if err != nil {
				return fmt.Errorf("failed to marshal schema: %w", err)
			}
			_, err = tx.Exec(
				"INSERT INTO table_schemas (database_name, table_name, columns_json) VALUES (?, ?, ?)",
				dbImg.Name, t.Name, string(cols),
			)
			if err != nil {
				return fmt.Errorf("failed to insert schema of %s: %w", t.Name, err)
			}

			for _, row := range t.Rows {
				data, err := types.MarshalValues(row)
				if err != nil {
					return fmt.Errorf("failed to marshal row of %s: %w", t.Name, err)
				}
				if _, err := rowStmt.Exec(dbImg.Name, t.Name, string(data)); err != nil {
					return fmt.Errorf("failed to insert row of %s: %w", t.Name, err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Load() (*Image, error) {
	if _, err := os.Stat(s.filePath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", s.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}
	defer db.Close()

	img := &Image{}
	if err := loadMetadata(db, img); err != nil {
		return nil, err
	}

	names, err := queryStrings(db, "SELECT name FROM databases ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query databases: %w", err)
	}
	for _, name := range names {
		dbImg := DatabaseImage{Name: name, Tables: []TableImage{}}
		if err := loadTables(db, &dbImg); err != nil {
			return nil, err
		}
		img.Databases = append(img.Databases, dbImg)
	}
	return img, nil
}

func loadMetadata(db *sql.DB, img *Image) error {
	rows, err := db.Query("SELECT key, value FROM metadata")
	if err != nil {
		return fmt.Errorf("failed to query metadata: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return fmt.Errorf("failed to scan metadata: %w", err)
		}
		switch key {
		case "id":
			img.ID = value
		case "current":
			img.Current = value
		case "created_at":
			created, err := time.Parse(time.RFC3339, value)
			if err != nil {
				return fmt.Errorf("invalid created_at: %w", err)
			}
			img.CreatedAt = created.UTC()
		}
	}
	return rows.Err()
}

func loadTables(db *sql.DB, dbImg *DatabaseImage) error {
	rows, err := db.Query(
		"SELECT table_name, columns_json FROM table_schemas WHERE database_name = ? ORDER BY table_name",
		dbImg.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to query table schemas: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name, colsJSON string
		if err := rows.Scan(&name, &colsJSON); err != nil {
			return fmt.Errorf("failed to scan table schema: %w", err)
		}
		t := TableImage{Name: name}
		if err := json.Unmarshal([]byte(colsJSON), &t.Columns); err != nil {
			return fmt.Errorf("failed to unmarshal schema of %s: %w", name, err)
		}
		dbImg.Tables = append(dbImg.Tables, t)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range dbImg.Tables {
		if err := loadRows(db, dbImg.Name, &dbImg.Tables[i]); err != nil {
			return err
		}
	}
	return nil
}

func loadRows(db *sql.DB, dbName string, t *TableImage) error {
	rows, err := db.Query(
		"SELECT row_json FROM table_data WHERE database_name = ? AND table_name = ? ORDER BY id",
		dbName, t.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to query data of %s: %w", t.Name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var rowJSON string
		if err := rows.Scan(&rowJSON); err != nil {
			return fmt.Errorf("failed to scan row: %w", err)
		}
		values, err := types.UnmarshalValues([]byte(rowJSON))
		if err != nil {
			return fmt.Errorf("failed to unmarshal row of %s: %w", t.Name, err)
		}
		t.Rows = append(t.Rows, values)
	}
	return rows.Err()
}

func queryStrings(db *sql.DB, query string) ([]string, error) {
	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
