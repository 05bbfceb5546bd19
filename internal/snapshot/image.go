package snapshot

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zakazai/ulin-sql/internal/storage"
	"github.com/zakazai/ulin-sql/internal/types"
)

// Image is a point-in-time copy of a whole catalog in a form every store can
// persist. Databases and tables are kept in name order.
type Image struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Current   string          `json:"current,omitempty"`
	Databases []DatabaseImage `json:"databases"`
}

// DatabaseImage is one database of an Image
type DatabaseImage struct {
	Name   string       `json:"name"`
	Tables []TableImage `json:"tables"`
}

// TableImage is one table of an Image, schema and rows
type TableImage struct {
	Name    string
	Columns []types.Column
	Rows    []storage.Row
}

type tableJSON struct {
	Name    string            `json:"name"`
	Columns []types.Column    `json:"columns"`
	Rows    []json.RawMessage `json:"rows"`
}

// MarshalJSON encodes rows as arrays of kind-tagged values
func (t TableImage) MarshalJSON() ([]byte, error) {
	out := tableJSON{Name: t.Name, Columns: t.Columns, Rows: make([]json.RawMessage, len(t.Rows))}
	for i, row := range t.Rows {
		data, err := types.MarshalValues(row)
		if err != nil {
			return nil, fmt.Errorf("table %s row %d: %w", t.Name, i, err)
		}
		out.Rows[i] = data
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes what MarshalJSON produced
func (t *TableImage) UnmarshalJSON(data []byte) error {
	var in tableJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	t.Name = in.Name
	t.Columns = in.Columns
	t.Rows = make([]storage.Row, len(in.Rows))
	for i, raw := range in.Rows {
		values, err := types.UnmarshalValues(raw)
		if err != nil {
			return fmt.Errorf("table %s row %d: %w", in.Name, i, err)
		}
		t.Rows[i] = values
	}
	return nil
}

// Capture copies the catalog into a new Image with a fresh id
func Capture(cat *storage.Catalog) (*Image, error) {
	img := &Image{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		Current:   cat.CurrentName(),
	}

	for _, dbName := range cat.DatabaseNames() {
		db, err := cat.Database(dbName)
		if err != nil {
			return nil, err
		}
		dbImg := DatabaseImage{Name: dbName, Tables: []TableImage{}}
		for _, tableName := range db.TableNames() {
			t, err := db.Table(tableName)
			if err != nil {
				return nil, err
			}
			dbImg.Tables = append(dbImg.Tables, TableImage{
				Name:    tableName,
				Columns: t.Columns(),
				Rows:    t.Rows(),
			})
		}
		img.Databases = append(img.Databases, dbImg)
	}
	return img, nil
}

// Restore builds a new catalog from the image. Every row is validated against
// its table schema, so a tampered image is rejected rather than loaded.
func (img *Image) Restore() (*storage.Catalog, error) {
	cat := storage.NewCatalog()
	for _, dbImg := range img.Databases {
		db := storage.NewDatabase(dbImg.Name)
		for _, tImg := range dbImg.Tables {
			t, err := storage.RestoreTable(tImg.Name, tImg.Columns, tImg.Rows)
			if err != nil {
				return nil, fmt.Errorf("failed to restore table %s.%s: %w", dbImg.Name, tImg.Name, err)
			}
			if err := db.AttachTable(t); err != nil {
				return nil, err
			}
		}
		if err := cat.AttachDatabase(db); err != nil {
			return nil, err
		}
	}

	if img.Current != "" {
		if err := cat.UseDatabase(img.Current); err != nil {
			return nil, fmt.Errorf("failed to select database: %w", err)
		}
	}
	return cat, nil
}
