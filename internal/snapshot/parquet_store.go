package snapshot

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"
	"github.com/zakazai/ulin-sql/internal/types"
)

// Record kinds, written in this nesting order: one meta record, then each
// database followed by its tables, each table followed by its rows
const (
	recordMeta     = "meta"
	recordDatabase = "database"
	recordTable    = "table"
	recordRow      = "row"
)

// ParquetRecord is one line of a parquet snapshot. Payload holds JSON whose
// shape depends on Kind.
type ParquetRecord struct {
	Kind     string `parquet:"name=kind, type=BYTE_ARRAY, convertedtype=UTF8"`
	Database string `parquet:"name=database, type=BYTE_ARRAY, convertedtype=UTF8"`
	Table    string `parquet:"name=table_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	Payload  string `parquet:"name=payload, type=BYTE_ARRAY, convertedtype=UTF8"`
}

type parquetMeta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Current   string    `json:"current,omitempty"`
}

// ParquetStore keeps an image as a flat, snappy compressed parquet file
type ParquetStore struct {
	filePath string
}

// NewParquetStore creates a parquet store writing to filePath
func NewParquetStore(filePath string) *ParquetStore {
	return &ParquetStore{filePath: filePath}
}

func (s *ParquetStore) Save(img *Image) error {
	records, err := toRecords(img)
	if err != nil {
		return err
	}
	return replaceFile(s.filePath, func(tmpPath string) error {
		return writeRecords(tmpPath, records)
	})
}

func writeRecords(path string, records []ParquetRecord) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	defer fw.Close()

	pw, err := writer.NewParquetWriter(fw, new(ParquetRecord), 4)
	if err != nil {
		return err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for i := range records {
		if err := pw.Write(records[i]); err != nil {
			return err
		}
	}
	return pw.WriteStop()
}

func (s *ParquetStore) Load() (*Image, error) {
	fr, err := local.NewLocalFileReader(s.filePath)
	if err != nil {
		return nil, err
	}
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(ParquetRecord), 4)
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet reader: %w", err)
	}
	defer pr.ReadStop()

	records := make([]ParquetRecord, int(pr.GetNumRows()))
	if err := pr.Read(&records); err != nil {
		return nil, fmt.Errorf("failed to read parquet records: %w", err)
	}
	return fromRecords(records)
}

func toRecords(img *Image) ([]ParquetRecord, error) {
	meta, err := json.Marshal(parquetMeta{ID: img.ID, CreatedAt: img.CreatedAt, Current: img.Current})
	if err != nil {
		return nil, err
	}
	records := []ParquetRecord{{Kind: recordMeta, Payload: string(meta)}}

	for _, db := range img.Databases {
		records = append(records, ParquetRecord{Kind: recordDatabase, Database: db.Name})
		for _, t := range db.Tables {
			cols, err := json.Marshal(t.Columns)
			if err != nil {
				return nil, err
			}
			records = append(records, ParquetRecord{Kind: recordTable, Database: db.Name, Table: t.Name, Payload: string(cols)})

			for _, row := range t.Rows {
				data, err := types.MarshalValues(row)
				if err != nil {
					return nil, fmt.Errorf("table %s: %w", t.Name, err)
				}
				records = append(records, ParquetRecord{Kind: recordRow, Database: db.Name, Table: t.Name, Payload: string(data)})
			}
		}
	}
	return records, nil
}

func fromRecords(records []ParquetRecord) (*Image, error) {
	img := &Image{}
	var db *DatabaseImage
	var table *TableImage

	for i, rec := range records {
		switch rec.Kind {
		case recordMeta:
			var meta parquetMeta
			if err := json.Unmarshal([]byte(rec.Payload), &meta); err != nil {
				return nil, fmt.Errorf("record %d: invalid metadata: %w", i, err)
			}
			img.ID, img.CreatedAt, img.Current = meta.ID, meta.CreatedAt, meta.Current

		case recordDatabase:
			img.Databases = append(img.Databases, DatabaseImage{Name: rec.Database, Tables: []TableImage{}})
			db, table = &img.Databases[len(img.Databases)-1], nil

		case recordTable:
			if db == nil || db.Name != rec.Database {
				return nil, fmt.Errorf("record %d: table %s outside its database %s", i, rec.Table, rec.Database)
			}
			var cols []types.Column
			if err := json.Unmarshal([]byte(rec.Payload), &cols); err != nil {
				return nil, fmt.Errorf("record %d: invalid columns: %w", i, err)
			}
			db.Tables = append(db.Tables, TableImage{Name: rec.Table, Columns: cols})
			table = &db.Tables[len(db.Tables)-1]

		case recordRow:
			if table == nil || db.Name != rec.Database || table.Name != rec.Table {
				return nil, fmt.Errorf("record %d: row outside its table %s.%s", i, rec.Database, rec.Table)
			}
			values, err := types.UnmarshalValues([]byte(rec.Payload))
			if err != nil {
				return nil, fmt.Errorf("record %d: %w", i, err)
			}
			table.Rows = append(table.Rows, values)

		default:
			return nil, fmt.Errorf("record %d: unknown kind %q", i, rec.Kind)
		}
	}
	return img, nil
}
