package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zakazai/ulin-sql/internal/storage"
)

// Format names a snapshot file format
type Format string

const (
	FormatJSON    Format = "json"
	FormatParquet Format = "parquet"
	FormatSQLite  Format = "sqlite"
)

// Store persists catalog images to a single file
type Store interface {
	Save(img *Image) error
	Load() (*Image, error)
}

// Config selects a store
type Config struct {
	Format Format
	Path   string
}

// ParseFormat maps a configuration string to a Format
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatParquet, FormatSQLite:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported snapshot format: %s", s)
	}
}

// FormatFromPath infers the format from a file extension
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".parquet":
		return FormatParquet, true
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, true
	default:
		return "", false
	}
}

// NewStore creates a store based on the provided configuration. An empty
// format is inferred from the path.
func NewStore(config Config) (Store, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("file path is required for snapshots")
	}
	format := config.Format
	if format == "" {
		inferred, ok := FormatFromPath(config.Path)
		if !ok {
			inferred = FormatJSON
		}
		format = inferred
	}

	switch format {
	case FormatJSON:
		return NewJSONStore(config.Path), nil
	case FormatParquet:
		return NewParquetStore(config.Path), nil
	case FormatSQLite:
		return NewSQLiteStore(config.Path), nil
	default:
		return nil, fmt.Errorf("unsupported snapshot format: %s", format)
	}
}

// Save captures cat and writes it with the configured store
func Save(cat *storage.Catalog, config Config) (*Image, error) {
	store, err := NewStore(config)
	if err != nil {
		return nil, err
	}
	img, err := Capture(cat)
	if err != nil {
		return nil, fmt.Errorf("failed to capture catalog: %w", err)
	}
	if err := store.Save(img); err != nil {
		return nil, fmt.Errorf("failed to save snapshot %s: %w", config.Path, err)
	}
	return img, nil
}

// Load reads a snapshot with the configured store and rebuilds its catalog
func Load(config Config) (*storage.Catalog, error) {
	store, err := NewStore(config)
	if err != nil {
		return nil, err
	}
	img, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %s: %w", config.Path, err)
	}
	return img.Restore()
}

// replaceFile runs write against a temporary file next to path and renames it
// over path once write succeeds, so a failed save keeps the previous snapshot
func replaceFile(path string, write func(tmpPath string) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary snapshot: %w", err)
	}
	tmpPath := tmp.Name()
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := write(tmpPath); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}
