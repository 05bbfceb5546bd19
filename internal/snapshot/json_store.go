package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
)

// JSONStore keeps an image as one indented JSON document
type JSONStore struct {
	filePath string
}

// NewJSONStore creates a JSON store writing to filePath
func NewJSONStore(filePath string) *JSONStore {
	return &JSONStore{filePath: filePath}
}

func (s *JSONStore) Save(img *Image) error {
	data, err := json.MarshalIndent(img, "", "  ")
	if err != nil {
		return err
	}
	return replaceFile(s.filePath, func(tmpPath string) error {
		return os.WriteFile(tmpPath, data, 0644)
	})
}

func (s *JSONStore) Load() (*Image, error) {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return nil, err
	}

	var img Image
	if err := json.Unmarshal(data, &img); err != nil {
		return nil, fmt.Errorf("invalid snapshot: %w", err)
	}
	return &img, nil
}
