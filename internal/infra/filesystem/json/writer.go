package json

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Writer handles file writing operations
type Writer struct{}

// NewWriter creates a new filesystem writer
func NewWriter() *Writer {
	return &Writer{}
}

// WriteJSON writes data as indented JSON to path, creating parent directories.
func (w *Writer) WriteJSON(path string, data any) error {
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, append(content, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}
