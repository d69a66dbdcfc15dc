package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rossonews/rossonews/pkg/domain"
)

// Writer persists the aggregation result as the JSON document consumed by
// the frontend. The replace is atomic: a temp file in the target directory
// renamed into place, so consumers never see a partial document.
type Writer struct {
	path string
}

// NewWriter creates a writer targeting the given path
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Path returns the target document path
func (w *Writer) Path() string { return w.path }

// Write serializes the result and atomically replaces the document
func (w *Writer) Write(result domain.AggregationResult) error {
	if result.Articles == nil {
		result.Articles = []domain.Article{} // document always has an array, never null
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".news-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), w.path); err != nil {
		return fmt.Errorf("replace %s: %w", w.path, err)
	}
	return nil
}
