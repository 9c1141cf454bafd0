// Package json writes the review result to an explicit file path.
package json

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aireview/ai-pr-reviewer/internal/domain"
)

// Writer implements the review.JSONWriter interface.
type Writer struct{}

// NewWriter creates a new JSON writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Write persists the review to path as indented JSON, creating parent
// directories as needed.
func (w *Writer) Write(ctx context.Context, path string, review domain.Review) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create json file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(review); err != nil {
		return fmt.Errorf("failed to encode review to json: %w", err)
	}

	return nil
}
