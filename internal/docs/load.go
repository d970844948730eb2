package docs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Load reads an index snapshot from disk. The returned index is served
// read-only for the rest of the process lifetime.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read docs snapshot: %w", err)
	}

	var ix Index
	if err := json.Unmarshal(data, &ix); err != nil {
		return nil, fmt.Errorf("failed to parse docs snapshot: %w", err)
	}

	if ix.APITopics == nil {
		ix.APITopics = map[string]APITopic{}
	}
	if ix.ErrorCodes == nil {
		ix.ErrorCodes = map[string]ErrorCode{}
	}
	if ix.CodePatterns == nil {
		ix.CodePatterns = map[string]CodePattern{}
	}

	return &ix, nil
}

// Write serializes the index to disk. Used only by the offline generator;
// the serving process never writes.
func (ix *Index) Write(path string) error {
	if ix.GeneratedAt.IsZero() {
		ix.GeneratedAt = time.Now().UTC()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	data, err := json.MarshalIndent(ix, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode docs snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write docs snapshot: %w", err)
	}

	return nil
}
