package section

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store reads and writes per-topic HTML artifacts inside a run folder.
// Keys follow the "{id}" / "{id}_refined" convention; each key maps to a
// section_{key}.html file. A single worker owns all writes for one topic,
// so the store needs no locking.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, fmt.Sprintf("section_%s.html", key))
}

// Load returns the artifact for key, or ok=false when none exists.
func (s *Store) Load(key string) (content string, ok bool) {
	data, err := os.ReadFile(s.path(key))
	if err != nil || len(data) == 0 {
		return "", false
	}
	return string(data), true
}

// Save writes the artifact for key.
func (s *Store) Save(key, content string) error {
	if err := os.WriteFile(s.path(key), []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to persist section artifact %q: %w", key, err)
	}
	return nil
}
