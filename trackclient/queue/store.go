package queue

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Store persists queued items so a process restart mid-queue does not lose
// them. Implementations must make Save atomic: a crash during Save leaves
// either the old contents or the new, never a torn file.
type Store interface {
	Load() ([]QueuedItem, error)
	Save(items []QueuedItem) error
}

// FileStore is a JSON-file-backed Store. The file is exclusively owned by
// the queue; nothing else reads or writes it.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store at the given path, creating
// parent directories as needed.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create queue directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Load reads the persisted queue. A missing file is an empty queue, not an
// error.
func (s *FileStore) Load() ([]QueuedItem, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read queue file: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var items []QueuedItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode queue file: %w", err)
	}
	return items, nil
}

// Save writes the queue contents atomically via a temp file and rename.
func (s *FileStore) Save(items []QueuedItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode queue: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write queue file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace queue file: %w", err)
	}
	return nil
}
