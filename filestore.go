package credstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type fileStore struct {
	path string
}

// NewFileStore returns a Store backed by a single JSON file at path. The file
// is human-inspectable and rewritten wholesale on every Save.
func NewFileStore(path string) Store {
	return &fileStore{path: path}
}

func (s *fileStore) Load() ([]UserRecord, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []UserRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	var records []UserRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		// A file that exists but does not parse is never coerced to an
		// empty collection; that would silently forget every user.
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptStore, s.path, err)
	}
	if records == nil {
		records = []UserRecord{}
	}
	return records, nil
}

// Save writes the collection to a temp file in the same directory and renames
// it into place, so a reader never observes a partial write and a failed save
// leaves the previous file untouched.
func (s *fileStore) Save(records []UserRecord) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding users: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".users-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	return nil
}
