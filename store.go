package credstore

import "sync"

// Store is the persistence boundary. Load returns the full collection in
// insertion order; a backend with no persisted state yet returns an empty
// collection, not an error. Save replaces the persisted collection wholesale
// and must be atomic: a crash mid-save leaves the previous state intact.
type Store interface {
	Load() ([]UserRecord, error)
	Save(records []UserRecord) error
}

type memStore struct {
	mu      sync.RWMutex
	records []UserRecord
}

// NewMemStore returns a Store holding records only in process memory.
func NewMemStore() Store {
	return &memStore{}
}

func (s *memStore) Load() ([]UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]UserRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *memStore) Save(records []UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make([]UserRecord, len(records))
	copy(s.records, records)
	return nil
}
