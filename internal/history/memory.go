package history

import (
	"context"
	"sync"
)

// MemoryStore keeps records in process memory. Used in tests and when no
// Redis address is configured.
type MemoryStore struct {
	mu      sync.Mutex
	records []Record
	keep    int
}

func NewMemoryStore(keep int) *MemoryStore {
	return &MemoryStore{keep: keep}
}

func (s *MemoryStore) Record(_ context.Context, r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append([]Record{r}, s.records...)
	if s.keep > 0 && len(s.records) > s.keep {
		s.records = s.records[:s.keep]
	}
	return nil
}

func (s *MemoryStore) Recent(_ context.Context, n int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n <= 0 {
		return nil, nil
	}
	if n > len(s.records) {
		n = len(s.records)
	}
	out := make([]Record, n)
	copy(out, s.records[:n])
	return out, nil
}
