package course

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps course history in memory for development and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]CourseRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]CourseRecord)}
}

// Add appends course records for their recipients.
func (s *MemoryStore) Add(records ...CourseRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range records {
		s.records[rec.RecipientID] = append(s.records[rec.RecipientID], rec)
	}
}

func (s *MemoryStore) ListByRecipient(_ context.Context, recipientID string) ([]CourseRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]CourseRecord{}, s.records[recipientID]...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Period != out[j].Period {
			return out[i].Period < out[j].Period
		}
		return out[i].Subject < out[j].Subject
	})
	return out, nil
}
