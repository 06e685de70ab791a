package recipient

import (
	"context"
	"sort"
	"sync"

	"fismapp/pkg/platform/sentinel"
)

// MemoryStore keeps the directory in memory for development and tests.
type MemoryStore struct {
	mu         sync.RWMutex
	recipients map[string]*Recipient
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{recipients: make(map[string]*Recipient)}
}

// Put inserts or replaces a directory entry.
func (s *MemoryStore) Put(r *Recipient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *r
	s.recipients[r.RecipientID] = &cp
}

func (s *MemoryStore) GetRecipient(_ context.Context, recipientID string) (*Recipient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.recipients[recipientID]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *MemoryStore) ListRecipients(_ context.Context) ([]*Recipient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Recipient, 0, len(s.recipients))
	for _, r := range s.recipients {
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].RecipientID < out[j].RecipientID
	})
	return out, nil
}
