package template

import (
	"context"
	"sort"
	"sync"

	"fismapp/pkg/platform/sentinel"
)

// MemoryStore keeps templates in memory. Used in development and tests; the
// PostgreSQL store backs production.
type MemoryStore struct {
	mu        sync.RWMutex
	templates map[string]*CertificateTemplate
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{templates: make(map[string]*CertificateTemplate)}
}

// NewMemoryStoreWithDefaults returns a store seeded with the built-in
// default template.
func NewMemoryStoreWithDefaults() *MemoryStore {
	s := NewMemoryStore()
	s.Put(DefaultTemplate())
	return s
}

// Put inserts or replaces a template definition.
func (s *MemoryStore) Put(t *CertificateTemplate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	s.templates[t.TemplateID] = &cp
}

func (s *MemoryStore) GetTemplate(_ context.Context, templateID string) (*CertificateTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.templates[templateID]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *MemoryStore) ListTemplates(_ context.Context) ([]*CertificateTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*CertificateTemplate, 0, len(s.templates))
	for _, t := range s.templates {
		cp := *t
		out = append(out, &cp)
	}
	// Default template first, then by name, so the portal's picker is stable.
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsDefault != out[j].IsDefault {
			return out[i].IsDefault
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}
