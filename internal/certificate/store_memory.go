package certificate

import (
	"context"
	"crypto/sha256"
	"sort"
	"sync"

	"fismapp/pkg/platform/sentinel"
)

// MemoryLedger keeps issued certificates in memory. The code index is keyed
// by SHA-256 of the code, so lookup cost does not depend on how much of a
// probe string matches a real code.
type MemoryLedger struct {
	mu          sync.RWMutex
	nextID      int64
	byCodeHash  map[[sha256.Size]byte]*IssuedCertificate
	byRecipient map[string][]*IssuedCertificate
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		byCodeHash:  make(map[[sha256.Size]byte]*IssuedCertificate),
		byRecipient: make(map[string][]*IssuedCertificate),
	}
}

func (l *MemoryLedger) Append(_ context.Context, record *IssuedCertificate) (*IssuedCertificate, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var code string
	var key [sha256.Size]byte
	for attempt := 0; ; attempt++ {
		if attempt == codeRetries {
			return nil, sentinel.ErrUnavailable
		}
		generated, err := GenerateCode()
		if err != nil {
			return nil, err
		}
		key = sha256.Sum256([]byte(generated))
		if _, taken := l.byCodeHash[key]; !taken {
			code = generated
			break
		}
	}

	l.nextID++
	stored := *record
	stored.CertificateID = l.nextID
	stored.VerificationCode = code
	stored.IncludedPeriods = append([]string(nil), record.IncludedPeriods...)

	l.byCodeHash[key] = &stored
	recipientID := stored.RecipientSnapshot.RecipientID
	l.byRecipient[recipientID] = append(l.byRecipient[recipientID], &stored)

	cp := stored
	return &cp, nil
}

func (l *MemoryLedger) FindByCode(_ context.Context, code string) (*IssuedCertificate, error) {
	key := sha256.Sum256([]byte(code))
	l.mu.RLock()
	defer l.mu.RUnlock()
	if rec, ok := l.byCodeHash[key]; ok {
		cp := *rec
		return &cp, nil
	}
	return nil, sentinel.ErrNotFound
}

func (l *MemoryLedger) ListByRecipient(_ context.Context, recipientID string) ([]*IssuedCertificate, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	records := l.byRecipient[recipientID]
	out := make([]*IssuedCertificate, 0, len(records))
	for _, rec := range records {
		cp := *rec
		out = append(out, &cp)
	}
	// Timestamps from concurrent writers may interleave; CertificateID
	// breaks ties deterministically.
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].IssuedAt.Equal(out[j].IssuedAt) {
			return out[i].IssuedAt.Before(out[j].IssuedAt)
		}
		return out[i].CertificateID < out[j].CertificateID
	})
	return out, nil
}
