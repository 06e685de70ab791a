package certificate

import "context"

// Ledger is the append-only system of record for issued certificates.
//
// Append takes a record without CertificateID and VerificationCode and
// assigns both; implementations regenerate the code on collision (bounded
// retries) and return sentinel.ErrUnavailable, possibly wrapped, when the
// backing store cannot be written. FindByCode returns sentinel.ErrNotFound
// for unknown codes. ListByRecipient orders ascending by IssuedAt.
type Ledger interface {
	Append(ctx context.Context, record *IssuedCertificate) (*IssuedCertificate, error)
	FindByCode(ctx context.Context, code string) (*IssuedCertificate, error)
	ListByRecipient(ctx context.Context, recipientID string) ([]*IssuedCertificate, error)
}

// codeRetries bounds collision regeneration in Append. With 128-bit codes a
// single collision is already astronomically unlikely; exhausting the bound
// signals a broken random source or store, not bad luck.
const codeRetries = 5
