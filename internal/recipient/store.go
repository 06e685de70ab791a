package recipient

import "context"

// Store resolves recipient identifiers. Implementations return
// sentinel.ErrNotFound (optionally wrapped) for unknown IDs.
type Store interface {
	GetRecipient(ctx context.Context, recipientID string) (*Recipient, error)
	ListRecipients(ctx context.Context) ([]*Recipient, error)
}
