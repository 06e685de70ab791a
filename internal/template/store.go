package template

import "context"

// Store resolves template definitions. Implementations return
// sentinel.ErrNotFound (optionally wrapped) for unknown IDs.
type Store interface {
	GetTemplate(ctx context.Context, templateID string) (*CertificateTemplate, error)
	ListTemplates(ctx context.Context) ([]*CertificateTemplate, error)
}
