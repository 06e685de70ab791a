// Package certificate is the core of the service: the append-only ledger of
// issued certificates, the issuance engine that writes to it, and the
// verification service that reads from it.
package certificate

import "time"

// RecipientSnapshot is the copy of recipient display fields taken at
// issuance time. Directory edits after issuance never change it.
type RecipientSnapshot struct {
	RecipientID string `json:"recipient_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
}

// DisplayName is the form printed on certificates and returned by verification.
func (s RecipientSnapshot) DisplayName() string {
	if s.FirstName == "" {
		return s.LastName
	}
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// IssuedCertificate is the ledger's unit of record. Records are immutable
// once appended; there is no update or delete path.
type IssuedCertificate struct {
	// CertificateID is ledger-assigned and never reused.
	CertificateID int64 `json:"certificate_id"`
	// VerificationCode is the sole public lookup key. See code.go for the
	// generation scheme.
	VerificationCode string `json:"verification_code"`

	TemplateID string `json:"template_id"`
	// TemplateName is snapshotted so verification keeps working if the
	// template is later edited or removed.
	TemplateName string `json:"template_name"`

	RecipientSnapshot RecipientSnapshot `json:"recipient"`

	IssuedAt time.Time `json:"issued_at"`

	AddresseeText      string   `json:"addressee_text"`
	IncludedPeriods    []string `json:"included_periods,omitempty"`
	CurrentPeriod      string   `json:"current_period,omitempty"`
	EmbedScannableCode bool     `json:"embed_scannable_code"`
}

// IssueOptions are the recognized per-issuance options. Zero values fall
// back to template and configuration defaults.
type IssueOptions struct {
	// AddresseeText overrides the template's recipient line.
	AddresseeText string `json:"addressee_text,omitempty"`
	// IncludedPeriods restricts the certificate to these periods. Each must
	// be in the period catalog.
	IncludedPeriods []string `json:"included_periods,omitempty"`
	// CurrentPeriod marks one period as currently taught, rendered in its
	// own table. Validated like IncludedPeriods.
	CurrentPeriod string `json:"current_period,omitempty"`
	// EmbedScannableCode controls the QR block in the rendered PDF.
	// Defaults to true when nil.
	EmbedScannableCode *bool `json:"embed_scannable_code,omitempty"`
}

func (o IssueOptions) embedScannableCode() bool {
	if o.EmbedScannableCode == nil {
		return true
	}
	return *o.EmbedScannableCode
}

// ErrorKind classifies issuance failures for bulk reports and clients.
type ErrorKind string

const (
	KindTemplateNotFound   ErrorKind = "TemplateNotFound"
	KindRecipientNotFound  ErrorKind = "RecipientNotFound"
	KindInvalidPeriod      ErrorKind = "InvalidPeriod"
	KindEmptyBatch         ErrorKind = "EmptyBatch"
	KindStorageUnavailable ErrorKind = "StorageUnavailable"
)

// BulkError is one per-recipient failure inside an otherwise successful
// batch.
type BulkError struct {
	RecipientID string    `json:"recipient_id"`
	Kind        ErrorKind `json:"error_kind"`
}

// BulkReport is the outcome of a bulk issuance call. Generated and Errors
// both follow the input order of their recipient IDs.
type BulkReport struct {
	GeneratedCount int                  `json:"generated_count"`
	Generated      []*IssuedCertificate `json:"generated"`
	Errors         []BulkError          `json:"errors"`
}
