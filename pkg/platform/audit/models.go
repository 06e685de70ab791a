// Package audit captures key certificate lifecycle actions for compliance
// review. Events are transport-agnostic so stores and sinks can fan out.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Action identifies what happened.
type Action string

const (
	ActionCertificateIssued   Action = "certificate.issued"
	ActionCertificateVerified Action = "certificate.verified"
)

// Event is emitted from domain logic. The verification code never appears in
// events; only its SHA-256 keeps issuance and verification correlatable
// without turning the audit log into a code oracle.
type Event struct {
	Action    Action    `json:"action"`
	Timestamp time.Time `json:"timestamp"`

	// ActorID is the authenticated user who triggered the action, empty for
	// anonymous verification.
	ActorID string `json:"actor_id,omitempty"`
	// RecipientID is set for issuance events.
	RecipientID   string `json:"recipient_id,omitempty"`
	CertificateID int64  `json:"certificate_id,omitempty"`
	// CodeHash is the SHA-256 hex of the verification code involved.
	CodeHash string `json:"code_hash,omitempty"`
	// Outcome carries the verification result (valid, not_found, malformed)
	// or "issued".
	Outcome   string `json:"outcome,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// HashCode produces the audit-safe form of a verification code.
func HashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
