// Package recipient is the directory of people eligible to receive
// certificates. The ledger snapshots display fields at issuance time, so
// later directory edits never alter historical certificates.
package recipient

import "strings"

// Recipient is a directory entry, typically a professor.
type Recipient struct {
	RecipientID string `json:"recipient_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
}

// DisplayName is the form printed on certificates.
func (r *Recipient) DisplayName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}
