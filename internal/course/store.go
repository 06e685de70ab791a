package course

import "context"

// Store provides read access to course history. The renderer is the only
// consumer; issuance never depends on course data.
type Store interface {
	ListByRecipient(ctx context.Context, recipientID string) ([]CourseRecord, error)
}
