package recipient

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fismapp/pkg/platform/sentinel"
)

// PostgresStore persists the recipient directory in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the recipients table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS recipients (
			recipient_id TEXT PRIMARY KEY,
			first_name   TEXT NOT NULL,
			last_name    TEXT NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("ensure recipients schema: %w", err)
	}
	return nil
}

// Put inserts or replaces a directory entry.
func (s *PostgresStore) Put(ctx context.Context, r *Recipient) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO recipients (recipient_id, first_name, last_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (recipient_id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name`,
		r.RecipientID, r.FirstName, r.LastName)
	if err != nil {
		return fmt.Errorf("put recipient: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetRecipient(ctx context.Context, recipientID string) (*Recipient, error) {
	var r Recipient
	err := s.db.QueryRowContext(ctx, `
		SELECT recipient_id, first_name, last_name
		FROM recipients WHERE recipient_id = $1`, recipientID).
		Scan(&r.RecipientID, &r.FirstName, &r.LastName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get recipient: %w", err)
	}
	return &r, nil
}

func (s *PostgresStore) ListRecipients(ctx context.Context) ([]*Recipient, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT recipient_id, first_name, last_name
		FROM recipients
		ORDER BY last_name ASC, recipient_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list recipients: %w", err)
	}
	defer rows.Close()

	var out []*Recipient
	for rows.Next() {
		var r Recipient
		if err := rows.Scan(&r.RecipientID, &r.FirstName, &r.LastName); err != nil {
			return nil, fmt.Errorf("scan recipient: %w", err)
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}
