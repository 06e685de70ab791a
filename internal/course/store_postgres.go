package course

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore persists course history in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the course history table when missing. The unique
// constraint mirrors the upstream data feed: one row per recipient, NRC, and
// period.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS course_history (
			id            BIGSERIAL PRIMARY KEY,
			recipient_id  TEXT NOT NULL,
			period        TEXT NOT NULL,
			subject       TEXT NOT NULL,
			subject_key   TEXT NOT NULL DEFAULT '',
			nrc           TEXT NOT NULL,
			start_date    DATE NOT NULL,
			end_date      DATE NOT NULL,
			contact_hours INTEGER NOT NULL DEFAULT 0,
			cross_listing TEXT NOT NULL DEFAULT '',
			UNIQUE (recipient_id, nrc, period)
		);
		CREATE INDEX IF NOT EXISTS course_history_recipient_idx
			ON course_history (recipient_id, period)`)
	if err != nil {
		return fmt.Errorf("ensure course history schema: %w", err)
	}
	return nil
}

// Add upserts course records keyed by (recipient, NRC, period).
func (s *PostgresStore) Add(ctx context.Context, records ...CourseRecord) error {
	for _, rec := range records {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO course_history (
				recipient_id, period, subject, subject_key, nrc,
				start_date, end_date, contact_hours, cross_listing
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
			ON CONFLICT (recipient_id, nrc, period) DO UPDATE SET
				subject = EXCLUDED.subject,
				subject_key = EXCLUDED.subject_key,
				start_date = EXCLUDED.start_date,
				end_date = EXCLUDED.end_date,
				contact_hours = EXCLUDED.contact_hours,
				cross_listing = EXCLUDED.cross_listing`,
			rec.RecipientID, rec.Period, rec.Subject, rec.SubjectKey, rec.NRC,
			rec.StartDate, rec.EndDate, rec.ContactHours, rec.CrossListing)
		if err != nil {
			return fmt.Errorf("add course record: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) ListByRecipient(ctx context.Context, recipientID string) ([]CourseRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT recipient_id, period, subject, subject_key, nrc,
		       start_date, end_date, contact_hours, cross_listing
		FROM course_history
		WHERE recipient_id = $1
		ORDER BY period ASC, subject ASC`, recipientID)
	if err != nil {
		return nil, fmt.Errorf("list course history: %w", err)
	}
	defer rows.Close()

	var out []CourseRecord
	for rows.Next() {
		var rec CourseRecord
		if err := rows.Scan(
			&rec.RecipientID, &rec.Period, &rec.Subject, &rec.SubjectKey, &rec.NRC,
			&rec.StartDate, &rec.EndDate, &rec.ContactHours, &rec.CrossListing); err != nil {
			return nil, fmt.Errorf("scan course record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
