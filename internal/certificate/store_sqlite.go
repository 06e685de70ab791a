package certificate

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"

	"fismapp/pkg/platform/sentinel"
)

// SQLiteLedger persists issued certificates in an embedded SQLite database.
// Suits single-node deployments; the PostgreSQL ledger backs everything
// else. Included periods are stored as a JSON array since SQLite has no
// native array type.
type SQLiteLedger struct {
	db *sql.DB
}

// OpenSQLiteLedger opens (creating if needed) the SQLite database at path
// and ensures the schema.
func OpenSQLiteLedger(ctx context.Context, path string) (*SQLiteLedger, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite allows one writer at a time; a single connection avoids
	// SQLITE_BUSY under concurrent appends.
	db.SetMaxOpenConns(1)

	l := &SQLiteLedger{db: db}
	if err := l.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

func (l *SQLiteLedger) Close() error { return l.db.Close() }

func (l *SQLiteLedger) ensureSchema(ctx context.Context) error {
	_, err := l.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS issued_certificates (
			id                   INTEGER PRIMARY KEY AUTOINCREMENT,
			verification_code    TEXT NOT NULL UNIQUE,
			template_id          TEXT NOT NULL,
			template_name        TEXT NOT NULL,
			recipient_id         TEXT NOT NULL,
			recipient_first_name TEXT NOT NULL,
			recipient_last_name  TEXT NOT NULL,
			issued_at            TEXT NOT NULL,
			addressee_text       TEXT NOT NULL DEFAULT '',
			included_periods     TEXT NOT NULL DEFAULT '[]',
			current_period       TEXT NOT NULL DEFAULT '',
			embed_scannable_code INTEGER NOT NULL DEFAULT 1
		);
		CREATE INDEX IF NOT EXISTS issued_certificates_recipient_idx
			ON issued_certificates (recipient_id, issued_at)`)
	if err != nil {
		return fmt.Errorf("ensure sqlite ledger schema: %w", err)
	}
	return nil
}

func (l *SQLiteLedger) Append(ctx context.Context, record *IssuedCertificate) (*IssuedCertificate, error) {
	periods, err := json.Marshal(record.IncludedPeriods)
	if err != nil {
		return nil, fmt.Errorf("marshal included periods: %w", err)
	}

	for attempt := 0; attempt < codeRetries; attempt++ {
		code, err := GenerateCode()
		if err != nil {
			return nil, err
		}

		res, err := l.db.ExecContext(ctx, `
			INSERT INTO issued_certificates (
				verification_code, template_id, template_name,
				recipient_id, recipient_first_name, recipient_last_name,
				issued_at, addressee_text, included_periods,
				current_period, embed_scannable_code
			) VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
			code, record.TemplateID, record.TemplateName,
			record.RecipientSnapshot.RecipientID,
			record.RecipientSnapshot.FirstName,
			record.RecipientSnapshot.LastName,
			record.IssuedAt.UTC().Format(time.RFC3339Nano),
			record.AddresseeText, string(periods),
			record.CurrentPeriod, record.EmbedScannableCode)
		if err != nil {
			var sqliteErr sqlite3.Error
			if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
				continue
			}
			return nil, fmt.Errorf("%w: append certificate: %v", sentinel.ErrUnavailable, err)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("%w: certificate id: %v", sentinel.ErrUnavailable, err)
		}

		stored := *record
		stored.CertificateID = id
		stored.VerificationCode = code
		return &stored, nil
	}
	return nil, sentinel.ErrUnavailable
}

func (l *SQLiteLedger) FindByCode(ctx context.Context, code string) (*IssuedCertificate, error) {
	row := l.db.QueryRowContext(ctx, `
		SELECT id, verification_code, template_id, template_name,
		       recipient_id, recipient_first_name, recipient_last_name,
		       issued_at, addressee_text, included_periods,
		       current_period, embed_scannable_code
		FROM issued_certificates
		WHERE verification_code = ?`, code)
	rec, err := scanSQLiteCertificate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("%w: find certificate: %v", sentinel.ErrUnavailable, err)
	}
	return rec, nil
}

func (l *SQLiteLedger) ListByRecipient(ctx context.Context, recipientID string) ([]*IssuedCertificate, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, verification_code, template_id, template_name,
		       recipient_id, recipient_first_name, recipient_last_name,
		       issued_at, addressee_text, included_periods,
		       current_period, embed_scannable_code
		FROM issued_certificates
		WHERE recipient_id = ?
		ORDER BY issued_at ASC, id ASC`, recipientID)
	if err != nil {
		return nil, fmt.Errorf("%w: list certificates: %v", sentinel.ErrUnavailable, err)
	}
	defer rows.Close()

	var out []*IssuedCertificate
	for rows.Next() {
		rec, err := scanSQLiteCertificate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan certificate: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanSQLiteCertificate(row rowScanner) (*IssuedCertificate, error) {
	var rec IssuedCertificate
	var issuedAt, periods string
	err := row.Scan(
		&rec.CertificateID, &rec.VerificationCode, &rec.TemplateID, &rec.TemplateName,
		&rec.RecipientSnapshot.RecipientID, &rec.RecipientSnapshot.FirstName,
		&rec.RecipientSnapshot.LastName, &issuedAt, &rec.AddresseeText,
		&periods, &rec.CurrentPeriod, &rec.EmbedScannableCode)
	if err != nil {
		return nil, err
	}
	rec.IssuedAt, err = time.Parse(time.RFC3339Nano, issuedAt)
	if err != nil {
		return nil, fmt.Errorf("parse issued_at: %w", err)
	}
	if err := json.Unmarshal([]byte(periods), &rec.IncludedPeriods); err != nil {
		return nil, fmt.Errorf("parse included periods: %w", err)
	}
	return &rec, nil
}
