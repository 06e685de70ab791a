package certificate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"fismapp/pkg/platform/sentinel"
)

// PostgresLedger persists issued certificates in PostgreSQL. The unique
// index on verification_code is the collision detector: Append retries with
// a fresh code when the insert reports a uniqueness violation.
type PostgresLedger struct {
	db *sql.DB
}

func NewPostgresLedger(db *sql.DB) *PostgresLedger {
	return &PostgresLedger{db: db}
}

// EnsureSchema creates the ledger table and its indexes when missing.
func (l *PostgresLedger) EnsureSchema(ctx context.Context) error {
	_, err := l.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS issued_certificates (
			id                   BIGSERIAL PRIMARY KEY,
			verification_code    TEXT NOT NULL UNIQUE,
			template_id          TEXT NOT NULL,
			template_name        TEXT NOT NULL,
			recipient_id         TEXT NOT NULL,
			recipient_first_name TEXT NOT NULL,
			recipient_last_name  TEXT NOT NULL,
			issued_at            TIMESTAMPTZ NOT NULL,
			addressee_text       TEXT NOT NULL DEFAULT '',
			included_periods     TEXT[] NOT NULL DEFAULT '{}',
			current_period       TEXT NOT NULL DEFAULT '',
			embed_scannable_code BOOLEAN NOT NULL DEFAULT TRUE
		);
		CREATE INDEX IF NOT EXISTS issued_certificates_recipient_idx
			ON issued_certificates (recipient_id, issued_at)`)
	if err != nil {
		return fmt.Errorf("ensure ledger schema: %w", err)
	}
	return nil
}

func (l *PostgresLedger) Append(ctx context.Context, record *IssuedCertificate) (*IssuedCertificate, error) {
	for attempt := 0; attempt < codeRetries; attempt++ {
		code, err := GenerateCode()
		if err != nil {
			return nil, err
		}

		var id int64
		err = l.db.QueryRowContext(ctx, `
			INSERT INTO issued_certificates (
				verification_code, template_id, template_name,
				recipient_id, recipient_first_name, recipient_last_name,
				issued_at, addressee_text, included_periods,
				current_period, embed_scannable_code
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
			RETURNING id`,
			code, record.TemplateID, record.TemplateName,
			record.RecipientSnapshot.RecipientID,
			record.RecipientSnapshot.FirstName,
			record.RecipientSnapshot.LastName,
			record.IssuedAt, record.AddresseeText,
			pq.Array(record.IncludedPeriods),
			record.CurrentPeriod, record.EmbedScannableCode).Scan(&id)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == "23505" {
				continue
			}
			return nil, fmt.Errorf("%w: append certificate: %v", sentinel.ErrUnavailable, err)
		}

		stored := *record
		stored.CertificateID = id
		stored.VerificationCode = code
		return &stored, nil
	}
	return nil, sentinel.ErrUnavailable
}

func (l *PostgresLedger) FindByCode(ctx context.Context, code string) (*IssuedCertificate, error) {
	row := l.db.QueryRowContext(ctx, `
		SELECT id, verification_code, template_id, template_name,
		       recipient_id, recipient_first_name, recipient_last_name,
		       issued_at, addressee_text, included_periods,
		       current_period, embed_scannable_code
		FROM issued_certificates
		WHERE verification_code = $1`, code)
	rec, err := scanCertificate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("%w: find certificate: %v", sentinel.ErrUnavailable, err)
	}
	return rec, nil
}

func (l *PostgresLedger) ListByRecipient(ctx context.Context, recipientID string) ([]*IssuedCertificate, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, verification_code, template_id, template_name,
		       recipient_id, recipient_first_name, recipient_last_name,
		       issued_at, addressee_text, included_periods,
		       current_period, embed_scannable_code
		FROM issued_certificates
		WHERE recipient_id = $1
		ORDER BY issued_at ASC, id ASC`, recipientID)
	if err != nil {
		return nil, fmt.Errorf("%w: list certificates: %v", sentinel.ErrUnavailable, err)
	}
	defer rows.Close()

	var out []*IssuedCertificate
	for rows.Next() {
		rec, err := scanCertificate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan certificate: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCertificate(row rowScanner) (*IssuedCertificate, error) {
	var rec IssuedCertificate
	var periods pq.StringArray
	err := row.Scan(
		&rec.CertificateID, &rec.VerificationCode, &rec.TemplateID, &rec.TemplateName,
		&rec.RecipientSnapshot.RecipientID, &rec.RecipientSnapshot.FirstName,
		&rec.RecipientSnapshot.LastName, &rec.IssuedAt, &rec.AddresseeText,
		&periods, &rec.CurrentPeriod, &rec.EmbedScannableCode)
	if err != nil {
		return nil, err
	}
	rec.IncludedPeriods = []string(periods)
	return &rec, nil
}
