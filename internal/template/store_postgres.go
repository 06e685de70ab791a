package template

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fismapp/pkg/platform/sentinel"
)

// PostgresStore persists templates in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the templates table when missing and seeds the
// default template on first run.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS certificate_templates (
			template_id           TEXT PRIMARY KEY,
			name                  TEXT NOT NULL,
			description           TEXT NOT NULL DEFAULT '',
			layout                TEXT NOT NULL DEFAULT 'standard',
			department_name       TEXT NOT NULL DEFAULT '',
			university_name       TEXT NOT NULL DEFAULT '',
			address               TEXT NOT NULL DEFAULT '',
			title_text            TEXT NOT NULL DEFAULT '',
			recipient_line        TEXT NOT NULL DEFAULT '',
			intro_text            TEXT NOT NULL DEFAULT '',
			courses_intro         TEXT NOT NULL DEFAULT '',
			closing_text          TEXT NOT NULL DEFAULT '',
			secretary_name        TEXT NOT NULL DEFAULT '',
			secretary_title       TEXT NOT NULL DEFAULT '',
			verification_text     TEXT NOT NULL DEFAULT '',
			university_motto      TEXT NOT NULL DEFAULT '',
			include_qr_by_default BOOLEAN NOT NULL DEFAULT TRUE,
			is_default            BOOLEAN NOT NULL DEFAULT FALSE
		)`)
	if err != nil {
		return fmt.Errorf("ensure templates schema: %w", err)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM certificate_templates`).Scan(&count); err != nil {
		return fmt.Errorf("count templates: %w", err)
	}
	if count == 0 {
		return s.Put(ctx, DefaultTemplate())
	}
	return nil
}

// Put inserts or replaces a template definition.
func (s *PostgresStore) Put(ctx context.Context, t *CertificateTemplate) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO certificate_templates (
			template_id, name, description, layout, department_name,
			university_name, address, title_text, recipient_line, intro_text,
			courses_intro, closing_text, secretary_name, secretary_title,
			verification_text, university_motto, include_qr_by_default, is_default
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
		ON CONFLICT (template_id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			layout = EXCLUDED.layout,
			department_name = EXCLUDED.department_name,
			university_name = EXCLUDED.university_name,
			address = EXCLUDED.address,
			title_text = EXCLUDED.title_text,
			recipient_line = EXCLUDED.recipient_line,
			intro_text = EXCLUDED.intro_text,
			courses_intro = EXCLUDED.courses_intro,
			closing_text = EXCLUDED.closing_text,
			secretary_name = EXCLUDED.secretary_name,
			secretary_title = EXCLUDED.secretary_title,
			verification_text = EXCLUDED.verification_text,
			university_motto = EXCLUDED.university_motto,
			include_qr_by_default = EXCLUDED.include_qr_by_default,
			is_default = EXCLUDED.is_default`,
		t.TemplateID, t.Name, t.Description, t.Layout, t.DepartmentName,
		t.UniversityName, t.Address, t.TitleText, t.RecipientLine, t.IntroText,
		t.CoursesIntro, t.ClosingText, t.SecretaryName, t.SecretaryTitle,
		t.VerificationText, t.UniversityMotto, t.IncludeQRByDefault, t.IsDefault)
	if err != nil {
		return fmt.Errorf("put template: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetTemplate(ctx context.Context, templateID string) (*CertificateTemplate, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT template_id, name, description, layout, department_name,
		       university_name, address, title_text, recipient_line, intro_text,
		       courses_intro, closing_text, secretary_name, secretary_title,
		       verification_text, university_motto, include_qr_by_default, is_default
		FROM certificate_templates WHERE template_id = $1`, templateID)
	t, err := scanTemplate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get template: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) ListTemplates(ctx context.Context) ([]*CertificateTemplate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT template_id, name, description, layout, department_name,
		       university_name, address, title_text, recipient_line, intro_text,
		       courses_intro, closing_text, secretary_name, secretary_title,
		       verification_text, university_motto, include_qr_by_default, is_default
		FROM certificate_templates
		ORDER BY is_default DESC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var out []*CertificateTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (*CertificateTemplate, error) {
	var t CertificateTemplate
	err := row.Scan(
		&t.TemplateID, &t.Name, &t.Description, &t.Layout, &t.DepartmentName,
		&t.UniversityName, &t.Address, &t.TitleText, &t.RecipientLine, &t.IntroText,
		&t.CoursesIntro, &t.ClosingText, &t.SecretaryName, &t.SecretaryTitle,
		&t.VerificationText, &t.UniversityMotto, &t.IncludeQRByDefault, &t.IsDefault)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
