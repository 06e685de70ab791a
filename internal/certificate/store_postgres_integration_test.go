//go:build integration

package certificate_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"fismapp/internal/certificate"
	"fismapp/pkg/platform/sentinel"
	"fismapp/pkg/testutil/containers"
)

type PostgresLedgerSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	ledger   *certificate.PostgresLedger
}

func TestPostgresLedgerSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresLedgerSuite))
}

func (s *PostgresLedgerSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.ledger = certificate.NewPostgresLedger(s.postgres.DB)
	s.Require().NoError(s.ledger.EnsureSchema(context.Background()))
}

func (s *PostgresLedgerSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "issued_certificates"))
}

func (s *PostgresLedgerSuite) newRecord(recipientID string, issuedAt time.Time) *certificate.IssuedCertificate {
	return &certificate.IssuedCertificate{
		TemplateID:   "default",
		TemplateName: "Constancia de Carga Académica",
		RecipientSnapshot: certificate.RecipientSnapshot{
			RecipientID: recipientID,
			FirstName:   "Juan",
			LastName:    "Pérez",
		},
		IssuedAt:           issuedAt,
		AddresseeText:      "A QUIEN CORRESPONDA",
		IncludedPeriods:    []string{"202435", "202525"},
		CurrentPeriod:      "202535",
		EmbedScannableCode: true,
	}
}

func (s *PostgresLedgerSuite) TestAppendAndFind() {
	ctx := context.Background()

	stored, err := s.ledger.Append(ctx, s.newRecord("42", time.Date(2025, 8, 15, 10, 0, 0, 0, time.UTC)))
	s.Require().NoError(err)
	s.NotZero(stored.CertificateID)
	s.True(certificate.IsWellFormedCode(stored.VerificationCode))

	found, err := s.ledger.FindByCode(ctx, stored.VerificationCode)
	s.Require().NoError(err)
	s.Equal(stored.CertificateID, found.CertificateID)
	s.Equal([]string{"202435", "202525"}, found.IncludedPeriods)
	s.Equal("202535", found.CurrentPeriod)
	s.True(found.EmbedScannableCode)
	s.True(found.IssuedAt.Equal(stored.IssuedAt))
}

func (s *PostgresLedgerSuite) TestFindUnknownCode() {
	_, err := s.ledger.FindByCode(context.Background(), "ABCDEFGHIJKLMNOPQRSTUVW234")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresLedgerSuite) TestListByRecipient() {
	ctx := context.Background()
	base := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	for _, offset := range []time.Duration{2 * time.Hour, 0, time.Hour} {
		_, err := s.ledger.Append(ctx, s.newRecord("42", base.Add(offset)))
		s.Require().NoError(err)
	}
	_, err := s.ledger.Append(ctx, s.newRecord("7", base))
	s.Require().NoError(err)

	certs, err := s.ledger.ListByRecipient(ctx, "42")
	s.Require().NoError(err)
	s.Require().Len(certs, 3)
	s.True(certs[0].IssuedAt.Equal(base))
	s.True(certs[2].IssuedAt.Equal(base.Add(2 * time.Hour)))
}

func (s *PostgresLedgerSuite) TestCodesAreUnique() {
	ctx := context.Background()
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		stored, err := s.ledger.Append(ctx, s.newRecord("42", time.Now().UTC()))
		s.Require().NoError(err)
		s.False(seen[stored.VerificationCode])
		seen[stored.VerificationCode] = true
	}
}
