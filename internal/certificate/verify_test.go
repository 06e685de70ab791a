package certificate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	dErrors "fismapp/pkg/domain-errors"
	"fismapp/pkg/platform/audit"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// failingLedger simulates a ledger whose backing store is down.
type failingLedger struct{}

func (failingLedger) Append(context.Context, *IssuedCertificate) (*IssuedCertificate, error) {
	return nil, errors.New("store down")
}

func (failingLedger) FindByCode(context.Context, string) (*IssuedCertificate, error) {
	return nil, errors.New("store down")
}

func (failingLedger) ListByRecipient(context.Context, string) ([]*IssuedCertificate, error) {
	return nil, errors.New("store down")
}

func issueTestCertificate(t *testing.T, ledger Ledger) *IssuedCertificate {
	t.Helper()
	stored, err := ledger.Append(context.Background(), &IssuedCertificate{
		TemplateID:   "default",
		TemplateName: "Constancia de Carga Académica",
		RecipientSnapshot: RecipientSnapshot{
			RecipientID: "42",
			FirstName:   "Juan",
			LastName:    "Pérez",
		},
		IssuedAt: time.Date(2025, 8, 15, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return stored
}

func TestVerify(t *testing.T) {
	t.Run("valid code returns public summary", func(t *testing.T) {
		ledger := NewMemoryLedger()
		cert := issueTestCertificate(t, ledger)
		v := NewVerifier(ledger, discardLogger())

		result, err := v.Verify(context.Background(), cert.VerificationCode)
		require.NoError(t, err)
		require.True(t, result.Valid)
		require.Empty(t, result.Reason)
		require.NotNil(t, result.Certificate)
		require.Equal(t, "Constancia de Carga Académica", result.Certificate.TemplateName)
		require.Equal(t, "Juan Pérez", result.Certificate.RecipientName)
		require.Equal(t, cert.IssuedAt, result.Certificate.IssuedAt)
	})

	t.Run("verification is case and whitespace insensitive", func(t *testing.T) {
		ledger := NewMemoryLedger()
		cert := issueTestCertificate(t, ledger)
		v := NewVerifier(ledger, discardLogger())

		result, err := v.Verify(context.Background(), "  "+strings.ToLower(cert.VerificationCode)+"\t")
		require.NoError(t, err)
		require.True(t, result.Valid)
	})

	t.Run("unknown code is invalid, not an error", func(t *testing.T) {
		v := NewVerifier(NewMemoryLedger(), discardLogger())

		result, err := v.Verify(context.Background(), strings.Repeat("A", CodeLength))
		require.NoError(t, err)
		require.False(t, result.Valid)
		require.Equal(t, ReasonNotFound, result.Reason)
		require.Nil(t, result.Certificate)
	})

	t.Run("malformed code never reaches the ledger", func(t *testing.T) {
		// failingLedger errors on any access, so a non-error result proves
		// the short-circuit.
		v := NewVerifier(failingLedger{}, discardLogger())

		for _, raw := range []string{"", "abc", strings.Repeat("A", CodeLength-1), strings.Repeat("A", CodeLength-1) + "1"} {
			result, err := v.Verify(context.Background(), raw)
			require.NoError(t, err, "input %q", raw)
			require.False(t, result.Valid)
			require.Equal(t, ReasonMalformed, result.Reason)
		}
	})

	t.Run("storage failure surfaces as unavailable", func(t *testing.T) {
		v := NewVerifier(failingLedger{}, discardLogger())

		_, err := v.Verify(context.Background(), strings.Repeat("A", CodeLength))
		require.Error(t, err)
		require.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
	})

	t.Run("audit events carry a code hash, never the code", func(t *testing.T) {
		ledger := NewMemoryLedger()
		cert := issueTestCertificate(t, ledger)
		publisher := &capturePublisher{}
		v := NewVerifier(ledger, discardLogger(), VerifierWithAuditPublisher(publisher))

		_, err := v.Verify(context.Background(), cert.VerificationCode)
		require.NoError(t, err)
		_, err = v.Verify(context.Background(), strings.Repeat("B", CodeLength))
		require.NoError(t, err)

		events := publisher.byAction(audit.ActionCertificateVerified)
		require.Len(t, events, 2)
		require.Equal(t, "valid", events[0].Outcome)
		require.Equal(t, string(ReasonNotFound), events[1].Outcome)
		for _, e := range events {
			require.NotContains(t, e.CodeHash, cert.VerificationCode)
			require.Len(t, e.CodeHash, 64)
		}
	})
}
