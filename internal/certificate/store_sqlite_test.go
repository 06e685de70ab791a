package certificate

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fismapp/pkg/platform/sentinel"
)

func openTestSQLiteLedger(t *testing.T) *SQLiteLedger {
	t.Helper()
	ledger, err := OpenSQLiteLedger(context.Background(), filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = ledger.Close() })
	return ledger
}

func TestSQLiteLedger(t *testing.T) {
	ctx := context.Background()

	t.Run("append and find roundtrip", func(t *testing.T) {
		ledger := openTestSQLiteLedger(t)

		stored, err := ledger.Append(ctx, &IssuedCertificate{
			TemplateID:   "default",
			TemplateName: "Constancia de Carga Académica",
			RecipientSnapshot: RecipientSnapshot{
				RecipientID: "42",
				FirstName:   "Juan",
				LastName:    "Pérez",
			},
			IssuedAt:           time.Date(2025, 8, 15, 10, 0, 0, 0, time.UTC),
			AddresseeText:      "A QUIEN CORRESPONDA",
			IncludedPeriods:    []string{"202435", "202525"},
			CurrentPeriod:      "202535",
			EmbedScannableCode: true,
		})
		require.NoError(t, err)
		require.NotZero(t, stored.CertificateID)
		require.True(t, IsWellFormedCode(stored.VerificationCode))

		found, err := ledger.FindByCode(ctx, stored.VerificationCode)
		require.NoError(t, err)
		require.Equal(t, stored.CertificateID, found.CertificateID)
		require.Equal(t, "Juan Pérez", found.RecipientSnapshot.DisplayName())
		require.Equal(t, []string{"202435", "202525"}, found.IncludedPeriods)
		require.Equal(t, "202535", found.CurrentPeriod)
		require.True(t, found.EmbedScannableCode)
		require.True(t, found.IssuedAt.Equal(stored.IssuedAt))
	})

	t.Run("unknown code returns not found", func(t *testing.T) {
		ledger := openTestSQLiteLedger(t)
		_, err := ledger.FindByCode(ctx, "ABCDEFGHIJKLMNOPQRSTUVW234")
		require.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("list orders by issuance time", func(t *testing.T) {
		ledger := openTestSQLiteLedger(t)
		base := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

		for _, offset := range []time.Duration{2 * time.Hour, 0, time.Hour} {
			_, err := ledger.Append(ctx, &IssuedCertificate{
				TemplateID:        "default",
				RecipientSnapshot: RecipientSnapshot{RecipientID: "42"},
				IssuedAt:          base.Add(offset),
			})
			require.NoError(t, err)
		}

		certs, err := ledger.ListByRecipient(ctx, "42")
		require.NoError(t, err)
		require.Len(t, certs, 3)
		require.True(t, certs[0].IssuedAt.Equal(base))
		require.True(t, certs[2].IssuedAt.Equal(base.Add(2*time.Hour)))
	})

	t.Run("ledger survives reopening", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ledger.db")
		first, err := OpenSQLiteLedger(ctx, path)
		require.NoError(t, err)

		stored, err := first.Append(ctx, &IssuedCertificate{
			TemplateID:        "default",
			RecipientSnapshot: RecipientSnapshot{RecipientID: "42"},
			IssuedAt:          time.Now().UTC(),
		})
		require.NoError(t, err)
		require.NoError(t, first.Close())

		second, err := OpenSQLiteLedger(ctx, path)
		require.NoError(t, err)
		defer second.Close()

		found, err := second.FindByCode(ctx, stored.VerificationCode)
		require.NoError(t, err)
		require.Equal(t, stored.CertificateID, found.CertificateID)
	})
}
