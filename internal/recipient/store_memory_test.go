package recipient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"fismapp/pkg/platform/sentinel"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("get returns stored recipient", func(t *testing.T) {
		store := NewMemoryStore()
		store.Put(&Recipient{RecipientID: "42", FirstName: "Juan", LastName: "Pérez"})

		r, err := store.GetRecipient(ctx, "42")
		require.NoError(t, err)
		require.Equal(t, "Juan Pérez", r.DisplayName())
	})

	t.Run("unknown id returns not found", func(t *testing.T) {
		store := NewMemoryStore()
		_, err := store.GetRecipient(ctx, "42")
		require.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("list orders by last name", func(t *testing.T) {
		store := NewMemoryStore()
		store.Put(&Recipient{RecipientID: "1", FirstName: "Juan", LastName: "Pérez"})
		store.Put(&Recipient{RecipientID: "2", FirstName: "Ana", LastName: "García"})

		out, err := store.ListRecipients(ctx)
		require.NoError(t, err)
		require.Len(t, out, 2)
		require.Equal(t, "García", out[0].LastName)
		require.Equal(t, "Pérez", out[1].LastName)
	})
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name string
		r    Recipient
		want string
	}{
		{"both names", Recipient{FirstName: "Juan", LastName: "Pérez"}, "Juan Pérez"},
		{"first only", Recipient{FirstName: "Juan"}, "Juan"},
		{"last only", Recipient{LastName: "Pérez"}, "Pérez"},
		{"empty", Recipient{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.r.DisplayName())
		})
	}
}
