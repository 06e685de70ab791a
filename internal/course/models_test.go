package course

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatPeriod(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"202525", "Primavera 2025"},
		{"202535", "Otoño 2025"},
		{"202530", "Interperiodo 2025"},
		{"202435", "Otoño 2024"},
		{"Primavera 2025", "Primavera 2025"},
		{"Otoño 2023", "Otoño 2023"},
		{"202599", "202599"},
		{"2025", "2025"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, FormatPeriod(tt.in))
		})
	}
}

func TestGroupCrossListed(t *testing.T) {
	start := time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 5, 30, 0, 0, 0, 0, time.UTC)

	t.Run("uncrossed records pass through", func(t *testing.T) {
		groups := GroupCrossListed([]CourseRecord{
			{Subject: "Cálculo", NRC: "111", ContactHours: 80},
			{Subject: "Álgebra", NRC: "222", ContactHours: 60},
		})
		require.Len(t, groups, 2)
		require.Equal(t, "Cálculo", groups[0].Subject)
		require.False(t, groups[0].Grouped)
		require.Equal(t, "Álgebra", groups[1].Subject)
	})

	t.Run("cross-listed sections collapse into one row", func(t *testing.T) {
		groups := GroupCrossListed([]CourseRecord{
			{Subject: "Física I", NRC: "111", ContactHours: 40, CrossListing: "X1", Period: "202525", StartDate: start, EndDate: end},
			{Subject: "Física para Ingeniería", NRC: "222", ContactHours: 40, CrossListing: "X1"},
		})
		require.Len(t, groups, 1)
		g := groups[0]
		require.True(t, g.Grouped)
		require.Equal(t, "Física I/Física para Ingeniería", g.Subject)
		require.Equal(t, "111/222", g.NRC)
		require.Equal(t, 80, g.ContactHours)
		require.Equal(t, "202525", g.Period)
		require.Equal(t, start, g.StartDate)
	})

	t.Run("duplicate subject names are not repeated", func(t *testing.T) {
		groups := GroupCrossListed([]CourseRecord{
			{Subject: "Física I", NRC: "111", ContactHours: 40, CrossListing: "X1"},
			{Subject: "Física I", NRC: "222", ContactHours: 40, CrossListing: "X1"},
		})
		require.Len(t, groups, 1)
		require.Equal(t, "Física I", groups[0].Subject)
		require.Equal(t, "111/222", groups[0].NRC)
		require.Equal(t, 80, groups[0].ContactHours)
	})

	t.Run("output follows first appearance order", func(t *testing.T) {
		groups := GroupCrossListed([]CourseRecord{
			{Subject: "A", NRC: "1"},
			{Subject: "B1", NRC: "2", CrossListing: "X1"},
			{Subject: "C", NRC: "3"},
			{Subject: "B2", NRC: "4", CrossListing: "X1"},
		})
		require.Len(t, groups, 3)
		require.Equal(t, "A", groups[0].Subject)
		require.Equal(t, "B1/B2", groups[1].Subject)
		require.Equal(t, "C", groups[2].Subject)
	})

	t.Run("empty input yields no groups", func(t *testing.T) {
		require.Empty(t, GroupCrossListed(nil))
	})
}

func TestFilterPeriods(t *testing.T) {
	records := []CourseRecord{
		{Subject: "A", Period: "202435"},
		{Subject: "B", Period: "202525"},
		{Subject: "C", Period: "202535"},
	}

	t.Run("keeps only requested periods", func(t *testing.T) {
		out := FilterPeriods(records, []string{"202525", "202535"})
		require.Len(t, out, 2)
		require.Equal(t, "B", out[0].Subject)
		require.Equal(t, "C", out[1].Subject)
	})

	t.Run("empty filter returns everything", func(t *testing.T) {
		require.Len(t, FilterPeriods(records, nil), 3)
	})

	t.Run("no matches returns empty", func(t *testing.T) {
		require.Empty(t, FilterPeriods(records, []string{"199925"}))
	})
}

func TestPeriodCatalog(t *testing.T) {
	catalog := NewPeriodCatalog([]string{"202525", "202535"})
	require.True(t, catalog.Known("202525"))
	require.False(t, catalog.Known("202530"))
	require.False(t, catalog.Known(""))
}
