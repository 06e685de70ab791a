package certificate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	t.Run("generates well-formed codes", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			code, err := GenerateCode()
			require.NoError(t, err)
			require.Len(t, code, CodeLength)
			require.True(t, IsWellFormedCode(code), "code %q failed shape check", code)
		}
	})

	t.Run("codes do not repeat", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 1000; i++ {
			code, err := GenerateCode()
			require.NoError(t, err)
			require.False(t, seen[code], "duplicate code %q", code)
			seen[code] = true
		}
	})
}

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"uppercases", "abcdefghijklmnopqrstuvwxyz", "ABCDEFGHIJKLMNOPQRSTUVWXYZ"},
		{"trims whitespace", "  ABC23  ", "ABC23"},
		{"trims and uppercases", "\tabc23\n", "ABC23"},
		{"canonical input unchanged", "ABC234567ABC234567ABC23456", "ABC234567ABC234567ABC23456"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, NormalizeCode(tt.in))
		})
	}
}

func TestIsWellFormedCode(t *testing.T) {
	valid := strings.Repeat("A", CodeLength)

	tests := []struct {
		name string
		code string
		want bool
	}{
		{"valid all-letter code", valid, true},
		{"valid mixed code", "ABCDEFGHIJKLMNOPQRSTUVW234", true},
		{"too short", valid[:CodeLength-1], false},
		{"too long", valid + "A", false},
		{"empty", "", false},
		{"digit outside alphabet", strings.Repeat("A", CodeLength-1) + "1", false},
		{"zero not in alphabet", "0" + strings.Repeat("A", CodeLength-1), false},
		{"lowercase rejected before normalization", strings.Repeat("a", CodeLength), false},
		{"punctuation rejected", strings.Repeat("A", CodeLength-1) + "-", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IsWellFormedCode(tt.code))
		})
	}
}
