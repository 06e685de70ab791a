package certificate

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
)

// Verification code scheme: 16 random bytes (128 bits) rendered as RFC 4648
// base32 without padding, giving a 26-character string over A-Z2-7. Codes are
// generated and stored uppercase; verification uppercases its input before
// lookup, so the scheme is effectively case-insensitive at the edge while
// the ledger only ever sees the canonical uppercase form.
const (
	CodeLength   = 26
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"
)

var codeEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// GenerateCode returns a fresh high-entropy verification code.
func GenerateCode() (string, error) {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}
	return codeEncoding.EncodeToString(buf[:]), nil
}

// NormalizeCode trims surrounding whitespace and uppercases the input into
// the canonical code form. It does not validate shape; see IsWellFormedCode.
func NormalizeCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// IsWellFormedCode reports whether a normalized code has the right length
// and alphabet. The check scans the whole input regardless of where the
// first bad character sits.
func IsWellFormedCode(code string) bool {
	if len(code) != CodeLength {
		return false
	}
	ok := true
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(codeAlphabet, rune(code[i])) {
			ok = false
		}
	}
	return ok
}
