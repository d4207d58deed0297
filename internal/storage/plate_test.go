package storage

import (
	"strings"
	"testing"
	"testing/quick"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePlate(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "abc-123", want: "ABC123"},
		{raw: " LT51 abc ", want: "LT51ABC"},
		{raw: "ab.12/cd", want: "AB12CD"},
		{raw: "ÄB12", want: "B12"},
		{raw: "---", want: ""},
		{raw: "", want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizePlate(tc.raw))
		})
	}
}

func TestNormalizePlate_Properties(t *testing.T) {
	onlyPlateChars := func(s string) bool {
		return strings.Trim(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789") == ""
	}

	idempotent := func(raw string) bool {
		once := NormalizePlate(raw)
		return NormalizePlate(once) == once && onlyPlateChars(once)
	}
	require.NoError(t, quick.Check(idempotent, nil))

	caseAndSeparatorBlind := func(raw string) bool {
		raw = strings.Map(func(r rune) rune {
			if r > unicode.MaxASCII {
				return -1
			}
			return r
		}, raw)
		want := NormalizePlate(raw)
		return NormalizePlate(strings.ToLower(raw)) == want &&
			NormalizePlate(" -"+raw+". ") == want
	}
	require.NoError(t, quick.Check(caseAndSeparatorBlind, nil))
}
