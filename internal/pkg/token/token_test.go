package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	tok, err := Generate()
	require.NoError(t, err)
	assert.Len(t, tok, Length)
	assert.True(t, Valid(tok))
}

func TestGenerateDistinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		tok, err := Generate()
		require.NoError(t, err)
		assert.False(t, seen[tok], "duplicate token generated: %s", tok)
		seen[tok] = true
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid alphanumeric", "aB3dE5gH7jK9mN1pQ2sT", true},
		{"too short", "aB3dE5gH7jK9mN1pQ2s", false},
		{"too long", "aB3dE5gH7jK9mN1pQ2sT4", false},
		{"empty", "", false},
		{"contains space", "aB3dE5gH7j 9mN1pQ2sT", false},
		{"contains symbol", "aB3dE5gH7jK9mN1pQ2s!", false},
		{"contains unicode", "aB3dE5gH7jK9mN1pQ2sé", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Valid(tt.input))
		})
	}
}
