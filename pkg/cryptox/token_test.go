package cryptox

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	for _, size := range []int{TokenSize128, TokenSize256, 24} {
		a, err := GenerateToken(size)
		require.NoError(t, err)
		b, err := GenerateToken(size)
		require.NoError(t, err)
		require.NotEqual(t, a, b, "tokens should be unique")
	}
}

func TestGenerateHexToken(t *testing.T) {
	tok, err := GenerateHexToken(TokenSize128)
	require.NoError(t, err)
	require.Len(t, tok, 32)

	raw, err := hex.DecodeString(tok)
	require.NoError(t, err)
	require.Len(t, raw, TokenSize128)
}

func TestGenerateToken_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		tok, err := GenerateToken(size)
		require.Error(t, err)
		require.Empty(t, tok)

		tok, err = GenerateHexToken(size)
		require.Error(t, err)
		require.Empty(t, tok)
	}
}

func TestGenerateHexToken_EntropyQuality(t *testing.T) {
	const count = 200
	seen := make(map[string]struct{}, count)
	for range count {
		tok, err := GenerateHexToken(TokenSize128)
		require.NoError(t, err)
		require.NotContains(t, seen, tok, "duplicate token generated")
		seen[tok] = struct{}{}
	}
}
