package cryptox

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	t.Run("returns url-safe base64 of the requested size", func(t *testing.T) {
		token, err := GenerateToken(TokenSize256)
		require.NoError(t, err)

		raw, err := base64.RawURLEncoding.DecodeString(token)
		require.NoError(t, err)
		require.Len(t, raw, TokenSize256)
	})

	t.Run("rejects non-positive sizes", func(t *testing.T) {
		_, err := GenerateToken(0)
		require.Error(t, err)

		_, err = GenerateToken(-1)
		require.Error(t, err)
	})

	t.Run("successive tokens differ", func(t *testing.T) {
		a, err := GenerateToken(TokenSize128)
		require.NoError(t, err)
		b, err := GenerateToken(TokenSize128)
		require.NoError(t, err)
		require.NotEqual(t, a, b)
	})
}

func TestFingerprintToken(t *testing.T) {
	t.Parallel()

	t.Run("deterministic", func(t *testing.T) {
		require.Equal(t, FingerprintToken("secret"), FingerprintToken("secret"))
	})

	t.Run("distinct inputs produce distinct fingerprints", func(t *testing.T) {
		require.NotEqual(t, FingerprintToken("secret-a"), FingerprintToken("secret-b"))
	})

	t.Run("fingerprint does not contain the input", func(t *testing.T) {
		token := MustGenerateToken(TokenSize256)
		fp := FingerprintToken(token)
		require.NotContains(t, fp, token)
		require.Len(t, fp, 43) // base64url of 32 bytes, no padding
	})
}
