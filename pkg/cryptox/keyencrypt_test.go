package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptPrivateKeyRoundTrip(t *testing.T) {
	ResetMasterKeyForTesting()
	t.Setenv("ACCOUNTD_MASTER_KEY", "test-master-key-material")

	pemData, err := GenerateEd25519Key()
	require.NoError(t, err)

	encrypted, err := EncryptPrivateKey(pemData)
	require.NoError(t, err)
	require.NotEqual(t, pemData, encrypted)

	decrypted, err := DecryptPrivateKey(encrypted)
	require.NoError(t, err)
	require.Equal(t, pemData, decrypted)
}

func TestEncryptProducesUniqueCiphertexts(t *testing.T) {
	ResetMasterKeyForTesting()
	t.Setenv("ACCOUNTD_MASTER_KEY", "test-master-key-material")

	plaintext := []byte("same plaintext")

	a, err := EncryptPrivateKey(plaintext)
	require.NoError(t, err)
	b, err := EncryptPrivateKey(plaintext)
	require.NoError(t, err)

	// The random nonce must make two encryptions of the same data differ.
	require.NotEqual(t, a, b)
}

func TestDecryptRejectsTamperedCiphertext(t *testing.T) {
	ResetMasterKeyForTesting()
	t.Setenv("ACCOUNTD_MASTER_KEY", "test-master-key-material")

	encrypted, err := EncryptPrivateKey([]byte("sensitive"))
	require.NoError(t, err)

	encrypted[len(encrypted)-1] ^= 0xff
	_, err = DecryptPrivateKey(encrypted)
	require.Error(t, err)
}

func TestDecryptRejectsShortCiphertext(t *testing.T) {
	ResetMasterKeyForTesting()
	t.Setenv("ACCOUNTD_MASTER_KEY", "test-master-key-material")

	_, err := DecryptPrivateKey([]byte("short"))
	require.Error(t, err)
}
