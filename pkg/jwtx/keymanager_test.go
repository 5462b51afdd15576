package jwtx

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewEphemeralKeyManager(t *testing.T) {
	t.Parallel()

	t.Run("requires issuer", func(t *testing.T) {
		_, err := NewEphemeralKeyManager(KeyManagerOptions{Algorithm: AlgorithmEdDSA})
		require.Error(t, err)
	})

	t.Run("rejects unknown algorithm", func(t *testing.T) {
		_, err := NewEphemeralKeyManager(KeyManagerOptions{Algorithm: "HS256", Issuer: "accountd"})
		require.Error(t, err)
	})

	t.Run("defaults to three keys", func(t *testing.T) {
		km, err := NewEphemeralKeyManager(KeyManagerOptions{Algorithm: AlgorithmEdDSA, Issuer: "accountd"})
		require.NoError(t, err)
		require.Equal(t, 3, km.NumSigners())
		require.True(t, km.IsReady())
	})
}

func TestSignVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	for _, alg := range []string{AlgorithmEdDSA, AlgorithmES256} {
		t.Run(alg, func(t *testing.T) {
			km, err := NewEphemeralKeyManager(KeyManagerOptions{
				Algorithm: alg,
				Issuer:    "accountd",
				NumKeys:   2,
			})
			require.NoError(t, err)

			claims := NewAccessClaims(
				"account-1", "alice@example.com",
				[]string{"viewer"},
				time.Minute, "accountd", nil, time.Now(),
			)

			token, err := km.GetSigner().Sign(claims)
			require.NoError(t, err)

			parsed, err := km.Verifier.Verify(token)
			require.NoError(t, err)
			require.Equal(t, "account-1", parsed.Subject)
			require.Equal(t, "alice@example.com", parsed.Email)
			require.Equal(t, []string{"viewer"}, parsed.Roles)
		})
	}
}

func TestVerifierRejectsForeignToken(t *testing.T) {
	t.Parallel()

	kmA, err := NewEphemeralKeyManager(KeyManagerOptions{Algorithm: AlgorithmEdDSA, Issuer: "accountd", NumKeys: 1})
	require.NoError(t, err)
	kmB, err := NewEphemeralKeyManager(KeyManagerOptions{Algorithm: AlgorithmEdDSA, Issuer: "accountd", NumKeys: 1})
	require.NoError(t, err)

	claims := NewAccessClaims("account-1", "a@x.com", nil, time.Minute, "accountd", nil, time.Now())
	token, err := kmA.GetSigner().Sign(claims)
	require.NoError(t, err)

	// kmB has no knowledge of kmA's kid.
	_, err = kmB.Verifier.Verify(token)
	require.Error(t, err)
}

func TestRetireSignerByKid(t *testing.T) {
	t.Parallel()

	km, err := NewEphemeralKeyManager(KeyManagerOptions{Algorithm: AlgorithmEdDSA, Issuer: "accountd", NumKeys: 2})
	require.NoError(t, err)

	retired := km.GetSigners()[0]
	claims := NewAccessClaims("account-1", "a@x.com", nil, time.Minute, "accountd", nil, time.Now())
	token, err := retired.Sign(claims)
	require.NoError(t, err)

	require.NoError(t, km.RetireSignerByKid(retired.KID()))
	require.Equal(t, 1, km.NumSigners())

	// Retired keys keep verifying during the grace period.
	_, err = km.Verifier.Verify(token)
	require.NoError(t, err)

	// The last key cannot be retired.
	require.Error(t, km.RetireSignerByKid(km.GetSigners()[0].KID()))
}

type memKeyStore struct {
	mu   sync.Mutex
	keys []SigningKeyRecord
}

func (m *memKeyStore) ListAllSigningKeys(ctx context.Context) ([]SigningKeyRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SigningKeyRecord(nil), m.keys...), nil
}

func (m *memKeyStore) ListActiveSigningKeys(ctx context.Context) ([]SigningKeyRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []SigningKeyRecord
	for _, k := range m.keys {
		if k.RetiredAt == nil {
			out = append(out, k)
		}
	}
	return out, nil
}

func (m *memKeyStore) CreateSigningKey(ctx context.Context, key SigningKeyRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys = append(m.keys, key)
	return nil
}

func TestPersistentKeyManagerGeneratesAndReloads(t *testing.T) {
	t.Setenv("ACCOUNTD_MASTER_KEY", "persistent-km-test-key")

	ctx := context.Background()
	store := &memKeyStore{}

	km1, err := NewPersistentKeyManager(ctx, PersistentKeyManagerOptions{
		Store:     store,
		Algorithm: AlgorithmEdDSA,
		Issuer:    "accountd",
		NumKeys:   2,
	})
	require.NoError(t, err)
	require.Equal(t, 2, km1.NumSigners())
	require.Len(t, store.keys, 2)

	claims := NewAccessClaims("account-1", "a@x.com", nil, time.Minute, "accountd", nil, time.Now())
	token, err := km1.GetSigner().Sign(claims)
	require.NoError(t, err)

	// A second manager loading from the same store verifies tokens signed
	// by the first: the keys survived the "restart".
	km2, err := NewPersistentKeyManager(ctx, PersistentKeyManagerOptions{
		Store:     store,
		Algorithm: AlgorithmEdDSA,
		Issuer:    "accountd",
		NumKeys:   2,
	})
	require.NoError(t, err)
	require.Len(t, store.keys, 2) // no extra keys generated

	parsed, err := km2.Verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "account-1", parsed.Subject)
}
