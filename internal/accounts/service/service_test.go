package service

import (
	"context"
	"testing"
	"time"

	"github.com/marinoscar/accountd/internal/accounts/domain"
	"github.com/marinoscar/accountd/internal/accounts/store"
	"github.com/marinoscar/accountd/internal/accounts/store/drivers/sqlite"
	"github.com/marinoscar/accountd/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testBootstrapEmail = "root@example.com"

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func newTestKeyManager(t *testing.T) *jwtx.KeyManager {
	t.Helper()

	km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{
		Algorithm: jwtx.AlgorithmEdDSA,
		Issuer:    "test-issuer",
		NumKeys:   1,
	})
	require.NoError(t, err)
	return km
}

func newTestProvisioner(st store.Store) *ProvisionService {
	return &ProvisionService{
		Store:       st,
		Bootstrap:   &BootstrapPolicy{AdminEmail: testBootstrapEmail},
		DefaultRole: domain.RoleViewer,
	}
}

func newTestTokenService(t *testing.T, st store.Store) *TokenService {
	t.Helper()

	return &TokenService{
		KeyManager: newTestKeyManager(t),
		Store:      st,
		Issuer:     "test-issuer",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	}
}

func googleProfile(subject, email, name string) domain.Profile {
	return domain.Profile{
		Provider:    "google",
		Subject:     subject,
		Email:       email,
		DisplayName: name,
		AvatarURL:   "https://avatars.example/" + subject,
	}
}

// provisionAccount is shorthand for tests that just need a live account.
func provisionAccount(t *testing.T, st store.Store, email string) domain.Account {
	t.Helper()

	account, err := newTestProvisioner(st).Provision(context.Background(),
		googleProfile("sub-"+email, email, "Test User"))
	require.NoError(t, err)
	return account
}
