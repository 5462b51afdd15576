package accounts_test

import (
	"context"
	"testing"

	"github.com/marinoscar/accountd/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func TestHealthEndpoints(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	client := authsdk.NewClient(baseURL)
	ctx := context.Background()

	t.Run("liveness reports ok", func(t *testing.T) {
		health, err := client.GetLiveness(ctx)
		assertHealthy(t, health, err)
		require.NotEmpty(t, health.Uptime)
		require.NotEmpty(t, health.Version)
	})

	t.Run("readiness reports all dependencies ok", func(t *testing.T) {
		health, err := client.GetReadiness(ctx)
		assertHealthy(t, health, err)
		require.NotNil(t, health.Checks)
		require.Equal(t, "ok", health.Checks.Database)
		require.Equal(t, "ok", health.Checks.Signer)
	})
}

func TestJWKSEndpoint(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	client := authsdk.NewClient(baseURL)
	ctx := context.Background()

	jwks, err := client.GetJWKS(ctx)
	require.NoError(t, err)
	require.Len(t, jwks.Keys, 1, "container is configured with a single signing key")

	key := jwks.Keys[0]
	require.Equal(t, "OKP", key.Kty)
	require.Equal(t, "Ed25519", key.Crv)
	require.Equal(t, "EdDSA", key.Alg)
	require.Equal(t, "sig", key.Use)
	require.NotEmpty(t, key.Kid)
	require.NotEmpty(t, key.X)
}
