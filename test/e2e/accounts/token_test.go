package accounts_test

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/marinoscar/accountd/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func TestTokenEndpointDeniesUnknownSecrets(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	client := authsdk.NewClient(baseURL)
	ctx := context.Background()

	t.Run("fabricated refresh token is denied uniformly", func(t *testing.T) {
		_, err := client.Refresh(ctx, "not-a-real-refresh-token")
		requireOAuth2Error(t, err, http.StatusUnauthorized, "invalid_grant")
	})

	t.Run("empty refresh token is a malformed request", func(t *testing.T) {
		_, err := client.Refresh(ctx, "")
		requireOAuth2Error(t, err, http.StatusBadRequest, "invalid_request")
	})

	t.Run("unsupported grant type is rejected", func(t *testing.T) {
		resp, err := http.PostForm(baseURL+"/v1/token", url.Values{
			"grant_type": {"password"},
			"username":   {"admin"},
			"password":   {"hunter2"},
		})
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("wrong content type is rejected", func(t *testing.T) {
		resp, err := http.Post(baseURL+"/v1/token", "application/json",
			strings.NewReader(`{"grant_type":"refresh_token"}`))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestLogoutIsIdempotent(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	client := authsdk.NewClient(baseURL)
	ctx := context.Background()

	// An unknown token logs out fine; so does logging out twice. Logout
	// must not reveal whether the token ever existed.
	require.NoError(t, client.Logout(ctx, "never-issued-token"))
	require.NoError(t, client.Logout(ctx, "never-issued-token"))
}

func TestUserInfoRequiresValidToken(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	client := authsdk.NewClient(baseURL)
	ctx := context.Background()

	t.Run("garbage bearer token is rejected", func(t *testing.T) {
		_, err := client.UserInfo(ctx, "not-a-jwt")
		requireOAuth2Error(t, err, http.StatusUnauthorized, "invalid_token")
	})

	t.Run("missing bearer token is rejected", func(t *testing.T) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/v1/userinfo", nil)
		require.NoError(t, err)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestLoginEndpointValidation(t *testing.T) {
	baseURL, cleanup := setupContainer(t)
	defer cleanup()

	// Redirects must not be followed: a configured provider would 302 away.
	httpClient := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	t.Run("unknown provider is rejected", func(t *testing.T) {
		resp, err := httpClient.Get(baseURL + "/v1/login/myspace")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("callback without a pending login is rejected", func(t *testing.T) {
		resp, err := httpClient.Get(baseURL + "/v1/login/callback?code=abc&state=xyz")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
