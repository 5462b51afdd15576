package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/marinoscar/accountd/internal/accounts/domain"
	"github.com/marinoscar/accountd/internal/accounts/service"
	"github.com/marinoscar/accountd/internal/accounts/store"
	"github.com/marinoscar/accountd/internal/accounts/store/drivers/sqlite"
	"github.com/marinoscar/accountd/pkg/authsdk"
	"github.com/marinoscar/accountd/pkg/jwtx"
)

func newTestTokenService(t *testing.T) (*service.TokenService, store.Store) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{
		Algorithm: jwtx.AlgorithmEdDSA,
		Issuer:    "test-issuer",
		NumKeys:   1,
	})
	require.NoError(t, err)

	return &service.TokenService{
		KeyManager: km,
		Store:      st,
		Issuer:     "test-issuer",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	}, st
}

func issueTestPair(t *testing.T, svc *service.TokenService, st store.Store) *domain.TokenPair {
	t.Helper()

	provisioner := &service.ProvisionService{
		Store:       st,
		Bootstrap:   &service.BootstrapPolicy{},
		DefaultRole: domain.RoleViewer,
	}
	account, err := provisioner.Provision(context.Background(), domain.Profile{
		Provider: "google", Subject: "sub-1", Email: "alice@example.com", DisplayName: "Alice",
	})
	require.NoError(t, err)

	pair, err := svc.IssuePair(context.Background(), account)
	require.NoError(t, err)
	return pair
}

func postRefreshGrant(handler http.Handler, refreshToken string) *httptest.ResponseRecorder {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}
	req := httptest.NewRequest(http.MethodPost, "/v1/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestTokenResponseExpiresInWholeSeconds(t *testing.T) {
	svc, st := newTestTokenService(t)
	pair := issueTestPair(t, svc, st)
	handler := &TokenHandler{TokenService: svc}

	rec := postRefreshGrant(handler, pair.RefreshToken)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp authsdk.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 60, resp.ExpiresIn) // seconds, never a raw duration
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	require.Equal(t, "Bearer", resp.TokenType)

	// The rotated secret travels in the response and the session cookie.
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, refreshCookieName, cookies[0].Name)
	require.Equal(t, resp.RefreshToken, cookies[0].Value)
	require.True(t, cookies[0].HttpOnly)
}

func TestTokenEndpointClearsCookieOnDeniedGrant(t *testing.T) {
	svc, _ := newTestTokenService(t)
	handler := &TokenHandler{TokenService: svc}

	rec := postRefreshGrant(handler, "never-issued")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var oauthErr authsdk.OAuth2Error
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &oauthErr))
	require.Equal(t, "invalid_grant", oauthErr.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, refreshCookieName, cookies[0].Name)
	require.Empty(t, cookies[0].Value)
}
