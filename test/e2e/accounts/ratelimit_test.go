package accounts_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestTokenEndpointRateLimiting runs against production rate limits and
// verifies the strict limiter engages on the token endpoint. StrictLimit
// allows a burst of 10 per IP, so request 11 inside the window must be 429.
func TestTokenEndpointRateLimiting(t *testing.T) {
	baseURL, cleanup := setupContainerWithDefaultRateLimits(t)
	defer cleanup()

	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {"not-a-real-refresh-token"},
	}

	post := func() int {
		resp, err := http.Post(baseURL+"/v1/token",
			"application/x-www-form-urlencoded",
			strings.NewReader(form.Encode()))
		require.NoError(t, err)
		defer resp.Body.Close()
		return resp.StatusCode
	}

	for i := 0; i < 10; i++ {
		require.Equal(t, http.StatusUnauthorized, post(),
			"request %d should pass the limiter and be denied as invalid_grant", i+1)
	}

	limited := false
	for i := 0; i < 5 && !limited; i++ {
		limited = post() == http.StatusTooManyRequests
	}
	require.True(t, limited, "requests beyond the burst should be rate limited")
}
