package http

import (
	"net/http"
	"time"
)

const (
	refreshCookieName  = "accountd_refresh"
	stateCookieName    = "accountd_oauth_state"
	providerCookieName = "accountd_oauth_provider"

	// stateCookieTTL bounds how long a login attempt may sit between the
	// redirect to the provider and the callback.
	stateCookieTTL = 10 * time.Minute
)

// setRefreshCookie places the refresh secret in an HttpOnly cookie scoped to
// the token endpoints. Browser clients never see the secret from script;
// non-browser clients use the JSON body instead.
func setRefreshCookie(w http.ResponseWriter, secret string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    secret,
		Path:     "/v1",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearRefreshCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/v1",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// refreshFromRequest resolves the refresh secret from the form body, falling
// back to the cookie for browser clients.
func refreshFromRequest(r *http.Request) string {
	if v := r.Form.Get("refresh_token"); v != "" {
		return v
	}
	if c, err := r.Cookie(refreshCookieName); err == nil {
		return c.Value
	}
	return ""
}

func setLoginStateCookies(w http.ResponseWriter, state, provider string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/v1/login",
		MaxAge:   int(stateCookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     providerCookieName,
		Value:    provider,
		Path:     "/v1/login",
		MaxAge:   int(stateCookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearLoginStateCookies(w http.ResponseWriter, secure bool) {
	for _, name := range []string{stateCookieName, providerCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/v1/login",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
