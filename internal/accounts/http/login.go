package http

import (
	"errors"
	"net/http"

	"github.com/marinoscar/accountd/internal/accounts/oauth"
	"github.com/marinoscar/accountd/internal/accounts/service"
	"github.com/marinoscar/accountd/pkg/authsdk"
	"github.com/marinoscar/accountd/pkg/httpx"
	"github.com/marinoscar/accountd/pkg/slogx"
)

// LoginHandler serves the browser-driven OAuth2 login flow: the start
// endpoint redirects to the external identity provider, the callback
// exchanges the authorization code, provisions the account and issues the
// token pair. A per-attempt state cookie binds the two legs against CSRF.
type LoginHandler struct {
	OAuth            *oauth.Manager
	ProvisionService *service.ProvisionService
	TokenService     *service.TokenService
	SecureCookies    bool
}

// HandleStart godoc
//
//	@Summary		Begin OAuth2 Login
//	@Description	Redirects to the named external identity provider's consent screen.
//	@Description	Sets a short-lived state cookie that the callback validates.
//	@Tags			Login
//	@Param			provider	path	string	true	"Identity provider"	Enums(google, github)
//	@Success		302			"Redirect to the provider"
//	@Failure		400			{object}	authsdk.OAuth2Error	"Unknown provider"
//	@Failure		500			{object}	authsdk.OAuth2Error	"error, error_description"
//	@Router			/v1/login/{provider} [get].
func (h *LoginHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	provider := r.PathValue("provider")
	if !h.OAuth.Has(provider) {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	state, err := h.OAuth.StateToken()
	if err != nil {
		log.Error("state token generation failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	authURL, err := h.OAuth.AuthURL(provider, state)
	if err != nil {
		log.Error("auth url build failed", "provider", provider, "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	setLoginStateCookies(w, state, provider, h.SecureCookies)
	http.Redirect(w, r, authURL, http.StatusFound)
}

// HandleCallback godoc
//
//	@Summary		OAuth2 Login Callback
//	@Description	Completes the login: validates the state cookie, exchanges the
//	@Description	authorization code, provisions (or recognizes) the account and
//	@Description	returns a token pair. The refresh secret is also placed in an
//	@Description	HttpOnly cookie for browser clients.
//	@Tags			Login
//	@Produce		json
//	@Param			code	query		string					true	"Authorization code from the provider"
//	@Param			state	query		string					true	"Opaque state echoed by the provider"
//	@Success		200		{object}	authsdk.TokenResponse	"access_token, refresh_token, token_type, expires_in"
//	@Failure		400		{object}	authsdk.OAuth2Error		"Missing or mismatched state"
//	@Failure		401		{object}	authsdk.OAuth2Error		"Provider denied or account inactive"
//	@Failure		500		{object}	authsdk.OAuth2Error		"error, error_description"
//	@Header			200		{string}	Cache-Control			"no-store"
//	@Router			/v1/login/callback [get].
func (h *LoginHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	providerCookie, err := r.Cookie(providerCookieName)
	if err != nil || !h.OAuth.Has(providerCookie.Value) {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	provider := providerCookie.Value

	// The state leg is single-use regardless of outcome.
	clearLoginStateCookies(w, h.SecureCookies)

	if r.URL.Query().Get("state") != stateCookie.Value {
		log.Warn("oauth state mismatch", "provider", provider)
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		// Providers report user denial via error= with no code.
		authsdk.ErrAccessDenied.WriteError(w)
		return
	}

	token, err := h.OAuth.Exchange(ctx, provider, code)
	if err != nil {
		log.Warn("code exchange failed", "provider", provider, "err", err)
		authsdk.ErrInvalidGrant.WriteError(w)
		return
	}

	profile, err := h.OAuth.FetchProfile(ctx, provider, token)
	if err != nil {
		log.Warn("profile fetch failed", "provider", provider, "err", err)
		authsdk.ErrInvalidGrant.WriteError(w)
		return
	}

	account, err := h.ProvisionService.Provision(ctx, profile)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAuthenticationDenied):
			authsdk.ErrInvalidGrant.WriteError(w)
		default:
			log.Error("provisioning failed", "provider", provider, "err", err)
			authsdk.ErrServerError.WriteError(w)
		}
		return
	}

	pair, err := h.TokenService.IssuePair(ctx, account)
	if err != nil {
		log.Error("token issuance failed", "account_id", account.ID, "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	response := authsdk.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(pair.ExpiresIn.Seconds()),
	}

	setRefreshCookie(w, pair.RefreshToken, h.TokenService.RefreshTTL, h.SecureCookies)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, response)
}
