package http

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/marinoscar/accountd/internal/accounts/service"
	"github.com/marinoscar/accountd/pkg/authsdk"
	"github.com/marinoscar/accountd/pkg/httpx"
	"github.com/marinoscar/accountd/pkg/slogx"
)

// TokenHandler serves POST /v1/token.
// Accepts application/x-www-form-urlencoded per the RFC 6749 framework.
// The only supported grant is refresh_token; initial pairs come from the
// OAuth2 login callback.
type TokenHandler struct {
	TokenService  *service.TokenService
	SecureCookies bool
}

// ServeHTTP godoc
//
//	@Summary		Token Endpoint
//	@Description	Redeems a refresh token for a new access/refresh pair. The presented
//	@Description	refresh token is consumed; its replacement is returned. Replaying a
//	@Description	consumed token revokes every session of the owning account.
//	@Tags			OAuth2
//	@Accept			application/x-www-form-urlencoded
//	@Produce		json
//	@Param			grant_type		formData	string					true	"Grant type"	Enums(refresh_token)
//	@Param			refresh_token	formData	string					false	"Refresh token (falls back to the refresh cookie)"
//	@Success		200				{object}	authsdk.TokenResponse	"access_token, refresh_token, token_type, expires_in"
//	@Failure		400				{object}	authsdk.OAuth2Error		"error, error_description"
//	@Failure		401				{object}	authsdk.OAuth2Error		"error, error_description"
//	@Failure		500				{object}	authsdk.OAuth2Error		"error, error_description"
//	@Header			200				{string}	Cache-Control			"no-store"
//	@Header			200				{string}	Pragma					"no-cache"
//	@Router			/v1/token [post].
func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// 1. Ensure the right content-type
	if ct := r.Header.Get("Content-Type"); ct != "" &&
		!strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		authsdk.ErrInvalidContentType.WriteError(w)
		return
	}

	// 2. Parse the form body
	if err := r.ParseForm(); err != nil {
		authsdk.ErrInvalidFormBody.WriteError(w)
		return
	}

	// 3. Handle the grant type
	switch r.Form.Get("grant_type") {
	case "refresh_token":
		h.handleRefreshGrant(w, r, r.Form)
	default:
		authsdk.ErrUnsupportedGrantType.WriteError(w)
	}
}

func (h *TokenHandler) handleRefreshGrant(w http.ResponseWriter, r *http.Request, form url.Values) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	refresh := refreshFromRequest(r)
	if refresh == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	pair, err := h.TokenService.RedeemAndRotate(ctx, refresh)
	if err != nil {
		if errors.Is(err, service.ErrAuthenticationDenied) {
			clearRefreshCookie(w, h.SecureCookies)
			authsdk.ErrInvalidGrant.WriteError(w)
			return
		}
		log.Error("refresh grant failed", "err", err)
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

// LogoutHandler serves POST /v1/logout. It revokes refresh tokens only;
// access tokens expire naturally. Revoking an unknown or already-revoked
// token still succeeds so logout cannot be used to probe token validity.
type LogoutHandler struct {
	TokenService  *service.TokenService
	SecureCookies bool
}

// ServeHTTP godoc
//
//	@Summary		Logout Endpoint
//	@Description	Revokes the presented refresh token, ending that session. The access
//	@Description	token minted alongside it remains valid until its natural expiry.
//	@Description	Idempotent: unknown or already-revoked tokens return 204 as well.
//	@Tags			OAuth2
//	@Accept			application/x-www-form-urlencoded
//	@Param			refresh_token	formData	string	false	"Refresh token (falls back to the refresh cookie)"
//	@Param			everywhere		formData	string	false	"When \"true\", revokes every session for the token's account"
//	@Success		204				"Session revoked (or was already)"
//	@Failure		400				{object}	authsdk.OAuth2Error	"error, error_description"
//	@Router			/v1/logout [post].
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if ct := r.Header.Get("Content-Type"); ct != "" &&
		!strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		authsdk.ErrInvalidContentType.WriteError(w)
		return
	}

	if err := r.ParseForm(); err != nil {
		authsdk.ErrInvalidFormBody.WriteError(w)
		return
	}

	refresh := refreshFromRequest(r)
	if refresh == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	revoke := h.TokenService.Revoke
	if r.PostFormValue("everywhere") == "true" {
		revoke = h.TokenService.RevokeEverywhere
	}
	if err := revoke(ctx, refresh); err != nil {
		// Logout stays 204 even when revocation fails server-side; the
		// client has discarded the token either way.
		log.Warn("logout revoke failed", "err", err)
	}

	clearRefreshCookie(w, h.SecureCookies)
	w.WriteHeader(http.StatusNoContent)
}
