package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/marinoscar/accountd/internal/accounts/domain"
	"github.com/marinoscar/accountd/internal/accounts/service"
	"github.com/marinoscar/accountd/internal/accounts/store"
	"github.com/marinoscar/accountd/pkg/authsdk"
	"github.com/marinoscar/accountd/pkg/httpx"
	"github.com/marinoscar/accountd/pkg/slogx"
)

// AccountsAdminHandler serves the permission-gated account administration
// endpoints.
type AccountsAdminHandler struct {
	AccountsService *service.AccountsService
}

// HandleList godoc
//
//	@Summary		List accounts
//	@Description	Returns every account with its activation state. Requires the
//	@Description	accounts.read permission.
//	@Tags			Accounts
//	@Produce		json
//	@Success		200	{object}	authsdk.ListAccountsResponse	"List of accounts"
//	@Failure		401	{object}	authsdk.OAuth2Error				"Unauthorized"
//	@Failure		403	{object}	authsdk.OAuth2Error				"Forbidden"
//	@Failure		500	{object}	authsdk.OAuth2Error				"Internal server error"
//	@Security		BearerAuth
//	@Router			/v1/accounts [get].
func (h *AccountsAdminHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	accounts, err := h.AccountsService.ListAccounts(ctx)
	if err != nil {
		log.Error("failed to list accounts", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	response := authsdk.ListAccountsResponse{
		Accounts: make([]authsdk.AccountSummary, len(accounts)),
	}
	for i, a := range accounts {
		response.Accounts[i] = authsdk.AccountSummary{
			AccountID:   a.ID,
			Email:       a.Email,
			DisplayName: a.EffectiveDisplayName(),
			Active:      a.Active,
			CreatedAt:   a.CreatedAt.UTC().Format(time.RFC3339),
		}
	}

	httpx.WriteJSON(w, http.StatusOK, response)
}

// HandleActivate godoc
//
//	@Summary		Activate an account
//	@Description	Re-enables a deactivated account. Requires the accounts.manage permission.
//	@Tags			Accounts
//	@Param			id	path	string	true	"Account ID"
//	@Success		204	"Account activated"
//	@Failure		401	{object}	authsdk.OAuth2Error	"Unauthorized"
//	@Failure		403	{object}	authsdk.OAuth2Error	"Forbidden"
//	@Failure		404	{object}	authsdk.OAuth2Error	"Unknown account"
//	@Failure		500	{object}	authsdk.OAuth2Error	"Internal server error"
//	@Security		BearerAuth
//	@Router			/v1/accounts/{id}/activate [post].
func (h *AccountsAdminHandler) HandleActivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

// HandleDeactivate godoc
//
//	@Summary		Deactivate an account
//	@Description	Disables an account and revokes all of its refresh tokens. Outstanding
//	@Description	access tokens still verify but live authorization checks deny them.
//	@Description	Requires the accounts.manage permission.
//	@Tags			Accounts
//	@Param			id	path	string	true	"Account ID"
//	@Success		204	"Account deactivated"
//	@Failure		401	{object}	authsdk.OAuth2Error	"Unauthorized"
//	@Failure		403	{object}	authsdk.OAuth2Error	"Forbidden"
//	@Failure		404	{object}	authsdk.OAuth2Error	"Unknown account"
//	@Failure		500	{object}	authsdk.OAuth2Error	"Internal server error"
//	@Security		BearerAuth
//	@Router			/v1/accounts/{id}/deactivate [post].
func (h *AccountsAdminHandler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

func (h *AccountsAdminHandler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	accountID := r.PathValue("id")
	if accountID == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.AccountsService.SetActive(ctx, accountID, active); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			authsdk.NewOAuth2Error(http.StatusNotFound, authsdk.ErrorCodeInvalidRequest,
				"unknown account").WriteError(w)
		default:
			log.Error("account activation change failed", "account_id", accountID, "active", active, "err", err)
			authsdk.ErrServerError.WriteError(w)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MeHandler serves the self-service endpoints for the authenticated account.
type MeHandler struct {
	AccountsService *service.AccountsService
}

// HandleUpdateDisplayName godoc
//
//	@Summary		Set display name override
//	@Description	Sets a local display name that takes precedence over the name reported
//	@Description	by the identity provider. An empty name clears the override.
//	@Tags			Me
//	@Accept			json
//	@Param			body	body	object{display_name=string}	true	"New display name"
//	@Success		204		"Display name updated"
//	@Failure		400		{object}	authsdk.OAuth2Error	"Malformed body"
//	@Failure		401		{object}	authsdk.OAuth2Error	"Unauthorized"
//	@Failure		500		{object}	authsdk.OAuth2Error	"Internal server error"
//	@Security		BearerAuth
//	@Router			/v1/me/display-name [put].
func (h *MeHandler) HandleUpdateDisplayName(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	accountID := httpx.AccountIDFromContext(ctx)
	if accountID == "" {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var body struct {
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	name := strings.TrimSpace(body.DisplayName)
	if err := h.AccountsService.UpdateDisplayName(ctx, accountID, name); err != nil {
		log.Error("display name update failed", "account_id", accountID, "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleGetPreferences godoc
//
//	@Summary		Get preferences
//	@Description	Returns the account's preference record (timezone, locale, theme).
//	@Tags			Me
//	@Produce		json
//	@Success		200	{object}	authsdk.PreferencesResponse	"Preferences"
//	@Failure		401	{object}	authsdk.OAuth2Error			"Unauthorized"
//	@Failure		500	{object}	authsdk.OAuth2Error			"Internal server error"
//	@Security		BearerAuth
//	@Router			/v1/me/preferences [get].
func (h *MeHandler) HandleGetPreferences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	accountID := httpx.AccountIDFromContext(ctx)
	if accountID == "" {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	prefs, err := h.AccountsService.GetPreferences(ctx, accountID)
	if err != nil {
		log.Error("preferences load failed", "account_id", accountID, "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.PreferencesResponse{
		Timezone: prefs.Timezone,
		Locale:   prefs.Locale,
		Theme:    prefs.Theme,
	})
}

// HandleUpdatePreferences godoc
//
//	@Summary		Update preferences
//	@Description	Replaces the account's preference record.
//	@Tags			Me
//	@Accept			json
//	@Param			body	body	authsdk.PreferencesResponse	true	"New preferences"
//	@Success		204		"Preferences updated"
//	@Failure		400		{object}	authsdk.OAuth2Error	"Malformed body"
//	@Failure		401		{object}	authsdk.OAuth2Error	"Unauthorized"
//	@Failure		500		{object}	authsdk.OAuth2Error	"Internal server error"
//	@Security		BearerAuth
//	@Router			/v1/me/preferences [put].
func (h *MeHandler) HandleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	accountID := httpx.AccountIDFromContext(ctx)
	if accountID == "" {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var body authsdk.PreferencesResponse
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	prefs := domain.Preferences{
		AccountID: accountID,
		Timezone:  strings.TrimSpace(body.Timezone),
		Locale:    strings.TrimSpace(body.Locale),
		Theme:     strings.TrimSpace(body.Theme),
	}
	if err := h.AccountsService.UpdatePreferences(ctx, prefs); err != nil {
		log.Error("preferences update failed", "account_id", accountID, "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleListIdentities godoc
//
//	@Summary		List linked identities
//	@Description	Returns the external identities linked to the authenticated account.
//	@Tags			Me
//	@Produce		json
//	@Success		200	{object}	authsdk.ListIdentitiesResponse	"Linked identities"
//	@Failure		401	{object}	authsdk.OAuth2Error				"Unauthorized"
//	@Failure		500	{object}	authsdk.OAuth2Error				"Internal server error"
//	@Security		BearerAuth
//	@Router			/v1/me/identities [get].
func (h *MeHandler) HandleListIdentities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	accountID := httpx.AccountIDFromContext(ctx)
	if accountID == "" {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	identities, err := h.AccountsService.ListIdentities(ctx, accountID)
	if err != nil {
		log.Error("identities load failed", "account_id", accountID, "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	response := authsdk.ListIdentitiesResponse{
		Identities: make([]authsdk.IdentityInfo, len(identities)),
	}
	for i, id := range identities {
		response.Identities[i] = authsdk.IdentityInfo{
			Provider: id.Provider,
			Subject:  id.Subject,
			Email:    id.Email,
		}
	}

	httpx.WriteJSON(w, http.StatusOK, response)
}
