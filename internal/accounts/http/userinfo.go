package http

import (
	"errors"
	"net/http"

	"github.com/marinoscar/accountd/internal/accounts/service"
	"github.com/marinoscar/accountd/pkg/authsdk"
	"github.com/marinoscar/accountd/pkg/httpx"
	"github.com/marinoscar/accountd/pkg/slogx"
)

type UserInfoHandler struct {
	AccountsService *service.AccountsService
}

// ServeHTTP handles the UserInfo endpoint.
//
//	@Summary		Get account information
//	@Description	Returns the authenticated account's profile plus its current roles and
//	@Description	permissions. Authorization state is resolved live from role assignments,
//	@Description	not from the access token, so recent role changes are visible here first.
//	@Tags			OAuth2
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.UserInfoResponse	"Account information"
//	@Failure		401	{object}	authsdk.OAuth2Error			"Invalid or missing access token"
//	@Failure		500	{object}	authsdk.OAuth2Error			"Internal server error"
//	@Router			/v1/userinfo [get].
func (h *UserInfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	accountID := httpx.AccountIDFromContext(ctx)
	if accountID == "" {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	info, err := h.AccountsService.GetUserInfo(ctx, accountID)
	if err != nil {
		// A valid token for a deactivated account is treated like no token.
		if errors.Is(err, service.ErrAuthenticationDenied) {
			authsdk.ErrInvalidToken.WriteError(w)
			return
		}
		log.Warn("failed to load account", "account_id", accountID, "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	response := authsdk.UserInfoResponse{
		AccountID:   info.Account.ID,
		Email:       info.Account.Email,
		DisplayName: info.Account.EffectiveDisplayName(),
		AvatarURL:   info.Account.EffectiveAvatarURL(),
		Roles:       info.Roles,
		Permissions: info.Permissions,
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, response)
}
