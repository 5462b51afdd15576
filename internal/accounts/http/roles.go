package http

import (
	"errors"
	"net/http"

	"github.com/marinoscar/accountd/internal/accounts/service"
	"github.com/marinoscar/accountd/internal/accounts/store"
	"github.com/marinoscar/accountd/pkg/authsdk"
	"github.com/marinoscar/accountd/pkg/httpx"
	"github.com/marinoscar/accountd/pkg/slogx"
)

type RolesHandler struct {
	RolesService *service.RolesService
}

// HandleList handles the list roles endpoint
//
//	@Summary		List all roles
//	@Description	Returns every role in the system with the permissions it grants.
//	@Description	Requires the accounts.read permission.
//	@Tags			Roles
//	@Produce		json
//	@Success		200	{object}	authsdk.ListRolesResponse	"List of roles"
//	@Failure		401	{object}	authsdk.OAuth2Error			"Unauthorized - missing or invalid token"
//	@Failure		403	{object}	authsdk.OAuth2Error			"Forbidden - missing required permission"
//	@Failure		500	{object}	authsdk.OAuth2Error			"Internal server error"
//	@Security		BearerAuth
//	@Router			/v1/roles [get].
func (h *RolesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	roles, err := h.RolesService.ListAll(ctx)
	if err != nil {
		log.Error("failed to list roles", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	response := authsdk.ListRolesResponse{
		Roles: make([]authsdk.RoleInfo, len(roles)),
	}
	for i, role := range roles {
		response.Roles[i] = authsdk.RoleInfo{
			ID:          role.Role.ID,
			Name:        role.Role.Name,
			Permissions: role.Permissions,
		}
	}

	httpx.WriteJSON(w, http.StatusOK, response)
}

// HandleAssign handles role assignment
//
//	@Summary		Assign a role
//	@Description	Grants the named role to the account. Assigning a role the account
//	@Description	already holds is a no-op. Takes effect on the next token issuance for
//	@Description	the token snapshot, and immediately for live authorization checks.
//	@Description	Requires the roles.assign permission.
//	@Tags			Roles
//	@Accept			application/x-www-form-urlencoded
//	@Param			id		path		string	true	"Account ID"
//	@Param			role	formData	string	true	"Role name"
//	@Success		204		"Role assigned"
//	@Failure		400		{object}	authsdk.OAuth2Error	"Unknown role or malformed request"
//	@Failure		401		{object}	authsdk.OAuth2Error	"Unauthorized"
//	@Failure		403		{object}	authsdk.OAuth2Error	"Forbidden"
//	@Failure		500		{object}	authsdk.OAuth2Error	"Internal server error"
//	@Security		BearerAuth
//	@Router			/v1/accounts/{id}/roles [post].
func (h *RolesHandler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	accountID := r.PathValue("id")
	if err := r.ParseForm(); err != nil {
		authsdk.ErrInvalidFormBody.WriteError(w)
		return
	}
	roleName := r.Form.Get("role")
	if accountID == "" || roleName == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.RolesService.Assign(ctx, accountID, roleName); err != nil {
		switch {
		case errors.Is(err, service.ErrMissingRole):
			authsdk.NewOAuth2Error(http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest,
				"unknown role").WriteError(w)
		case errors.Is(err, store.ErrNotFound):
			authsdk.NewOAuth2Error(http.StatusNotFound, authsdk.ErrorCodeInvalidRequest,
				"unknown account").WriteError(w)
		default:
			log.Error("role assignment failed", "account_id", accountID, "role", roleName, "err", err)
			authsdk.ErrServerError.WriteError(w)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleUnassign handles role removal
//
//	@Summary		Unassign a role
//	@Description	Removes the named role from the account. Outstanding access tokens keep
//	@Description	the role in their snapshot until expiry; live authorization checks see
//	@Description	the removal immediately. Requires the roles.assign permission.
//	@Tags			Roles
//	@Param			id		path	string	true	"Account ID"
//	@Param			role	path	string	true	"Role name"
//	@Success		204		"Role removed"
//	@Failure		401		{object}	authsdk.OAuth2Error	"Unauthorized"
//	@Failure		403		{object}	authsdk.OAuth2Error	"Forbidden"
//	@Failure		500		{object}	authsdk.OAuth2Error	"Internal server error"
//	@Security		BearerAuth
//	@Router			/v1/accounts/{id}/roles/{role} [delete].
func (h *RolesHandler) HandleUnassign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	accountID := r.PathValue("id")
	roleName := r.PathValue("role")
	if accountID == "" || roleName == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.RolesService.Unassign(ctx, accountID, roleName); err != nil {
		switch {
		case errors.Is(err, service.ErrMissingRole):
			authsdk.NewOAuth2Error(http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest,
				"unknown role").WriteError(w)
		default:
			log.Error("role removal failed", "account_id", accountID, "role", roleName, "err", err)
			authsdk.ErrServerError.WriteError(w)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
