package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/marinoscar/accountd/pkg/slogx"
)

// PermissionResolver answers live permission queries against the credential
// store. It is the trust boundary between the coarse role snapshot carried in
// an access token and the account's actual current grants: role edits take
// effect here without forcing re-authentication.
type PermissionResolver interface {
	HasAllPermissions(ctx context.Context, accountID string, required ...string) (bool, error)
}

// RequireAnyRole gates on the role snapshot embedded in the access token
// (OR semantics). This is cheap coarse gating only; write-gated operations
// must use RequirePermissions instead.
func RequireAnyRole(required ...string) Middleware {
	want := make(map[string]struct{}, len(required))
	for _, r := range required {
		want[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, role := range rolesFromCtx(r.Context()) {
				if _, ok := want[role]; ok {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeBearerRoleError(w, required...)
		})
	}
}

// RequirePermissions gates on a live permission resolve (AND semantics).
// The caller must hold every listed permission according to the store's
// current role assignments, not the token snapshot.
func RequirePermissions(resolver PermissionResolver, required ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			accountID := AccountIDFromContext(ctx)
			if accountID == "" {
				writeBearerError(w, "missing bearer token")
				return
			}

			ok, err := resolver.HasAllPermissions(ctx, accountID, required...)
			if err != nil {
				slogx.FromContext(ctx).Error("permission resolve failed", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			if !ok {
				writeBearerPermissionError(w, required...)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RFC 6750-compliant error response for insufficient privileges.
func writeBearerRoleError(w http.ResponseWriter, required ...string) {
	w.Header().
		Set("WWW-Authenticate", `Bearer error="insufficient_scope", scope="`+strings.Join(required, " ")+`"`)
	WriteJSON(w, http.StatusForbidden, map[string]string{
		"error":             "access_denied",
		"error_description": "missing required role",
	})
}

func writeBearerPermissionError(w http.ResponseWriter, required ...string) {
	w.Header().
		Set("WWW-Authenticate", `Bearer error="insufficient_scope", scope="`+strings.Join(required, " ")+`"`)
	WriteJSON(w, http.StatusForbidden, map[string]string{
		"error":             "access_denied",
		"error_description": "missing required permission",
	})
}
