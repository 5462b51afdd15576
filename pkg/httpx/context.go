package httpx

import (
	"context"
	"net/http"
)

// Middleware wraps an http.Handler with extra behaviour.
type Middleware func(http.Handler) http.Handler

type ctxKey string

const (
	CtxKeyAccountID ctxKey = "account_id"
	CtxKeyRoles     ctxKey = "roles"
	CtxKeyClaims    ctxKey = "claims" // full jwtx.Claims when needed
)

// AccountIDFromContext returns the authenticated account id, or "" when the
// request did not pass the authn middleware.
func AccountIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyAccountID).(string); ok {
		return v
	}
	return ""
}

func rolesFromCtx(ctx context.Context) []string {
	if v, ok := ctx.Value(CtxKeyRoles).([]string); ok {
		return v
	}
	return nil
}
