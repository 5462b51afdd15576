package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/marinoscar/accountd/internal/accounts/oauth"
	"github.com/marinoscar/accountd/internal/accounts/service"
	"github.com/marinoscar/accountd/internal/accounts/store"
	"github.com/marinoscar/accountd/pkg/httpx"
	"github.com/marinoscar/accountd/pkg/jwtx"
	"github.com/marinoscar/accountd/pkg/slogx"

	_ "github.com/marinoscar/accountd/api/accounts" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys          *jwtx.KeySet
	verifier      jwtx.Verifier
	buildVersion  string
	startTime     time.Time
	logger        *slog.Logger
	secureCookies bool

	store            store.Store
	OAuth            *oauth.Manager
	ProvisionService *service.ProvisionService
	TokenService     *service.TokenService
	AccountsService  *service.AccountsService
	RolesService     *service.RolesService
	AuthzService     *service.AuthzService
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	buildVersion string,
	secureCookies bool,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:           http.NewServeMux(),
		keys:          keys,
		verifier:      verifier,
		buildVersion:  buildVersion,
		startTime:     time.Now(),
		secureCookies: secureCookies,
		store:         st,
		logger:        logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerLogin()
	r.registerToken()
	r.registerUserInfo()
	r.registerMe()
	r.registerRoles()
	r.registerAccounts()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Accountd API
//	@version		0.1.0
//	@description	Account provisioning and access service. Authentication is delegated to
//	@description	external identity providers; the service issues JWT access tokens and
//	@description	rotating refresh tokens, and resolves role-based authorization live.
//	@description
//	@description				Access tokens are signed with EdDSA or ES256 and can be verified using the JWKS endpoint.
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerLogin() {
	h := &LoginHandler{
		OAuth:            r.OAuth,
		ProvisionService: r.ProvisionService,
		TokenService:     r.TokenService,
		SecureCookies:    r.secureCookies,
	}

	// GET /login/{provider} - strict rate limit by IP (unauthenticated entry point)
	r.Mux.Handle("GET /v1/login/{provider}",
		httpx.Chain(http.HandlerFunc(h.HandleStart),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// GET /login/callback - strict rate limit by IP (provisioning happens here)
	r.Mux.Handle("GET /v1/login/callback",
		httpx.Chain(http.HandlerFunc(h.HandleCallback),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerToken() {
	// POST /token - strict rate limit by IP (refresh redemption)
	tokenHandler := &TokenHandler{
		TokenService:  r.TokenService,
		SecureCookies: r.secureCookies,
	}
	r.Mux.Handle("POST /v1/token",
		httpx.Chain(tokenHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /logout - moderate rate limit. Unauthenticated on purpose: an
	// expired access token must not block session revocation.
	logoutHandler := &LogoutHandler{
		TokenService:  r.TokenService,
		SecureCookies: r.secureCookies,
	}
	r.Mux.Handle("POST /v1/logout",
		httpx.Chain(logoutHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// GET /jwks.json - public endpoint with high limit
	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerUserInfo() {
	h := &UserInfoHandler{AccountsService: r.AccountsService}

	// Authenticated endpoint - lenient rate limit by account
	secured := httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier), // verify JWT (iss/aud/exp)
		httpx.RateLimitByAccount(httpx.LenientLimit),
	)

	r.Mux.Handle("GET /v1/userinfo", secured)
}

func (r *Router) registerMe() {
	h := &MeHandler{AccountsService: r.AccountsService}

	securedName := httpx.Chain(http.HandlerFunc(h.HandleUpdateDisplayName),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimitByAccount(httpx.ModerateLimit),
	)

	securedGetPrefs := httpx.Chain(http.HandlerFunc(h.HandleGetPreferences),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimitByAccount(httpx.LenientLimit),
	)

	securedPutPrefs := httpx.Chain(http.HandlerFunc(h.HandleUpdatePreferences),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimitByAccount(httpx.ModerateLimit),
	)

	securedIdentities := httpx.Chain(http.HandlerFunc(h.HandleListIdentities),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimitByAccount(httpx.LenientLimit),
	)

	r.Mux.Handle("PUT /v1/me/display-name", securedName)
	r.Mux.Handle("GET /v1/me/preferences", securedGetPrefs)
	r.Mux.Handle("PUT /v1/me/preferences", securedPutPrefs)
	r.Mux.Handle("GET /v1/me/identities", securedIdentities)
}

func (r *Router) registerRoles() {
	h := &RolesHandler{RolesService: r.RolesService}

	// GET /roles - listing the role catalog requires account read access
	securedList := httpx.Chain(http.HandlerFunc(h.HandleList),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequirePermissions(r.AuthzService, "accounts.read"),
		httpx.RateLimitByAccount(httpx.ModerateLimit),
	)

	// Role assignment endpoints require the roles.assign permission,
	// resolved live so a demoted admin loses access before token expiry.
	securedAssign := httpx.Chain(http.HandlerFunc(h.HandleAssign),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequirePermissions(r.AuthzService, "roles.assign"),
		httpx.RateLimitByAccount(httpx.ModerateLimit),
	)

	securedUnassign := httpx.Chain(http.HandlerFunc(h.HandleUnassign),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequirePermissions(r.AuthzService, "roles.assign"),
		httpx.RateLimitByAccount(httpx.ModerateLimit),
	)

	r.Mux.Handle("GET /v1/roles", securedList)
	r.Mux.Handle("POST /v1/accounts/{id}/roles", securedAssign)
	r.Mux.Handle("DELETE /v1/accounts/{id}/roles/{role}", securedUnassign)
}

func (r *Router) registerAccounts() {
	h := &AccountsAdminHandler{AccountsService: r.AccountsService}

	securedList := httpx.Chain(http.HandlerFunc(h.HandleList),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequirePermissions(r.AuthzService, "accounts.read"),
		httpx.RateLimitByAccount(httpx.ModerateLimit),
	)

	securedActivate := httpx.Chain(http.HandlerFunc(h.HandleActivate),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequirePermissions(r.AuthzService, "accounts.manage"),
		httpx.RateLimitByAccount(httpx.ModerateLimit),
	)

	securedDeactivate := httpx.Chain(http.HandlerFunc(h.HandleDeactivate),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequirePermissions(r.AuthzService, "accounts.manage"),
		httpx.RateLimitByAccount(httpx.ModerateLimit),
	)

	r.Mux.Handle("GET /v1/accounts", securedList)
	r.Mux.Handle("POST /v1/accounts/{id}/activate", securedActivate)
	r.Mux.Handle("POST /v1/accounts/{id}/deactivate", securedDeactivate)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
