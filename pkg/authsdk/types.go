package authsdk

// TokenResponse represents the token endpoint response per RFC 6749.
// This is returned from POST /v1/token for the refresh_token grant and,
// in JSON redirect mode, from the OAuth2 login callback.
type TokenResponse struct {
	// AccessToken is the JWT access token used to authenticate API requests
	AccessToken string `json:"access_token"`

	// RefreshToken is the opaque refresh token used to obtain new access tokens.
	// Every refresh rotates it; the previous value becomes invalid.
	RefreshToken string `json:"refresh_token,omitempty"`

	// TokenType is always "Bearer" per OAuth2 spec
	TokenType string `json:"token_type"`

	// ExpiresIn is the lifetime in seconds of the access token
	ExpiresIn int `json:"expires_in"`
}

// UserInfoResponse represents the GET /v1/userinfo response.
//
// Roles and Permissions are resolved live from current role assignments,
// not from the access token snapshot, so they reflect changes made after
// the token was minted.
type UserInfoResponse struct {
	// AccountID is the unique identifier for the account
	AccountID string `json:"account_id"`

	// Email is the account's email address as reported by the identity provider
	Email string `json:"email"`

	// DisplayName is the effective display name (local override when set,
	// otherwise the provider-supplied name)
	DisplayName string `json:"display_name"`

	// AvatarURL is the effective avatar URL, empty when none is known
	AvatarURL string `json:"avatar_url,omitempty"`

	// Roles lists the names of the account's assigned roles
	Roles []string `json:"roles"`

	// Permissions is the union of permissions granted by the assigned roles
	Permissions []string `json:"permissions"`
}

// RoleInfo describes a single role and the permissions it grants.
type RoleInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

// ListRolesResponse represents the GET /v1/roles response.
type ListRolesResponse struct {
	Roles []RoleInfo `json:"roles"`
}

// AccountSummary is a single entry in the admin account listing.
type AccountSummary struct {
	AccountID   string `json:"account_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Active      bool   `json:"active"`
	CreatedAt   string `json:"created_at"`
}

// ListAccountsResponse represents the GET /v1/accounts response.
type ListAccountsResponse struct {
	Accounts []AccountSummary `json:"accounts"`
}

// PreferencesResponse represents the GET /v1/me/preferences response and the
// PUT request body.
type PreferencesResponse struct {
	Timezone string `json:"timezone"`
	Locale   string `json:"locale"`
	Theme    string `json:"theme"`
}

// IdentityInfo describes one linked external identity.
type IdentityInfo struct {
	Provider string `json:"provider"`
	Subject  string `json:"subject"`
	Email    string `json:"email"`
}

// ListIdentitiesResponse represents the GET /v1/me/identities response.
type ListIdentitiesResponse struct {
	Identities []IdentityInfo `json:"identities"`
}

// JWKSResponse represents the JSON Web Key Set from /.well-known/jwks.json.
type JWKSResponse struct {
	Keys []JWK `json:"keys"`
}

// JWK is a single public key within a JWKS response. Only the members used
// by the service's signing algorithms (EdDSA and ES256) are represented.
type JWK struct {
	Kty string `json:"kty"`
	Crv string `json:"crv,omitempty"`
	Kid string `json:"kid,omitempty"`
	Alg string `json:"alg,omitempty"`
	Use string `json:"use,omitempty"`
	X   string `json:"x,omitempty"`
	Y   string `json:"y,omitempty"`
}

// HealthResponse represents the /livez and /readyz responses.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports per-dependency readiness. Only /readyz populates it.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}
