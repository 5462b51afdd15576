package domain

import "time"

// TokenPair is the result of issuance: the short-lived access token (JWT)
// and the opaque refresh token. The wire shape lives in authsdk.TokenResponse,
// which carries ExpiresIn as whole seconds.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string // typically "Bearer"
	ExpiresIn    time.Duration
}

// RefreshToken models the stored refresh token record in the DB. Only the
// SHA-256 fingerprint of the secret is persisted; the raw secret is handed
// out exactly once at issuance.
//
// A row moves through at most one transition: RevokedAt is set either by
// rotation (normal redeem) or by explicit revocation (logout, reuse response).
// Expiry is terminal but lazy, detected at redeem time.
type RefreshToken struct {
	ID        string
	AccountID string
	TokenHash string // deterministic fingerprint (base64url SHA-256)
	ExpiresAt time.Time
	RevokedAt *time.Time // nil while the token is still redeemable
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Revoked reports whether the row has been spent or explicitly revoked.
func (t *RefreshToken) Revoked() bool {
	return t.RevokedAt != nil
}

// Expired reports whether the row has passed its expiry.
func (t *RefreshToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}

// Redeemable reports whether the token can still be exchanged: not revoked
// and not expired. The account's active flag is checked separately since it
// lives on the account row.
func (t *RefreshToken) Redeemable(now time.Time) bool {
	return !t.Revoked() && !t.Expired(now)
}
