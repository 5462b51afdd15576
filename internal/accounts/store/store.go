package store

import (
	"context"
	"errors"
	"time"

	"github.com/marinoscar/accountd/internal/accounts/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrAlreadyRevoked is returned by RevokeRefreshToken when the row exists
	// but its revoked_at is already set. Distinguishing this from ErrNotFound
	// matters: it is the reuse signal that triggers family-wide revocation.
	ErrAlreadyRevoked = errors.New("store: already revoked")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable. We can change having the sub-repos as methods later but we do it
// now so we can have more control and actively stop people from accidently
// doing transactions within transactions.
type Store interface {
	Accounts() Accounts
	Identities() Identities
	Roles() Roles
	RefreshTokens() RefreshTokens
	Preferences() Preferences
	SigningKeys() SigningKeys

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// Use it for multi-step operations that must be atomic (e.g., refresh rotation).
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// This is the recommended way to handle transactions as it automatically
	// handles commit/rollback logic.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources (optional for sqlite).
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Accounts interface {
	// GetAccountByID returns an account by id.
	GetAccountByID(ctx context.Context, id string) (domain.Account, error)

	// GetAccountByEmail is used during provisioning to link a new identity
	// to an existing account.
	GetAccountByEmail(ctx context.Context, email string) (domain.Account, error)

	// CreateAccount inserts a new account (id is provided by app via ULID).
	CreateAccount(ctx context.Context, a domain.Account) error

	// UpdateProviderProfile refreshes the provider-sourced display fields on
	// sign-in. The local overrides are never touched here.
	UpdateProviderProfile(ctx context.Context, accountID, displayName, avatarURL string) error

	// UpdateDisplayName sets the local display name override. An empty value
	// clears the override back to the provider-supplied name.
	UpdateDisplayName(ctx context.Context, accountID, displayName string) error

	// SetActive flips the active flag. Deactivation blocks sign-in, refresh
	// and authorization; rows are never hard-deleted here.
	SetActive(ctx context.Context, accountID string, active bool) error

	// HasActiveAccountWithRole reports whether any active account currently
	// holds the named role. Used by the admin bootstrap policy.
	HasActiveAccountWithRole(ctx context.Context, roleName string) (bool, error)

	// ListAccounts returns all accounts ordered by creation date (newest first).
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

type Identities interface {
	// GetIdentityByProviderSubject looks up the unique (provider, subject) pair.
	GetIdentityByProviderSubject(ctx context.Context, provider, subject string) (domain.Identity, error)

	// CreateIdentity inserts a new identity link (id is ULID).
	CreateIdentity(ctx context.Context, i domain.Identity) error

	// UpdateIdentityEmail refreshes the denormalized email mirror, the one
	// identity field that tracks the provider across sign-ins.
	UpdateIdentityEmail(ctx context.Context, id, email string) error

	// ListIdentitiesByAccount returns all identities linked to an account.
	ListIdentitiesByAccount(ctx context.Context, accountID string) ([]domain.Identity, error)
}

type Roles interface {
	// GetRoleByID fetches a role by its ID.
	GetRoleByID(ctx context.Context, id string) (domain.Role, error)

	// GetRoleByName fetches a role by its name (for bootstrap and admin ops).
	GetRoleByName(ctx context.Context, name string) (domain.Role, error)

	// ListAll returns all roles in the system.
	ListAll(ctx context.Context) ([]domain.Role, error)

	// ListRolesForAccount returns the roles currently assigned to an account.
	ListRolesForAccount(ctx context.Context, accountID string) ([]domain.Role, error)

	// ListPermissionsForAccount returns the union of permission names across
	// all of the account's assigned roles. Duplicates collapse in SQL.
	ListPermissionsForAccount(ctx context.Context, accountID string) ([]string, error)

	// ListPermissionsForRole returns the permission names granted by one role.
	ListPermissionsForRole(ctx context.Context, roleID string) ([]string, error)

	// AssignRole binds an account to a role. Assigning an already-held role
	// returns ErrAlreadyExists.
	AssignRole(ctx context.Context, accountID, roleID string) error

	// UnassignRole removes a role from an account.
	UnassignRole(ctx context.Context, accountID, roleID string) error
}

type RefreshTokens interface {
	// CreateRefreshToken stores a new refresh token record.
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error

	// GetRefreshTokenByHash returns the token by its fingerprint (SHA-256).
	GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error)

	// RevokeRefreshToken sets revoked_at, but only when it is still NULL.
	// Returns ErrAlreadyRevoked when the row exists and was already revoked,
	// so two concurrent redemptions of one secret resolve to a single winner.
	RevokeRefreshToken(ctx context.Context, hash string) error

	// RevokeAllAccountRefreshTokens bulk-revokes every live token for an
	// account (logout-everywhere, reuse response). Already-revoked rows are
	// left untouched.
	RevokeAllAccountRefreshTokens(ctx context.Context, accountID string) error

	// DeleteExpiredRefreshTokens removes rows past their expiry.
	DeleteExpiredRefreshTokens(ctx context.Context) error

	// DeleteRevokedRefreshTokensBefore removes rows revoked before the cutoff.
	// Rows revoked more recently are kept so reuse detection still fires.
	DeleteRevokedRefreshTokensBefore(ctx context.Context, cutoff time.Time) error
}

type Preferences interface {
	// GetPreferences returns the preferences row for an account.
	GetPreferences(ctx context.Context, accountID string) (domain.Preferences, error)

	// CreatePreferences inserts the row; called during provisioning.
	CreatePreferences(ctx context.Context, p domain.Preferences) error

	// UpdatePreferences replaces the row's settings and bumps updated_at.
	UpdatePreferences(ctx context.Context, p domain.Preferences) error
}

type SigningKeys interface {
	// CreateSigningKey stores a new signing key with encrypted private key material.
	CreateSigningKey(ctx context.Context, key domain.SigningKey) error

	// GetSigningKeyByKid fetches a signing key by its key identifier.
	GetSigningKeyByKid(ctx context.Context, kid string) (domain.SigningKey, error)

	// ListActiveSigningKeys returns all non-retired, non-expired signing keys
	// ordered by creation date (newest first).
	ListActiveSigningKeys(ctx context.Context) ([]domain.SigningKey, error)

	// ListAllSigningKeys returns all signing keys (including retired and expired)
	// ordered by creation date (newest first). Used for verification during grace period.
	ListAllSigningKeys(ctx context.Context) ([]domain.SigningKey, error)

	// RetireSigningKey marks a key as retired (sets retired_at timestamp).
	// Retired keys can still be used for verification but not for signing.
	RetireSigningKey(ctx context.Context, kid string) error

	// DeleteExpiredSigningKeys removes all keys that have passed their expires_at
	// timestamp. Housekeeping to prevent unbounded growth of the signing_keys table.
	DeleteExpiredSigningKeys(ctx context.Context) error
}
