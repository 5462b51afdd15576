package domain

import "time"

// Account is a person known to the service. Accounts are never created
// directly: they are provisioned on first sign-in through an external
// identity provider and updated on every subsequent sign-in.
type Account struct {
	ID    string
	Email string

	// DisplayName and AvatarURL are the local overrides. When empty the
	// provider-supplied values below are the effective ones.
	DisplayName string
	AvatarURL   string

	// ProviderDisplayName and ProviderAvatarURL track what the identity
	// provider last reported. They are refreshed on every sign-in without
	// touching the overrides.
	ProviderDisplayName string
	ProviderAvatarURL   string

	// Active gates everything: an inactive account cannot sign in, refresh
	// or pass authorization, regardless of roles held.
	Active bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EffectiveDisplayName returns the override when set, otherwise the
// provider-supplied name.
func (a *Account) EffectiveDisplayName() string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return a.ProviderDisplayName
}

// EffectiveAvatarURL returns the override when set, otherwise the
// provider-supplied URL.
func (a *Account) EffectiveAvatarURL() string {
	if a.AvatarURL != "" {
		return a.AvatarURL
	}
	return a.ProviderAvatarURL
}

// Preferences holds an account's display settings. A row is created with
// defaults in the same transaction that provisions a new account.
type Preferences struct {
	AccountID string
	Timezone  string
	Locale    string
	Theme     string
	UpdatedAt time.Time
}

// DefaultPreferences returns the preferences written for a freshly
// provisioned account.
func DefaultPreferences(accountID string) Preferences {
	return Preferences{
		AccountID: accountID,
		Timezone:  "UTC",
		Locale:    "en",
		Theme:     "system",
	}
}
