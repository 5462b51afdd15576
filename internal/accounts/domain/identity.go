package domain

import (
	"fmt"
	"strings"
	"time"
)

// Identity links an account to one external identity provider login.
// The (Provider, Subject) pair is unique across the system; an account may
// hold several identities from different providers.
type Identity struct {
	ID        string
	AccountID string
	Provider  string // e.g. "google", "github"
	Subject   string // provider-scoped stable user identifier
	Email     string // provider-reported email at link time (denormalized mirror)
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile is what an identity provider tells us about a user after a
// successful sign-in. It is the input to provisioning.
type Profile struct {
	Provider    string
	Subject     string
	Email       string
	DisplayName string
	AvatarURL   string
}

// Validate checks that the profile carries the fields provisioning cannot
// proceed without. Display name and avatar are optional.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.Provider) == "" {
		return fmt.Errorf("profile: missing provider")
	}
	if strings.TrimSpace(p.Subject) == "" {
		return fmt.Errorf("profile: missing subject")
	}
	if strings.TrimSpace(p.Email) == "" {
		return fmt.Errorf("profile: missing email")
	}
	return nil
}
