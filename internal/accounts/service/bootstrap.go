package service

import (
	"context"
	"strings"

	"github.com/marinoscar/accountd/internal/accounts/domain"
	"github.com/marinoscar/accountd/internal/accounts/store"
)

// BootstrapPolicy decides whether a brand-new account gets the admin role.
// The rule: the account's email matches the configured bootstrap address AND
// no active account currently holds admin. The check runs inside the same
// transaction that creates the account, which narrows (but cannot fully
// close, SQLite offers no SELECT FOR UPDATE) the window between two
// simultaneous first-logins with the bootstrap address.
type BootstrapPolicy struct {
	// AdminEmail is the configured bootstrap address. Empty disables the
	// policy entirely: no account ever gets admin at provisioning time.
	AdminEmail string
}

// ShouldGrantAdmin evaluates the bootstrap rule against the given
// transaction-scoped store.
func (p *BootstrapPolicy) ShouldGrantAdmin(ctx context.Context, tx store.Tx, email string) (bool, error) {
	if p.AdminEmail == "" {
		return false, nil
	}
	if !strings.EqualFold(email, p.AdminEmail) {
		return false, nil
	}

	hasAdmin, err := tx.Accounts().HasActiveAccountWithRole(ctx, domain.RoleAdmin)
	if err != nil {
		return false, err
	}
	return !hasAdmin, nil
}
