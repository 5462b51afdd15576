package service

import (
	"context"
	"errors"
	"slices"

	"github.com/marinoscar/accountd/internal/accounts/store"
)

// AuthzService answers role and permission questions from live store state.
// It never trusts the role snapshot embedded in an access token: role edits
// must take effect for permission-gated operations without forcing
// re-authentication. It implements httpx.PermissionResolver.
type AuthzService struct {
	Store store.Store
}

// EffectivePermissions returns the union of permission names across all of
// the account's assigned roles. An inactive or unknown account has none.
func (s *AuthzService) EffectivePermissions(ctx context.Context, accountID string) ([]string, error) {
	active, err := s.accountActive(ctx, accountID)
	if err != nil || !active {
		return nil, err
	}
	return s.Store.Roles().ListPermissionsForAccount(ctx, accountID)
}

// HasAnyRole reports whether the account currently holds at least one of the
// required roles (OR semantics).
func (s *AuthzService) HasAnyRole(ctx context.Context, accountID string, required ...string) (bool, error) {
	active, err := s.accountActive(ctx, accountID)
	if err != nil || !active {
		return false, err
	}

	roles, err := s.Store.Roles().ListRolesForAccount(ctx, accountID)
	if err != nil {
		return false, err
	}
	for _, r := range roles {
		if slices.Contains(required, r.Name) {
			return true, nil
		}
	}
	return false, nil
}

// HasAllPermissions reports whether the account's effective permission set
// covers every required permission (AND semantics).
func (s *AuthzService) HasAllPermissions(ctx context.Context, accountID string, required ...string) (bool, error) {
	perms, err := s.EffectivePermissions(ctx, accountID)
	if err != nil {
		return false, err
	}
	for _, want := range required {
		if !slices.Contains(perms, want) {
			return false, nil
		}
	}
	return true, nil
}

// accountActive treats an unknown account the same as an inactive one: the
// check denies, it does not error.
func (s *AuthzService) accountActive(ctx context.Context, accountID string) (bool, error) {
	account, err := s.Store.Accounts().GetAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return account.Active, nil
}
