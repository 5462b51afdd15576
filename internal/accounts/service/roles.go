package service

import (
	"context"
	"errors"

	"github.com/marinoscar/accountd/internal/accounts/domain"
	"github.com/marinoscar/accountd/internal/accounts/store"
)

// RolesService exposes the admin role-management surface.
type RolesService struct {
	Store store.Store
}

// RoleWithPermissions pairs a role with its granted permission names.
type RoleWithPermissions struct {
	Role        domain.Role
	Permissions []string
}

// ListAll returns every role with its permission names.
func (s *RolesService) ListAll(ctx context.Context) ([]RoleWithPermissions, error) {
	roles, err := s.Store.Roles().ListAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]RoleWithPermissions, 0, len(roles))
	for _, r := range roles {
		perms, err := s.Store.Roles().ListPermissionsForRole(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, RoleWithPermissions{Role: r, Permissions: perms})
	}
	return out, nil
}

// ListForAccount returns the roles currently assigned to an account.
func (s *RolesService) ListForAccount(ctx context.Context, accountID string) ([]domain.Role, error) {
	if _, err := s.Store.Accounts().GetAccountByID(ctx, accountID); err != nil {
		return nil, err
	}
	return s.Store.Roles().ListRolesForAccount(ctx, accountID)
}

// Assign grants the named role to an account. Assigning a role the account
// already holds is a no-op.
func (s *RolesService) Assign(ctx context.Context, accountID, roleName string) error {
	role, err := s.Store.Roles().GetRoleByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrMissingRole
		}
		return err
	}
	if _, err := s.Store.Accounts().GetAccountByID(ctx, accountID); err != nil {
		return err
	}

	err = s.Store.Roles().AssignRole(ctx, accountID, role.ID)
	if errors.Is(err, store.ErrAlreadyExists) {
		return nil
	}
	return err
}

// Unassign removes the named role from an account.
func (s *RolesService) Unassign(ctx context.Context, accountID, roleName string) error {
	role, err := s.Store.Roles().GetRoleByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrMissingRole
		}
		return err
	}
	return s.Store.Roles().UnassignRole(ctx, accountID, role.ID)
}
