package service

import (
	"context"
	"testing"

	"github.com/marinoscar/accountd/internal/accounts/domain"
	"github.com/stretchr/testify/require"
)

func TestEffectivePermissionsIsUnionAcrossRoles(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	authz := &AuthzService{Store: st}
	account := provisionAccount(t, st, "alice@example.com")

	// viewer only: content.read
	perms, err := authz.EffectivePermissions(ctx, account.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"content.read"}, perms)

	// viewer + contributor: union with content.read deduplicated
	contributor, err := st.Roles().GetRoleByName(ctx, domain.RoleContributor)
	require.NoError(t, err)
	require.NoError(t, st.Roles().AssignRole(ctx, account.ID, contributor.ID))

	perms, err = authz.EffectivePermissions(ctx, account.ID)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"content.read", "content.write"}, perms)
}

func TestEffectivePermissionsOrderIndependent(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	authz := &AuthzService{Store: st}

	viewer, err := st.Roles().GetRoleByName(ctx, domain.RoleViewer)
	require.NoError(t, err)
	contributor, err := st.Roles().GetRoleByName(ctx, domain.RoleContributor)
	require.NoError(t, err)

	// Same roles assigned in opposite order on two accounts.
	a := provisionAccount(t, st, "a@example.com")
	require.NoError(t, st.Roles().AssignRole(ctx, a.ID, contributor.ID))

	b := provisionAccount(t, st, "b@example.com")
	require.NoError(t, st.Roles().UnassignRole(ctx, b.ID, viewer.ID))
	require.NoError(t, st.Roles().AssignRole(ctx, b.ID, contributor.ID))
	require.NoError(t, st.Roles().AssignRole(ctx, b.ID, viewer.ID))

	permsA, err := authz.EffectivePermissions(ctx, a.ID)
	require.NoError(t, err)
	permsB, err := authz.EffectivePermissions(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, permsA, permsB)
}

func TestHasAnyRoleOrSemantics(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	authz := &AuthzService{Store: st}
	account := provisionAccount(t, st, "alice@example.com")

	ok, err := authz.HasAnyRole(ctx, account.ID, domain.RoleAdmin, domain.RoleViewer)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = authz.HasAnyRole(ctx, account.ID, domain.RoleAdmin)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHasAllPermissionsAndSemantics(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	authz := &AuthzService{Store: st}
	account := provisionAccount(t, st, "alice@example.com")

	ok, err := authz.HasAllPermissions(ctx, account.ID, "content.read")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = authz.HasAllPermissions(ctx, account.ID, "content.read", "content.write")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestAuthzDeniesInactiveAndUnknownAccounts(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	authz := &AuthzService{Store: st}
	account := provisionAccount(t, st, "alice@example.com")

	require.NoError(t, st.Accounts().SetActive(ctx, account.ID, false))

	perms, err := authz.EffectivePermissions(ctx, account.ID)
	require.NoError(t, err)
	require.Empty(t, perms)

	ok, err := authz.HasAnyRole(ctx, account.ID, domain.RoleViewer)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = authz.HasAllPermissions(ctx, "no-such-account", "content.read")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRoleEditsTakeEffectWithoutReauth(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	authz := &AuthzService{Store: st}
	account := provisionAccount(t, st, "alice@example.com")

	ok, err := authz.HasAllPermissions(ctx, account.ID, "content.write")
	require.NoError(t, err)
	require.False(t, ok)

	// Grant contributor; the live resolver must see it immediately, no new
	// token required.
	contributor, err := st.Roles().GetRoleByName(ctx, domain.RoleContributor)
	require.NoError(t, err)
	require.NoError(t, st.Roles().AssignRole(ctx, account.ID, contributor.ID))

	ok, err = authz.HasAllPermissions(ctx, account.ID, "content.write")
	require.NoError(t, err)
	require.True(t, ok)
}
