package service

import (
	"context"
	"testing"

	"github.com/marinoscar/accountd/internal/accounts/domain"
	"github.com/marinoscar/accountd/internal/accounts/store"
	"github.com/stretchr/testify/require"
)

func TestProvisionCreatesAccountWithIdentityRoleAndPreferences(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTestProvisioner(st)

	account, err := svc.Provision(ctx, googleProfile("sub-1", "alice@example.com", "Alice"))
	require.NoError(t, err)
	require.True(t, account.Active)
	require.Equal(t, "alice@example.com", account.Email)
	require.Equal(t, "Alice", account.ProviderDisplayName)
	require.Empty(t, account.DisplayName) // no override yet
	require.Equal(t, "Alice", account.EffectiveDisplayName())

	identities, err := st.Identities().ListIdentitiesByAccount(ctx, account.ID)
	require.NoError(t, err)
	require.Len(t, identities, 1)
	require.Equal(t, "google", identities[0].Provider)
	require.Equal(t, "sub-1", identities[0].Subject)

	roles, err := st.Roles().ListRolesForAccount(ctx, account.ID)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	require.Equal(t, domain.RoleViewer, roles[0].Name)

	prefs, err := st.Preferences().GetPreferences(ctx, account.ID)
	require.NoError(t, err)
	require.Equal(t, "UTC", prefs.Timezone)
}

func TestProvisionIsIdempotentForKnownIdentity(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTestProvisioner(st)

	first, err := svc.Provision(ctx, googleProfile("sub-1", "alice@example.com", "Alice"))
	require.NoError(t, err)

	second, err := svc.Provision(ctx, googleProfile("sub-1", "alice@example.com", "Alice G."))
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, "Alice G.", second.ProviderDisplayName)

	identities, err := st.Identities().ListIdentitiesByAccount(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, identities, 1)
}

func TestProvisionRefreshesIdentityEmailMirror(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTestProvisioner(st)

	account, err := svc.Provision(ctx, googleProfile("sub-1", "alice@example.com", "Alice"))
	require.NoError(t, err)

	// Same identity comes back with a changed provider-side email. The
	// mirror follows; the account email (the linking key) does not.
	_, err = svc.Provision(ctx, googleProfile("sub-1", "alice@newcorp.example", "Alice"))
	require.NoError(t, err)

	identities, err := st.Identities().ListIdentitiesByAccount(ctx, account.ID)
	require.NoError(t, err)
	require.Len(t, identities, 1)
	require.Equal(t, "alice@newcorp.example", identities[0].Email)

	refreshed, err := st.Accounts().GetAccountByID(ctx, account.ID)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", refreshed.Email)
}

func TestProvisionNeverClobbersLocalOverride(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTestProvisioner(st)

	account, err := svc.Provision(ctx, googleProfile("sub-1", "alice@example.com", "Alice"))
	require.NoError(t, err)

	require.NoError(t, st.Accounts().UpdateDisplayName(ctx, account.ID, "Ally"))

	refreshed, err := svc.Provision(ctx, googleProfile("sub-1", "alice@example.com", "Alice Gordon"))
	require.NoError(t, err)
	require.Equal(t, "Ally", refreshed.DisplayName)
	require.Equal(t, "Alice Gordon", refreshed.ProviderDisplayName)
	require.Equal(t, "Ally", refreshed.EffectiveDisplayName())
}

func TestProvisionLinksIdentityWithoutAlteringAuthorization(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTestProvisioner(st)

	// Existing account with the contributor role and a GitHub identity.
	account, err := svc.Provision(ctx, domain.Profile{
		Provider: "github", Subject: "gh-7", Email: "bob@example.com", DisplayName: "Bob",
	})
	require.NoError(t, err)

	viewer, err := st.Roles().GetRoleByName(ctx, domain.RoleViewer)
	require.NoError(t, err)
	contributor, err := st.Roles().GetRoleByName(ctx, domain.RoleContributor)
	require.NoError(t, err)
	require.NoError(t, st.Roles().AssignRole(ctx, account.ID, contributor.ID))
	require.NoError(t, st.Roles().UnassignRole(ctx, account.ID, viewer.ID))

	// First Google login with the same email links, it must not re-provision.
	linked, err := svc.Provision(ctx, googleProfile("g-7", "bob@example.com", "Bob"))
	require.NoError(t, err)
	require.Equal(t, account.ID, linked.ID)

	identities, err := st.Identities().ListIdentitiesByAccount(ctx, account.ID)
	require.NoError(t, err)
	require.Len(t, identities, 2)

	roles, err := st.Roles().ListRolesForAccount(ctx, account.ID)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	require.Equal(t, domain.RoleContributor, roles[0].Name)
}

func TestProvisionLinksAcrossEmailCase(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTestProvisioner(st)

	account, err := svc.Provision(ctx, googleProfile("g-9", "person@example.com", "Person"))
	require.NoError(t, err)

	// Providers disagree on email casing; the account is still the same
	// person and must link, not duplicate.
	linked, err := svc.Provision(ctx, domain.Profile{
		Provider: "github", Subject: "gh-9", Email: "Person@Example.com", DisplayName: "Person",
	})
	require.NoError(t, err)
	require.Equal(t, account.ID, linked.ID)

	identities, err := st.Identities().ListIdentitiesByAccount(ctx, account.ID)
	require.NoError(t, err)
	require.Len(t, identities, 2)
}

func TestProvisionAdminBootstrapExclusivity(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTestProvisioner(st)

	// First login with the bootstrap email gets admin.
	first, err := svc.Provision(ctx, googleProfile("sub-root", testBootstrapEmail, "Root"))
	require.NoError(t, err)

	roles, err := st.Roles().ListRolesForAccount(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, []string{domain.RoleAdmin}, roleNames(roles))

	// A different account does not get admin, even while the bootstrap email
	// stays configured.
	second, err := svc.Provision(ctx, googleProfile("sub-2", "carol@example.com", "Carol"))
	require.NoError(t, err)

	roles, err = st.Roles().ListRolesForAccount(ctx, second.ID)
	require.NoError(t, err)
	require.Equal(t, []string{domain.RoleViewer}, roleNames(roles))
}

func TestProvisionBootstrapSkippedWhenActiveAdminExists(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTestProvisioner(st)

	first, err := svc.Provision(ctx, googleProfile("sub-root", testBootstrapEmail, "Root"))
	require.NoError(t, err)

	// Deactivate the admin: the policy only counts active admins, so the
	// next bootstrap-email login may claim the role again.
	require.NoError(t, st.Accounts().SetActive(ctx, first.ID, false))

	svc.Bootstrap.AdminEmail = "root2@example.com"
	second, err := svc.Provision(ctx, googleProfile("sub-root2", "root2@example.com", "Root Two"))
	require.NoError(t, err)

	roles, err := st.Roles().ListRolesForAccount(ctx, second.ID)
	require.NoError(t, err)
	require.Equal(t, []string{domain.RoleAdmin}, roleNames(roles))
}

func TestProvisionInactiveAccountDenied(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTestProvisioner(st)

	account, err := svc.Provision(ctx, googleProfile("sub-1", "alice@example.com", "Alice"))
	require.NoError(t, err)
	require.NoError(t, st.Accounts().SetActive(ctx, account.ID, false))

	_, err = svc.Provision(ctx, googleProfile("sub-1", "alice@example.com", "Alice"))
	require.ErrorIs(t, err, ErrAuthenticationDenied)
}

func TestProvisionMissingDefaultRoleRollsBackEverything(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTestProvisioner(st)
	svc.DefaultRole = "nonexistent"

	_, err := svc.Provision(ctx, googleProfile("sub-1", "alice@example.com", "Alice"))
	require.ErrorIs(t, err, ErrMissingRole)

	// No partial account may persist.
	_, err = st.Accounts().GetAccountByEmail(ctx, "alice@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = st.Identities().GetIdentityByProviderSubject(ctx, "google", "sub-1")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestProvisionRejectsIncompleteProfile(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTestProvisioner(st)

	_, err := svc.Provision(ctx, domain.Profile{Provider: "google", Subject: "sub-1"})
	require.ErrorIs(t, err, ErrAuthenticationDenied)

	_, err = svc.Provision(ctx, domain.Profile{Provider: "google", Email: "a@example.com"})
	require.ErrorIs(t, err, ErrAuthenticationDenied)
}
