package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/marinoscar/accountd/internal/accounts/domain"
	"github.com/marinoscar/accountd/internal/accounts/store"
	"github.com/marinoscar/accountd/pkg/idx"
	"github.com/marinoscar/accountd/pkg/slogx"
)

// ProvisionService turns a validated external-identity profile into a local
// account: on every successful sign-in it either finds the identity, links a
// new identity to an existing account by email, or creates a brand-new
// account with its identity, initial role and preferences in one transaction.
type ProvisionService struct {
	Store     store.Store
	Bootstrap *BootstrapPolicy

	// DefaultRole is the role name granted to new non-bootstrap accounts.
	DefaultRole string
}

// Provision resolves a profile to an account. It fails with
// ErrAuthenticationDenied when the resolved account is inactive, and with
// ErrMissingRole (rolling back everything) when the default role is absent.
func (s *ProvisionService) Provision(ctx context.Context, profile domain.Profile) (domain.Account, error) {
	l := slogx.FromContext(ctx)

	if err := profile.Validate(); err != nil {
		l.Info("rejected incomplete identity profile",
			slog.String("provider", profile.Provider),
			slog.Any("error", err),
		)
		return domain.Account{}, ErrAuthenticationDenied
	}

	var account domain.Account

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		account, err = s.resolve(ctx, tx, profile)
		return err
	})
	if err != nil {
		return domain.Account{}, err
	}

	// The active check happens after resolution so a returning-but-disabled
	// account is denied without any visible difference from other failures.
	if !account.Active {
		l.Info("sign-in denied for inactive account", slog.String("account_id", account.ID))
		return domain.Account{}, ErrAuthenticationDenied
	}

	return account, nil
}

func (s *ProvisionService) resolve(
	ctx context.Context,
	tx store.Tx,
	profile domain.Profile,
) (domain.Account, error) {
	l := slogx.FromContext(ctx)

	// 1. Known identity: refresh the provider-sourced display fields. The
	// local overrides are separate columns and stay untouched.
	identity, err := tx.Identities().GetIdentityByProviderSubject(ctx, profile.Provider, profile.Subject)
	if err == nil {
		if err := tx.Accounts().UpdateProviderProfile(ctx, identity.AccountID, profile.DisplayName, profile.AvatarURL); err != nil {
			return domain.Account{}, err
		}
		if identity.Email != profile.Email {
			if err := tx.Identities().UpdateIdentityEmail(ctx, identity.ID, profile.Email); err != nil {
				return domain.Account{}, err
			}
		}
		return tx.Accounts().GetAccountByID(ctx, identity.AccountID)
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.Account{}, err
	}

	// 2. Known email, new provider: link a new identity to the existing
	// account. Role assignments are not touched, linking an identity must
	// never alter authorization.
	account, err := tx.Accounts().GetAccountByEmail(ctx, profile.Email)
	if err == nil {
		if err := s.linkIdentity(ctx, tx, account.ID, profile); err != nil {
			return domain.Account{}, err
		}
		l.Info("linked new identity to existing account",
			slog.String("account_id", account.ID),
			slog.String("provider", profile.Provider),
		)
		return tx.Accounts().GetAccountByID(ctx, account.ID)
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.Account{}, err
	}

	// 3. First time we see this person: create everything atomically.
	return s.createAccount(ctx, tx, profile)
}

func (s *ProvisionService) linkIdentity(
	ctx context.Context,
	tx store.Tx,
	accountID string,
	profile domain.Profile,
) error {
	if err := tx.Identities().CreateIdentity(ctx, domain.Identity{
		ID:        idx.New().String(),
		AccountID: accountID,
		Provider:  profile.Provider,
		Subject:   profile.Subject,
		Email:     profile.Email,
	}); err != nil {
		return err
	}
	return tx.Accounts().UpdateProviderProfile(ctx, accountID, profile.DisplayName, profile.AvatarURL)
}

func (s *ProvisionService) createAccount(
	ctx context.Context,
	tx store.Tx,
	profile domain.Profile,
) (domain.Account, error) {
	l := slogx.FromContext(ctx)

	roleName := s.DefaultRole
	if roleName == "" {
		roleName = domain.RoleViewer
	}

	grantAdmin, err := s.Bootstrap.ShouldGrantAdmin(ctx, tx, profile.Email)
	if err != nil {
		return domain.Account{}, err
	}
	if grantAdmin {
		roleName = domain.RoleAdmin
	}

	role, err := tx.Roles().GetRoleByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Fatal misconfiguration: abort so no partial account persists.
			l.Error("initial role missing from store", slog.String("role", roleName))
			return domain.Account{}, ErrMissingRole
		}
		return domain.Account{}, err
	}

	account := domain.Account{
		ID:                  idx.New().String(),
		Email:               profile.Email,
		ProviderDisplayName: profile.DisplayName,
		ProviderAvatarURL:   profile.AvatarURL,
		Active:              true,
	}

	if err := tx.Accounts().CreateAccount(ctx, account); err != nil {
		return domain.Account{}, err
	}
	if err := tx.Identities().CreateIdentity(ctx, domain.Identity{
		ID:        idx.New().String(),
		AccountID: account.ID,
		Provider:  profile.Provider,
		Subject:   profile.Subject,
		Email:     profile.Email,
	}); err != nil {
		return domain.Account{}, err
	}
	if err := tx.Roles().AssignRole(ctx, account.ID, role.ID); err != nil {
		return domain.Account{}, err
	}
	if err := tx.Preferences().CreatePreferences(ctx, domain.DefaultPreferences(account.ID)); err != nil {
		return domain.Account{}, err
	}

	l.Info("provisioned new account",
		slog.String("account_id", account.ID),
		slog.String("provider", profile.Provider),
		slog.String("role", role.Name),
	)
	return account, nil
}
