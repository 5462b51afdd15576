package service

import (
	"context"
	"log/slog"

	"github.com/marinoscar/accountd/internal/accounts/domain"
	"github.com/marinoscar/accountd/internal/accounts/store"
	"github.com/marinoscar/accountd/pkg/slogx"
)

// AccountsService covers self-service profile operations and the admin
// account surface.
type AccountsService struct {
	Store store.Store
	Authz *AuthzService
	Token *TokenService
}

// UserInfo is the resolved view of an account: effective display fields plus
// live roles and permissions.
type UserInfo struct {
	Account     domain.Account
	Roles       []string
	Permissions []string
}

// GetUserInfo resolves the account's profile with live authorization state.
func (s *AccountsService) GetUserInfo(ctx context.Context, accountID string) (UserInfo, error) {
	account, err := s.Store.Accounts().GetAccountByID(ctx, accountID)
	if err != nil {
		return UserInfo{}, err
	}
	if !account.Active {
		return UserInfo{}, ErrAuthenticationDenied
	}

	roles, err := s.Store.Roles().ListRolesForAccount(ctx, accountID)
	if err != nil {
		return UserInfo{}, err
	}
	perms, err := s.Store.Roles().ListPermissionsForAccount(ctx, accountID)
	if err != nil {
		return UserInfo{}, err
	}

	return UserInfo{
		Account:     account,
		Roles:       roleNames(roles),
		Permissions: perms,
	}, nil
}

// UpdateDisplayName sets or clears (empty value) the local display name
// override. Provider syncs never touch it afterwards.
func (s *AccountsService) UpdateDisplayName(ctx context.Context, accountID, displayName string) error {
	return s.Store.Accounts().UpdateDisplayName(ctx, accountID, displayName)
}

// GetPreferences returns the account's preferences.
func (s *AccountsService) GetPreferences(ctx context.Context, accountID string) (domain.Preferences, error) {
	return s.Store.Preferences().GetPreferences(ctx, accountID)
}

// UpdatePreferences replaces the account's preferences.
func (s *AccountsService) UpdatePreferences(ctx context.Context, p domain.Preferences) error {
	return s.Store.Preferences().UpdatePreferences(ctx, p)
}

// ListAccounts returns all accounts, newest first. Admin only; the HTTP
// layer gates it on accounts.read.
func (s *AccountsService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return s.Store.Accounts().ListAccounts(ctx)
}

// SetActive flips the account's active flag. Deactivation also revokes every
// live refresh token so the account cannot come back through a refresh.
func (s *AccountsService) SetActive(ctx context.Context, accountID string, active bool) error {
	l := slogx.FromContext(ctx)

	if err := s.Store.Accounts().SetActive(ctx, accountID, active); err != nil {
		return err
	}

	if !active {
		if err := s.Token.RevokeAll(ctx, accountID); err != nil {
			l.Error("failed to revoke tokens for deactivated account",
				slog.Any("error", err),
				slog.String("account_id", accountID),
			)
			return err
		}
		l.Info("account deactivated", slog.String("account_id", accountID))
	}
	return nil
}

// ListIdentities returns the external identities linked to an account.
func (s *AccountsService) ListIdentities(ctx context.Context, accountID string) ([]domain.Identity, error) {
	return s.Store.Identities().ListIdentitiesByAccount(ctx, accountID)
}
