package sqlite

import (
	"context"
	"database/sql"

	"github.com/marinoscar/accountd/internal/accounts/domain"
)

type accountsRepo struct {
	db dbtx
}

func scanAccount(row interface{ Scan(...any) error }) (domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.ID,
		&a.Email,
		&a.DisplayName,
		&a.AvatarURL,
		&a.ProviderDisplayName,
		&a.ProviderAvatarURL,
		&a.Active,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return domain.Account{}, err
	}
	return a, nil
}

const accountColumns = `id, email, display_name, avatar_url,
	provider_display_name, provider_avatar_url, active, created_at, updated_at`

func (r *accountsRepo) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	a, err := scanAccount(r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id))
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return a, nil
}

func (r *accountsRepo) GetAccountByEmail(ctx context.Context, email string) (domain.Account, error) {
	// The email column collates NOCASE, so this match is case-insensitive.
	a, err := scanAccount(r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = ?`, email))
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return a, nil
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (id, email, display_name, avatar_url,
			provider_display_name, provider_avatar_url, active)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Email, a.DisplayName, a.AvatarURL,
		a.ProviderDisplayName, a.ProviderAvatarURL, a.Active,
	)
	return mapConflict(err)
}

func (r *accountsRepo) UpdateProviderProfile(ctx context.Context, accountID, displayName, avatarURL string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET provider_display_name = ?, provider_avatar_url = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		displayName, avatarURL, accountID,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *accountsRepo) UpdateDisplayName(ctx context.Context, accountID, displayName string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET display_name = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		displayName, accountID,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *accountsRepo) SetActive(ctx context.Context, accountID string, active bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET active = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		active, accountID,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *accountsRepo) HasActiveAccountWithRole(ctx context.Context, roleName string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM accounts a
		JOIN role_assignments ra ON ra.account_id = a.id
		JOIN roles r ON r.id = ra.role_id
		WHERE a.active = 1 AND r.name = ?`,
		roleName,
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *accountsRepo) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// requireRowAffected converts a zero-row UPDATE into store.ErrNotFound.
func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return mapNotFound(sql.ErrNoRows)
	}
	return nil
}
