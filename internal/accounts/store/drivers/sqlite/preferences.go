package sqlite

import (
	"context"

	"github.com/marinoscar/accountd/internal/accounts/domain"
)

type preferencesRepo struct {
	db dbtx
}

func (r *preferencesRepo) GetPreferences(ctx context.Context, accountID string) (domain.Preferences, error) {
	var p domain.Preferences
	err := r.db.QueryRowContext(ctx, `
		SELECT account_id, timezone, locale, theme, updated_at
		FROM preferences WHERE account_id = ?`,
		accountID,
	).Scan(&p.AccountID, &p.Timezone, &p.Locale, &p.Theme, &p.UpdatedAt)
	if err != nil {
		return domain.Preferences{}, mapNotFound(err)
	}
	return p, nil
}

func (r *preferencesRepo) CreatePreferences(ctx context.Context, p domain.Preferences) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO preferences (account_id, timezone, locale, theme)
		VALUES (?, ?, ?, ?)`,
		p.AccountID, p.Timezone, p.Locale, p.Theme,
	)
	return mapConflict(err)
}

func (r *preferencesRepo) UpdatePreferences(ctx context.Context, p domain.Preferences) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE preferences
		SET timezone = ?, locale = ?, theme = ?, updated_at = CURRENT_TIMESTAMP
		WHERE account_id = ?`,
		p.Timezone, p.Locale, p.Theme, p.AccountID,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}
