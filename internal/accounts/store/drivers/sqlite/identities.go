package sqlite

import (
	"context"

	"github.com/marinoscar/accountd/internal/accounts/domain"
)

type identitiesRepo struct {
	db dbtx
}

func (r *identitiesRepo) GetIdentityByProviderSubject(
	ctx context.Context,
	provider, subject string,
) (domain.Identity, error) {
	var i domain.Identity
	err := r.db.QueryRowContext(ctx, `
		SELECT id, account_id, provider, subject, email, created_at, updated_at
		FROM identities
		WHERE provider = ? AND subject = ?`,
		provider, subject,
	).Scan(&i.ID, &i.AccountID, &i.Provider, &i.Subject, &i.Email, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return domain.Identity{}, mapNotFound(err)
	}
	return i, nil
}

func (r *identitiesRepo) CreateIdentity(ctx context.Context, i domain.Identity) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO identities (id, account_id, provider, subject, email)
		VALUES (?, ?, ?, ?, ?)`,
		i.ID, i.AccountID, i.Provider, i.Subject, i.Email,
	)
	return mapConflict(err)
}

func (r *identitiesRepo) UpdateIdentityEmail(ctx context.Context, id, email string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE identities
		SET email = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		email, id,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *identitiesRepo) ListIdentitiesByAccount(
	ctx context.Context,
	accountID string,
) ([]domain.Identity, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, account_id, provider, subject, email, created_at, updated_at
		FROM identities
		WHERE account_id = ?
		ORDER BY created_at ASC`,
		accountID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var identities []domain.Identity
	for rows.Next() {
		var i domain.Identity
		if err := rows.Scan(&i.ID, &i.AccountID, &i.Provider, &i.Subject, &i.Email, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, err
		}
		identities = append(identities, i)
	}
	return identities, rows.Err()
}
