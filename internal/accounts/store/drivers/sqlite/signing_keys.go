package sqlite

import (
	"context"
	"database/sql"

	"github.com/marinoscar/accountd/internal/accounts/domain"
)

type signingKeysRepo struct {
	db dbtx
}

const signingKeyColumns = `id, kid, algorithm, private_key_encrypted, created_at, retired_at, expires_at`

func scanSigningKey(row interface{ Scan(...any) error }) (domain.SigningKey, error) {
	var (
		k       domain.SigningKey
		retired sql.NullTime
	)
	err := row.Scan(&k.ID, &k.Kid, &k.Algorithm, &k.PrivateKeyEncrypted, &k.CreatedAt, &retired, &k.ExpiresAt)
	if err != nil {
		return domain.SigningKey{}, err
	}
	k.RetiredAt = mapNullTimePtr(retired)
	return k, nil
}

func (r *signingKeysRepo) CreateSigningKey(ctx context.Context, key domain.SigningKey) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO signing_keys (id, kid, algorithm, private_key_encrypted, retired_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		key.ID, key.Kid, key.Algorithm, key.PrivateKeyEncrypted,
		mapOptionalTime(key.RetiredAt), key.ExpiresAt,
	)
	return mapConflict(err)
}

func (r *signingKeysRepo) GetSigningKeyByKid(ctx context.Context, kid string) (domain.SigningKey, error) {
	k, err := scanSigningKey(r.db.QueryRowContext(ctx,
		`SELECT `+signingKeyColumns+` FROM signing_keys WHERE kid = ?`, kid))
	if err != nil {
		return domain.SigningKey{}, mapNotFound(err)
	}
	return k, nil
}

func (r *signingKeysRepo) ListActiveSigningKeys(ctx context.Context) ([]domain.SigningKey, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+signingKeyColumns+`
		FROM signing_keys
		WHERE retired_at IS NULL AND expires_at > CURRENT_TIMESTAMP
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSigningKeys(rows)
}

func (r *signingKeysRepo) ListAllSigningKeys(ctx context.Context) ([]domain.SigningKey, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+signingKeyColumns+`
		FROM signing_keys
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSigningKeys(rows)
}

func (r *signingKeysRepo) RetireSigningKey(ctx context.Context, kid string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE signing_keys
		SET retired_at = CURRENT_TIMESTAMP
		WHERE kid = ? AND retired_at IS NULL`,
		kid,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *signingKeysRepo) DeleteExpiredSigningKeys(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM signing_keys WHERE expires_at <= CURRENT_TIMESTAMP`)
	return err
}

func collectSigningKeys(rows *sql.Rows) ([]domain.SigningKey, error) {
	var keys []domain.SigningKey
	for rows.Next() {
		k, err := scanSigningKey(rows)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
