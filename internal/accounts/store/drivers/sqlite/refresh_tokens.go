package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/marinoscar/accountd/internal/accounts/domain"
	"github.com/marinoscar/accountd/internal/accounts/store"
)

type refreshTokensRepo struct {
	db dbtx
}

func (r *refreshTokensRepo) CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO refresh_tokens (id, account_id, token_hash, expires_at)
		VALUES (?, ?, ?, ?)`,
		t.ID, t.AccountID, t.TokenHash, t.ExpiresAt,
	)
	return mapConflict(err)
}

func (r *refreshTokensRepo) GetRefreshTokenByHash(
	ctx context.Context,
	hash string,
) (domain.RefreshToken, error) {
	var (
		t       domain.RefreshToken
		revoked sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, account_id, token_hash, expires_at, revoked_at, created_at, updated_at
		FROM refresh_tokens
		WHERE token_hash = ?`,
		hash,
	).Scan(&t.ID, &t.AccountID, &t.TokenHash, &t.ExpiresAt, &revoked, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.RefreshToken{}, mapNotFound(err)
	}
	t.RevokedAt = mapNullTimePtr(revoked)
	return t, nil
}

// RevokeRefreshToken is the conditional update at the heart of rotation: it
// only succeeds when revoked_at is still NULL, so of two concurrent
// redemptions of the same secret exactly one wins. The loser gets
// ErrAlreadyRevoked, which callers treat as the reuse signal.
func (r *refreshTokensRepo) RevokeRefreshToken(ctx context.Context, hash string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE refresh_tokens
		SET revoked_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		WHERE token_hash = ? AND revoked_at IS NULL`,
		hash,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	// No row updated: distinguish a missing row from an already-revoked one.
	var exists int
	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM refresh_tokens WHERE token_hash = ?`, hash,
	).Scan(&exists)
	if err != nil {
		return err
	}
	if exists == 0 {
		return store.ErrNotFound
	}
	return store.ErrAlreadyRevoked
}

func (r *refreshTokensRepo) RevokeAllAccountRefreshTokens(ctx context.Context, accountID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE refresh_tokens
		SET revoked_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		WHERE account_id = ? AND revoked_at IS NULL`,
		accountID,
	)
	return err
}

func (r *refreshTokensRepo) DeleteExpiredRefreshTokens(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at <= CURRENT_TIMESTAMP`)
	return err
}

func (r *refreshTokensRepo) DeleteRevokedRefreshTokensBefore(ctx context.Context, cutoff time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE revoked_at IS NOT NULL AND revoked_at < ?`, cutoff)
	return err
}
