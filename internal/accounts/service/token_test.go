package service

import (
	"context"
	"testing"
	"time"

	"github.com/marinoscar/accountd/internal/accounts/store"
	"github.com/marinoscar/accountd/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestIssueAndRedeemRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTestTokenService(t, st)
	account := provisionAccount(t, st, "alice@example.com")

	pair, err := svc.IssuePair(ctx, account)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.Equal(t, "Bearer", pair.TokenType)

	// The minted access token verifies and carries the live role snapshot.
	claims, err := svc.KeyManager.Verifier.Verify(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, account.ID, claims.Subject)
	require.Equal(t, account.Email, claims.Email)
	require.Equal(t, []string{"viewer"}, claims.Roles)

	rotated, err := svc.RedeemAndRotate(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, rotated.AccessToken)
	require.NotEmpty(t, rotated.RefreshToken)
	require.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// The original secret is spent.
	_, err = svc.RedeemAndRotate(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrAuthenticationDenied)

	// The successor still works.
	_, err = svc.RedeemAndRotate(ctx, rotated.RefreshToken)
	require.NoError(t, err)
}

func TestReuseDetectionRevokesWholeFamily(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTestTokenService(t, st)
	account := provisionAccount(t, st, "alice@example.com")

	// Two independent sessions for the same account.
	session1, err := svc.IssuePair(ctx, account)
	require.NoError(t, err)
	session2, err := svc.IssuePair(ctx, account)
	require.NoError(t, err)

	// Rotate session1 normally, then replay the spent secret.
	rotated, err := svc.RedeemAndRotate(ctx, session1.RefreshToken)
	require.NoError(t, err)

	_, err = svc.RedeemAndRotate(ctx, session1.RefreshToken)
	require.ErrorIs(t, err, ErrAuthenticationDenied)

	// The replay revoked everything: the rotation successor and the other
	// session are both dead now.
	_, err = svc.RedeemAndRotate(ctx, rotated.RefreshToken)
	require.ErrorIs(t, err, ErrAuthenticationDenied)

	_, err = svc.RedeemAndRotate(ctx, session2.RefreshToken)
	require.ErrorIs(t, err, ErrAuthenticationDenied)
}

func TestRedeemUnknownSecretDenied(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTestTokenService(t, st)

	_, err := svc.RedeemAndRotate(ctx, "never-issued")
	require.ErrorIs(t, err, ErrAuthenticationDenied)
}

func TestExpiredTokenFailsWithoutMutation(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTestTokenService(t, st)
	account := provisionAccount(t, st, "alice@example.com")

	// Issue with a TTL that is already over.
	svc.RefreshTTL = -time.Minute
	expired, err := svc.IssuePair(ctx, account)
	require.NoError(t, err)

	svc.RefreshTTL = time.Hour
	live, err := svc.IssuePair(ctx, account)
	require.NoError(t, err)

	_, err = svc.RedeemAndRotate(ctx, expired.RefreshToken)
	require.ErrorIs(t, err, ErrAuthenticationDenied)

	// Natural expiry is not a compromise signal: the expired row keeps its
	// NULL revoked_at and no other token was touched.
	row, err := st.RefreshTokens().GetRefreshTokenByHash(ctx, cryptox.FingerprintToken(expired.RefreshToken))
	require.NoError(t, err)
	require.False(t, row.Revoked())

	_, err = svc.RedeemAndRotate(ctx, live.RefreshToken)
	require.NoError(t, err)
}

func TestInactiveAccountShortCircuitsRedeem(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTestTokenService(t, st)
	account := provisionAccount(t, st, "alice@example.com")

	pair, err := svc.IssuePair(ctx, account)
	require.NoError(t, err)

	require.NoError(t, st.Accounts().SetActive(ctx, account.ID, false))

	_, err = svc.RedeemAndRotate(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrAuthenticationDenied)

	// No rotation happened: the row is untouched, just unusable.
	row, err := st.RefreshTokens().GetRefreshTokenByHash(ctx, cryptox.FingerprintToken(pair.RefreshToken))
	require.NoError(t, err)
	require.False(t, row.Revoked())
}

func TestRevokeSingleSessionIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTestTokenService(t, st)
	account := provisionAccount(t, st, "alice@example.com")

	pair, err := svc.IssuePair(ctx, account)
	require.NoError(t, err)
	other, err := svc.IssuePair(ctx, account)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, pair.RefreshToken))
	require.NoError(t, svc.Revoke(ctx, pair.RefreshToken)) // second logout is fine
	require.NoError(t, svc.Revoke(ctx, "never-issued"))

	// Single-session logout leaves the other session alive.
	rotated, err := svc.RedeemAndRotate(ctx, other.RefreshToken)
	require.NoError(t, err)

	// Redeeming the logged-out secret is a replay, so from here the whole
	// family goes down.
	_, err = svc.RedeemAndRotate(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrAuthenticationDenied)

	_, err = svc.RedeemAndRotate(ctx, rotated.RefreshToken)
	require.ErrorIs(t, err, ErrAuthenticationDenied)
}

func TestRevokeAllKillsEverySession(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTestTokenService(t, st)
	account := provisionAccount(t, st, "alice@example.com")

	a, err := svc.IssuePair(ctx, account)
	require.NoError(t, err)
	b, err := svc.IssuePair(ctx, account)
	require.NoError(t, err)

	require.NoError(t, svc.RevokeAll(ctx, account.ID))

	_, err = svc.RedeemAndRotate(ctx, a.RefreshToken)
	require.ErrorIs(t, err, ErrAuthenticationDenied)
	_, err = svc.RedeemAndRotate(ctx, b.RefreshToken)
	require.ErrorIs(t, err, ErrAuthenticationDenied)
}

// contestedStore simulates losing the rotation race: inside the transaction
// the row to spend is already revoked, as if a concurrent redemption of the
// same secret committed first. Everything else passes through.
type contestedStore struct {
	store.Store
}

func (s *contestedStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		return fn(&contestedTx{storeTx: tx})
	})
}

// storeTx lets contestedTx embed store.Tx without the field name colliding
// with the interface's Tx method.
type storeTx = store.Tx

type contestedTx struct {
	storeTx
}

func (t *contestedTx) RefreshTokens() store.RefreshTokens {
	return &contestedRefreshTokens{RefreshTokens: t.storeTx.RefreshTokens()}
}

type contestedRefreshTokens struct {
	store.RefreshTokens
}

func (r *contestedRefreshTokens) RevokeRefreshToken(ctx context.Context, hash string) error {
	// The concurrent winner's conditional update got here first.
	return store.ErrAlreadyRevoked
}

func TestConcurrentRotationLoserTreatedAsReuse(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTestTokenService(t, st)
	account := provisionAccount(t, st, "alice@example.com")

	pair, err := svc.IssuePair(ctx, account)
	require.NoError(t, err)
	sibling, err := svc.IssuePair(ctx, account)
	require.NoError(t, err)

	// The loser's revoke-and-rotate transaction observes a spent row. That
	// is a replay signal exactly like presenting an old secret, so the
	// whole family goes down.
	svc.Store = &contestedStore{Store: st}
	_, err = svc.RedeemAndRotate(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrAuthenticationDenied)

	svc.Store = st
	_, err = svc.RedeemAndRotate(ctx, sibling.RefreshToken)
	require.ErrorIs(t, err, ErrAuthenticationDenied)
}

func TestRevokeEverywhereResolvesAccountFromToken(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTestTokenService(t, st)
	account := provisionAccount(t, st, "alice@example.com")
	bystander := provisionAccount(t, st, "bob@example.com")

	a, err := svc.IssuePair(ctx, account)
	require.NoError(t, err)
	b, err := svc.IssuePair(ctx, account)
	require.NoError(t, err)
	other, err := svc.IssuePair(ctx, bystander)
	require.NoError(t, err)

	// One secret takes down every session of its own account only.
	require.NoError(t, svc.RevokeEverywhere(ctx, a.RefreshToken))

	_, err = svc.RedeemAndRotate(ctx, a.RefreshToken)
	require.ErrorIs(t, err, ErrAuthenticationDenied)
	_, err = svc.RedeemAndRotate(ctx, b.RefreshToken)
	require.ErrorIs(t, err, ErrAuthenticationDenied)

	_, err = svc.RedeemAndRotate(ctx, other.RefreshToken)
	require.NoError(t, err)

	// An already-spent secret still identifies its account, and unknown
	// secrets are not an oracle.
	require.NoError(t, svc.RevokeEverywhere(ctx, a.RefreshToken))
	require.NoError(t, svc.RevokeEverywhere(ctx, "never-issued"))
}

func TestRawSecretNeverStored(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTestTokenService(t, st)
	account := provisionAccount(t, st, "alice@example.com")

	pair, err := svc.IssuePair(ctx, account)
	require.NoError(t, err)

	// Looking up by the raw secret finds nothing; only the fingerprint is
	// persisted, and it does not reveal the secret.
	_, err = st.RefreshTokens().GetRefreshTokenByHash(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, store.ErrNotFound)

	row, err := st.RefreshTokens().GetRefreshTokenByHash(ctx, cryptox.FingerprintToken(pair.RefreshToken))
	require.NoError(t, err)
	require.NotEqual(t, pair.RefreshToken, row.TokenHash)
	require.NotContains(t, row.TokenHash, pair.RefreshToken)
}

func TestAccessTokenReflectsRoleChangesOnRotation(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTestTokenService(t, st)
	account := provisionAccount(t, st, "alice@example.com")

	pair, err := svc.IssuePair(ctx, account)
	require.NoError(t, err)

	contributor, err := st.Roles().GetRoleByName(ctx, "contributor")
	require.NoError(t, err)
	require.NoError(t, st.Roles().AssignRole(ctx, account.ID, contributor.ID))

	rotated, err := svc.RedeemAndRotate(ctx, pair.RefreshToken)
	require.NoError(t, err)

	claims, err := svc.KeyManager.Verifier.Verify(rotated.AccessToken)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"viewer", "contributor"}, claims.Roles)
}
