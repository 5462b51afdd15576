package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/marinoscar/accountd/internal/accounts/domain"
	"github.com/marinoscar/accountd/internal/accounts/store"
	"github.com/marinoscar/accountd/pkg/cryptox"
	"github.com/marinoscar/accountd/pkg/idx"
	"github.com/marinoscar/accountd/pkg/jwtx"
	"github.com/marinoscar/accountd/pkg/slogx"
)

// TokenService mints access tokens and runs the refresh token rotation state
// machine. A refresh token row is Active until exactly one transition fires:
// rotation (normal redeem), explicit revocation (logout or reuse response) or
// expiry (detected lazily at redeem time).
type TokenService struct {
	KeyManager *jwtx.KeyManager
	Store      store.Store
	Issuer     string
	Audience   []string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// IssuePair issues a fresh access/refresh pair for an account that has just
// authenticated through the identity provider. The refresh row creation and
// the role snapshot read share one transaction.
func (s *TokenService) IssuePair(ctx context.Context, account domain.Account) (*domain.TokenPair, error) {
	now := time.Now()

	var pair *domain.TokenPair
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		pair, err = s.issuePairTx(ctx, tx, account, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// IssueAccessToken mints a stateless access token from the account's current
// roles. Verification elsewhere checks signature and expiry only, which is
// why the TTL stays short.
func (s *TokenService) IssueAccessToken(ctx context.Context, account domain.Account) (string, error) {
	roles, err := s.Store.Roles().ListRolesForAccount(ctx, account.ID)
	if err != nil {
		return "", err
	}
	return s.signAccess(account, roleNames(roles), time.Now())
}

// RedeemAndRotate exchanges a raw refresh secret for a new token pair. The
// spent row is revoked with a conditional update so two concurrent
// redemptions of the same secret resolve to one winner; the loser is treated
// as reuse. Observing an already-revoked row revokes every live token for
// that account before failing: replay of a spent token is a compromise
// signal whether or not it was malicious.
func (s *TokenService) RedeemAndRotate(ctx context.Context, raw string) (*domain.TokenPair, error) {
	now := time.Now()
	l := slogx.FromContext(ctx)
	fp := cryptox.FingerprintToken(raw)

	rt, err := s.Store.RefreshTokens().GetRefreshTokenByHash(ctx, fp)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAuthenticationDenied
		}
		return nil, err
	}

	if rt.Revoked() {
		return nil, s.handleReuse(ctx, rt.AccountID)
	}

	// Expired rows are left exactly as they are: natural expiry is not a
	// compromise signal and must not mutate anything.
	if rt.Expired(now) {
		return nil, ErrAuthenticationDenied
	}

	account, err := s.Store.Accounts().GetAccountByID(ctx, rt.AccountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAuthenticationDenied
		}
		return nil, err
	}
	if !account.Active {
		l.Info("refresh denied for inactive account", slog.String("account_id", account.ID))
		return nil, ErrAuthenticationDenied
	}

	// Rotation proper: spend the old row, create its successor and mint the
	// access token from live roles, all in one transaction.
	var pair *domain.TokenPair
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.RefreshTokens().RevokeRefreshToken(ctx, fp); err != nil {
			return err
		}
		var err error
		pair, err = s.issuePairTx(ctx, tx, account, now)
		return err
	})
	if err != nil {
		// Lost the race against a concurrent redemption of the same secret:
		// the winner already rotated, so this call is a replay.
		if errors.Is(err, store.ErrAlreadyRevoked) {
			return nil, s.handleReuse(ctx, rt.AccountID)
		}
		return nil, err
	}

	return pair, nil
}

// Revoke spends a single refresh token (single-session logout). Unknown and
// already-revoked tokens are not errors; logout is idempotent.
func (s *TokenService) Revoke(ctx context.Context, raw string) error {
	fp := cryptox.FingerprintToken(raw)
	err := s.Store.RefreshTokens().RevokeRefreshToken(ctx, fp)
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrAlreadyRevoked) {
		return nil
	}
	return err
}

// RevokeAll revokes every live refresh token for an account
// (logout-everywhere, compromise response).
func (s *TokenService) RevokeAll(ctx context.Context, accountID string) error {
	return s.Store.RefreshTokens().RevokeAllAccountRefreshTokens(ctx, accountID)
}

// RevokeEverywhere resolves the presented token to its account and revokes
// every live token for it. Unknown tokens are not errors, matching Revoke;
// a revoked token still identifies its account and is honored, so a user who
// suspects theft can log out everywhere with a secret that was already spent.
func (s *TokenService) RevokeEverywhere(ctx context.Context, raw string) error {
	fp := cryptox.FingerprintToken(raw)
	rt, err := s.Store.RefreshTokens().GetRefreshTokenByHash(ctx, fp)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	return s.RevokeAll(ctx, rt.AccountID)
}

// handleReuse is the response to a spent token being presented again: revoke
// the whole family, then deny. The revocation is best-effort; the denial
// stands either way.
func (s *TokenService) handleReuse(ctx context.Context, accountID string) error {
	l := slogx.FromContext(ctx)
	l.Warn("refresh token reuse detected, revoking all tokens for account",
		slog.String("account_id", accountID),
	)
	if err := s.RevokeAll(ctx, accountID); err != nil {
		l.Error("failed to revoke account tokens after reuse",
			slog.Any("error", err),
			slog.String("account_id", accountID),
		)
	}
	return ErrAuthenticationDenied
}

// issuePairTx creates a new refresh row and mints an access token from the
// account's current roles, using the given transaction for both reads and
// writes.
func (s *TokenService) issuePairTx(
	ctx context.Context,
	tx store.Tx,
	account domain.Account,
	now time.Time,
) (*domain.TokenPair, error) {
	roles, err := tx.Roles().ListRolesForAccount(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.signAccess(account, roleNames(roles), now)
	if err != nil {
		return nil, err
	}

	refreshOpaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return nil, err
	}

	if err := tx.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
		ID:        idx.New().String(),
		AccountID: account.ID,
		TokenHash: cryptox.FingerprintToken(refreshOpaque),
		ExpiresAt: now.Add(s.RefreshTTL),
	}); err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshOpaque,
		TokenType:    "Bearer",
		ExpiresIn:    s.AccessTTL,
	}, nil
}

func (s *TokenService) signAccess(account domain.Account, roles []string, now time.Time) (string, error) {
	claims := jwtx.NewAccessClaims(
		account.ID,
		account.Email,
		roles,
		s.AccessTTL,
		s.Issuer,
		s.Audience,
		now,
	)
	// GetSigner() distributes signing across the active keys
	signer := s.KeyManager.GetSigner()
	return signer.Sign(claims)
}

func roleNames(roles []domain.Role) []string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.Name
	}
	return names
}
