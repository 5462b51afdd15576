package jwtx

import (
	"context"
	"fmt"
	"time"

	"github.com/marinoscar/accountd/pkg/cryptox"
	"github.com/marinoscar/accountd/pkg/idx"
)

// SigningKeyRecord represents a signing key stored in the credential store.
// This mirror type avoids importing the domain package, preventing circular
// dependencies.
type SigningKeyRecord struct {
	ID                  string
	Kid                 string
	Algorithm           string
	PrivateKeyEncrypted []byte
	CreatedAt           time.Time
	RetiredAt           *time.Time
	ExpiresAt           time.Time
}

// KeyStore defines the minimal interface needed for persistent key management.
type KeyStore interface {
	// ListAllSigningKeys returns all signing keys (including retired and
	// expired) for verification during the grace period.
	ListAllSigningKeys(ctx context.Context) ([]SigningKeyRecord, error)

	// ListActiveSigningKeys returns only active (non-retired, non-expired)
	// keys for signing operations.
	ListActiveSigningKeys(ctx context.Context) ([]SigningKeyRecord, error)

	// CreateSigningKey stores a new signing key with encrypted private key
	// material.
	CreateSigningKey(ctx context.Context, key SigningKeyRecord) error
}

// PersistentKeyManagerOptions configures a KeyManager with persistent key
// storage.
type PersistentKeyManagerOptions struct {
	// Store provides access to the signing keys table.
	Store KeyStore

	// Algorithm specifies which signing algorithm to use for NEW keys.
	// Loaded keys will use their stored algorithm.
	Algorithm string

	// Issuer is the issuer claim (iss) that will be validated in tokens.
	Issuer string

	// Audience is the list of audience values (aud) that will be validated.
	Audience []string

	// NumKeys specifies the target number of active signing keys.
	// If fewer active keys exist in the store, new ones will be generated.
	NumKeys int

	// GracePeriod is how long retired keys remain valid for verification.
	// Defaults to 30 days if not specified.
	GracePeriod time.Duration
}

// NewPersistentKeyManager creates a KeyManager that loads keys from the
// credential store. Unlike ephemeral keys, these survive service restarts and
// support gradual rotation with a grace period for token verification.
//
// On initialization, it will:
// 1. Load all keys from the store (for verification)
// 2. Load active keys only (for signing)
// 3. Generate new keys if needed to reach the NumKeys target
// 4. Add all keys to the JWKS for public key distribution
func NewPersistentKeyManager(ctx context.Context, opts PersistentKeyManagerOptions) (*KeyManager, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("jwtx: Store is required for persistent key manager")
	}
	if opts.Issuer == "" {
		return nil, fmt.Errorf("jwtx: Issuer is required")
	}

	numKeys := clampNumKeys(opts.NumKeys)
	gracePeriod := opts.GracePeriod
	if gracePeriod <= 0 {
		gracePeriod = 30 * 24 * time.Hour
	}

	allKeys, err := opts.Store.ListAllSigningKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("jwtx: failed to load keys from store: %w", err)
	}

	activeKeys, err := opts.Store.ListActiveSigningKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("jwtx: failed to load active keys: %w", err)
	}

	// Every known key goes into the KeySet so tokens signed before a
	// rotation still verify during the grace period.
	keyset := NewKeySet()
	for _, rec := range allKeys {
		signer, err := signerFromRecord(rec)
		if err != nil {
			return nil, err
		}
		if err := keyset.AddSigner(signer); err != nil {
			return nil, fmt.Errorf("jwtx: failed to add key %s to keyset: %w", rec.Kid, err)
		}
	}

	// Only non-retired keys participate in signing.
	activeSigners := make([]Signer, 0, len(activeKeys))
	for _, rec := range activeKeys {
		signer, err := signerFromRecord(rec)
		if err != nil {
			return nil, err
		}
		activeSigners = append(activeSigners, signer)
	}

	// Top up to the target key count.
	now := time.Now()
	for len(activeSigners) < numKeys {
		kid, err := generateRandomKeyID()
		if err != nil {
			return nil, fmt.Errorf("jwtx: failed to generate key ID: %w", err)
		}

		pemData, signer, err := generateNewKeyAndSigner(opts.Algorithm, kid)
		if err != nil {
			return nil, fmt.Errorf("jwtx: failed to generate new key: %w", err)
		}

		encryptedKey, err := cryptox.EncryptPrivateKey(pemData)
		if err != nil {
			return nil, fmt.Errorf("jwtx: failed to encrypt new key: %w", err)
		}

		rec := SigningKeyRecord{
			ID:                  idx.New().String(),
			Kid:                 kid,
			Algorithm:           opts.Algorithm,
			PrivateKeyEncrypted: encryptedKey,
			CreatedAt:           now,
			RetiredAt:           nil,
			ExpiresAt:           now.Add(gracePeriod), // extended when retired
		}

		if err := opts.Store.CreateSigningKey(ctx, rec); err != nil {
			return nil, fmt.Errorf("jwtx: failed to store new key: %w", err)
		}

		activeSigners = append(activeSigners, signer)
		if err := keyset.AddSigner(signer); err != nil {
			return nil, fmt.Errorf("jwtx: failed to add new key to keyset: %w", err)
		}
	}

	verifier, err := newVerifierForAlgorithm(opts.Algorithm, keyset, opts.Issuer, opts.Audience)
	if err != nil {
		return nil, err
	}

	return &KeyManager{
		Verifier:  verifier,
		KeySet:    keyset,
		algorithm: opts.Algorithm,
		signers:   activeSigners,
	}, nil
}

func signerFromRecord(rec SigningKeyRecord) (Signer, error) {
	pemData, err := cryptox.DecryptPrivateKey(rec.PrivateKeyEncrypted)
	if err != nil {
		return nil, fmt.Errorf("jwtx: failed to decrypt key %s: %w", rec.Kid, err)
	}

	signer, err := createSignerFromPEM(rec.Algorithm, rec.Kid, pemData)
	if err != nil {
		return nil, fmt.Errorf("jwtx: failed to create signer for key %s: %w", rec.Kid, err)
	}
	return signer, nil
}

// createSignerFromPEM creates a signer from PEM-encoded private key data.
func createSignerFromPEM(algorithm, kid string, pemData []byte) (Signer, error) {
	switch algorithm {
	case AlgorithmES256:
		return NewSignerES256(kid, pemData)
	case AlgorithmEdDSA:
		return NewSignerEdDSA(kid, pemData)
	default:
		return nil, fmt.Errorf("unsupported algorithm %q", algorithm)
	}
}

// generateNewKeyAndSigner generates a new key pair and returns both the PEM
// data and signer.
func generateNewKeyAndSigner(algorithm, kid string) ([]byte, Signer, error) {
	var pemData []byte
	var err error

	switch algorithm {
	case AlgorithmES256:
		pemData, err = cryptox.GenerateES256Key()
	case AlgorithmEdDSA:
		pemData, err = cryptox.GenerateEd25519Key()
	default:
		return nil, nil, fmt.Errorf("unsupported algorithm %q", algorithm)
	}
	if err != nil {
		return nil, nil, err
	}

	signer, err := createSignerFromPEM(algorithm, kid, pemData)
	if err != nil {
		return nil, nil, err
	}

	return pemData, signer, nil
}
