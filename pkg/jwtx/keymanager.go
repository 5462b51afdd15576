package jwtx

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/marinoscar/accountd/pkg/cryptox"
)

// Supported JWT signing algorithms
const (
	AlgorithmES256 = "ES256"
	AlgorithmEdDSA = "EdDSA"
)

// KeyManager manages JWT signing and verification keys for an instance.
// It provides a unified interface for key generation, signing, and
// verification across the supported algorithms.
//
// Multiple signing keys are kept for availability and load distribution;
// keys are selected randomly for signing operations.
type KeyManager struct {
	Verifier  Verifier
	KeySet    *KeySet
	algorithm string

	signers []Signer
	mu      sync.RWMutex
}

// KeyManagerOptions configures the KeyManager for a specific use case.
type KeyManagerOptions struct {
	// Algorithm specifies which signing algorithm to use.
	// Supported values: "ES256", "EdDSA"
	Algorithm string

	// Issuer is the issuer claim (iss) that will be validated in tokens.
	Issuer string

	// Audience is the list of audience values (aud) that will be validated.
	// Empty slice means no audience validation.
	Audience []string

	// NumKeys specifies how many signing keys to generate.
	// Defaults to 3 if not specified. Minimum is 1, maximum is 10.
	NumKeys int
}

// NewEphemeralKeyManager creates a new KeyManager with ephemeral keys.
// The keys are generated on the fly and only exist in memory. All tokens
// become invalid when the service restarts; use the persistent variant if
// that matters for the deployment.
func NewEphemeralKeyManager(opts KeyManagerOptions) (*KeyManager, error) {
	if opts.Issuer == "" {
		return nil, fmt.Errorf("jwtx: Issuer is required")
	}

	numKeys := clampNumKeys(opts.NumKeys)

	keyset := NewKeySet()
	signers := make([]Signer, 0, numKeys)

	for i := 0; i < numKeys; i++ {
		keyID, err := generateRandomKeyID()
		if err != nil {
			return nil, fmt.Errorf("jwtx: failed to generate key ID: %w", err)
		}

		signer, err := generateSigner(opts.Algorithm, keyID)
		if err != nil {
			return nil, fmt.Errorf("jwtx: failed to generate signer %d: %w", i+1, err)
		}

		signers = append(signers, signer)

		if err := keyset.AddSigner(signer); err != nil {
			return nil, fmt.Errorf("jwtx: failed to add signer %d to keyset: %w", i+1, err)
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
		signers:   signers,
	}, nil
}

func clampNumKeys(n int) int {
	if n <= 0 {
		return 3
	}
	if n > 10 {
		return 10
	}
	return n
}

func newVerifierForAlgorithm(algorithm string, keyset *KeySet, issuer string, audience []string) (Verifier, error) {
	switch algorithm {
	case AlgorithmES256:
		return NewCommonES256(keyset, issuer, audience), nil
	case AlgorithmEdDSA:
		return NewCommonEdDSA(keyset, issuer, audience), nil
	default:
		return nil, fmt.Errorf("jwtx: unsupported algorithm %q (supported: ES256, EdDSA)", algorithm)
	}
}

// generateSigner creates a new signer with the specified algorithm and key ID.
func generateSigner(algorithm, keyID string) (Signer, error) {
	switch algorithm {
	case AlgorithmES256:
		pemBytes, err := cryptox.GenerateES256Key()
		if err != nil {
			return nil, fmt.Errorf("failed to generate ES256 key: %w", err)
		}
		return NewSignerES256(keyID, pemBytes)

	case AlgorithmEdDSA:
		pemBytes, err := cryptox.GenerateEd25519Key()
		if err != nil {
			return nil, fmt.Errorf("failed to generate EdDSA key: %w", err)
		}
		return NewSignerEdDSA(keyID, pemBytes)

	default:
		return nil, fmt.Errorf("unsupported algorithm %q", algorithm)
	}
}

// Algorithm returns the signing algorithm being used.
func (km *KeyManager) Algorithm() string {
	return km.algorithm
}

// IsReady returns true if the KeyManager has valid keys loaded.
func (km *KeyManager) IsReady() bool {
	return km.KeySet.IsReady()
}

// GetSigner returns a randomly selected signer from the available signing
// keys, distributing signing operations across keys.
func (km *KeyManager) GetSigner() Signer {
	km.mu.RLock()
	defer km.mu.RUnlock()

	switch len(km.signers) {
	case 0:
		return nil
	case 1:
		return km.signers[0]
	default:
		return km.signers[rand.IntN(len(km.signers))]
	}
}

// NumSigners returns the number of active signing keys.
func (km *KeyManager) NumSigners() int {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return len(km.signers)
}

// AddSigner adds a new signing key to the KeyManager.
// The key is added to both the active signers list (for signing) and the
// KeySet (for verification). Thread-safe, usable for runtime key rotation.
func (km *KeyManager) AddSigner(signer Signer) error {
	if signer == nil {
		return fmt.Errorf("signer cannot be nil")
	}

	km.mu.Lock()
	defer km.mu.Unlock()

	if err := km.KeySet.AddSigner(signer); err != nil {
		return fmt.Errorf("failed to add signer to keyset: %w", err)
	}

	km.signers = append(km.signers, signer)
	return nil
}

// RetireSignerByKid removes a signing key from active signing operations.
// The key remains in the KeySet for token verification (grace period).
// Returns an error if the key is not found or if it's the last active key.
func (km *KeyManager) RetireSignerByKid(kid string) error {
	km.mu.Lock()
	defer km.mu.Unlock()

	if len(km.signers) <= 1 {
		return fmt.Errorf("cannot retire the last signing key")
	}

	found := false
	newSigners := make([]Signer, 0, len(km.signers)-1)
	for _, signer := range km.signers {
		if signer.KID() == kid {
			found = true
			continue
		}
		newSigners = append(newSigners, signer)
	}

	if !found {
		return fmt.Errorf("signer with kid %q not found", kid)
	}

	km.signers = newSigners
	return nil
}

// GetSigners returns a copy of all active signing keys.
func (km *KeyManager) GetSigners() []Signer {
	km.mu.RLock()
	defer km.mu.RUnlock()

	signers := make([]Signer, len(km.signers))
	copy(signers, km.signers)
	return signers
}

// generateRandomKeyID creates a random key identifier using cryptographic
// entropy. Format: "accountd-{random-token}".
func generateRandomKeyID() (string, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return "", fmt.Errorf("failed to generate random key ID: %w", err)
	}
	return fmt.Sprintf("accountd-%s", token), nil
}
