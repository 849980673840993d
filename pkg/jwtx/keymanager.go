package jwtx

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/teolmungchi/admin-gateway/pkg/cryptox"
)

// SigningKeyRecord represents a signing key stored in the database.
// Private key material is sealed with the master key (see cryptox).
type SigningKeyRecord struct {
	ID            string
	Kid           string
	Algorithm     string
	PrivateSealed []byte
	CreatedAt     time.Time
}

// KeyStore is the minimal persistence interface for signing keys. It is
// defined here rather than in the store package to avoid a dependency cycle.
type KeyStore interface {
	ListSigningKeys(ctx context.Context) ([]SigningKeyRecord, error)
	CreateSigningKey(ctx context.Context, key SigningKeyRecord) error
}

// KeyManager owns the session signing keys for a gateway instance. Multiple
// keys are kept so rotation can happen without invalidating live sessions;
// signing picks a key at random, verification accepts any key in the set.
type KeyManager struct {
	keys   *KeySet
	issuer string

	mu      sync.RWMutex
	signers []Signer
}

// KeyManagerOptions configures key generation and verification.
type KeyManagerOptions struct {
	// Issuer is the issuer claim (iss) stamped into and validated on tokens.
	Issuer string

	// NumKeys is how many signing keys to keep active. Defaults to 3,
	// clamped to [1, 10].
	NumKeys int

	// Leeway for clock skew during verification.
	Leeway time.Duration
}

func (o *KeyManagerOptions) normalize() error {
	if o.Issuer == "" {
		return fmt.Errorf("jwtx: Issuer is required")
	}
	if o.NumKeys <= 0 {
		o.NumKeys = 3
	}
	if o.NumKeys > 10 {
		o.NumKeys = 10
	}
	return nil
}

// NewEphemeralKeyManager generates fresh keys held only in memory.
// Every session is invalidated when the process restarts.
func NewEphemeralKeyManager(opts KeyManagerOptions) (*KeyManager, error) {
	if err := opts.normalize(); err != nil {
		return nil, err
	}

	m := &KeyManager{keys: NewKeySet(), issuer: opts.Issuer}
	for i := 0; i < opts.NumKeys; i++ {
		if err := m.generateSigner(); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// NewPersistentKeyManager loads sealed keys from the store, generating and
// persisting new ones until the NumKeys target is reached. Sessions survive
// restarts as long as the master key is stable.
func NewPersistentKeyManager(ctx context.Context, ks KeyStore, opts KeyManagerOptions) (*KeyManager, error) {
	if ks == nil {
		return nil, fmt.Errorf("jwtx: KeyStore is required for persistent key manager")
	}
	if err := opts.normalize(); err != nil {
		return nil, err
	}

	records, err := ks.ListSigningKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("jwtx: failed to load signing keys: %w", err)
	}

	m := &KeyManager{keys: NewKeySet(), issuer: opts.Issuer}

	for _, rec := range records {
		pemData, err := cryptox.OpenKey(rec.PrivateSealed)
		if err != nil {
			return nil, fmt.Errorf("jwtx: failed to unseal key %s: %w", rec.Kid, err)
		}

		signer, err := NewSignerEdDSA(rec.Kid, pemData)
		if err != nil {
			return nil, fmt.Errorf("jwtx: failed to load signer for key %s: %w", rec.Kid, err)
		}

		if err := m.addSigner(signer); err != nil {
			return nil, err
		}
	}

	// Top up to the target key count.
	for m.NumSigners() < opts.NumKeys {
		pemData, err := GenerateEd25519PEM()
		if err != nil {
			return nil, err
		}

		kid := cryptox.MustGenerateToken(cryptox.TokenSize128)
		signer, err := NewSignerEdDSA(kid, pemData)
		if err != nil {
			return nil, err
		}

		sealed, err := cryptox.SealKey(pemData)
		if err != nil {
			return nil, fmt.Errorf("jwtx: failed to seal new key: %w", err)
		}

		if err := ks.CreateSigningKey(ctx, SigningKeyRecord{
			ID:            cryptox.MustGenerateToken(cryptox.TokenSize128),
			Kid:           kid,
			Algorithm:     AlgorithmEdDSA,
			PrivateSealed: sealed,
			CreatedAt:     time.Now().UTC(),
		}); err != nil {
			return nil, fmt.Errorf("jwtx: failed to persist new key: %w", err)
		}

		if err := m.addSigner(signer); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *KeyManager) generateSigner() error {
	pemData, err := GenerateEd25519PEM()
	if err != nil {
		return err
	}

	signer, err := NewSignerEdDSA(cryptox.MustGenerateToken(cryptox.TokenSize128), pemData)
	if err != nil {
		return err
	}

	return m.addSigner(signer)
}

func (m *KeyManager) addSigner(s Signer) error {
	if err := m.keys.AddSigner(s); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.signers = append(m.signers, s)
	return nil
}

// Signer returns a random active signer for load distribution across keys.
func (m *KeyManager) Signer() Signer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.signers) == 0 {
		return nil
	}
	return m.signers[rand.IntN(len(m.signers))]
}

// Verifier returns a verifier accepting every key the manager knows about.
func (m *KeyManager) Verifier(leeway time.Duration) Verifier {
	return NewVerifierEdDSA(m.keys, m.issuer, leeway)
}

// NumSigners reports how many signing keys are active.
func (m *KeyManager) NumSigners() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.signers)
}

// IsReady reports whether at least one key is loaded, used by readiness checks.
func (m *KeyManager) IsReady() bool {
	return m.keys.IsReady() && m.NumSigners() > 0
}
