package store

import (
	"context"

	"github.com/teolmungchi/admin-gateway/internal/admin/domain"
	"github.com/teolmungchi/admin-gateway/pkg/jwtx"
)

// KeyStoreAdapter adapts store.Store to the jwtx.KeyStore interface so jwtx
// can load and persist signing keys without depending on the domain package.
type KeyStoreAdapter struct {
	store Store
}

// NewKeyStoreAdapter creates an adapter implementing jwtx.KeyStore.
func NewKeyStoreAdapter(store Store) *KeyStoreAdapter {
	return &KeyStoreAdapter{store: store}
}

// ListSigningKeys returns every stored signing key as a jwtx record.
func (a *KeyStoreAdapter) ListSigningKeys(ctx context.Context) ([]jwtx.SigningKeyRecord, error) {
	keys, err := a.store.SigningKeys().ListSigningKeys(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]jwtx.SigningKeyRecord, len(keys))
	for i, key := range keys {
		records[i] = jwtx.SigningKeyRecord{
			ID:            key.ID,
			Kid:           key.Kid,
			Algorithm:     key.Algorithm,
			PrivateSealed: key.PrivateSealed,
			CreatedAt:     key.CreatedAt,
		}
	}
	return records, nil
}

// CreateSigningKey stores a new signing key with sealed private material.
func (a *KeyStoreAdapter) CreateSigningKey(ctx context.Context, record jwtx.SigningKeyRecord) error {
	return a.store.SigningKeys().CreateSigningKey(ctx, domain.SigningKey{
		ID:            record.ID,
		Kid:           record.Kid,
		Algorithm:     record.Algorithm,
		PrivateSealed: record.PrivateSealed,
		CreatedAt:     record.CreatedAt,
	})
}
