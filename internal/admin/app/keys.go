package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/teolmungchi/admin-gateway/internal/admin/store"
	"github.com/teolmungchi/admin-gateway/pkg/cryptox"
	"github.com/teolmungchi/admin-gateway/pkg/jwtx"
)

// InitSessionKeys creates the KeyManager for the configured storage mode.
//
// Storage modes:
//   - "ephemeral": keys live only in memory. Every session is invalidated
//     when the gateway restarts.
//   - "persistent": keys are sealed with the master key and stored in
//     sqlite. Sessions survive restarts.
func InitSessionKeys(ctx context.Context, cfg Config, db store.Store, logger *slog.Logger) (*jwtx.KeyManager, error) {
	if cfg.MasterKeyPath != "" {
		cryptox.SetMasterKeyPath(cfg.MasterKeyPath)
		logger.Info("master key path configured", "path", cfg.MasterKeyPath)
	}

	opts := jwtx.KeyManagerOptions{
		Issuer:  cfg.Issuer,
		NumKeys: cfg.NumKeys,
	}

	switch cfg.KeyStorageMode {
	case "persistent":
		keyStore := store.NewKeyStoreAdapter(db)

		keyManager, err := jwtx.NewPersistentKeyManager(ctx, keyStore, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize persistent key manager: %w", err)
		}

		logger.Info("persistent signing keys loaded",
			"num_keys", keyManager.NumSigners(),
			"issuer", cfg.Issuer,
		)
		return keyManager, nil

	case "ephemeral":
		fallthrough
	default:
		keyManager, err := jwtx.NewEphemeralKeyManager(opts)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize ephemeral key manager: %w", err)
		}

		logger.Info("generated ephemeral signing keys",
			"num_keys", keyManager.NumSigners(),
			"issuer", cfg.Issuer,
		)
		logger.Warn("all existing sessions are now invalid due to key rotation on startup")
		return keyManager, nil
	}
}
