package sqlite

import (
	"context"

	"github.com/teolmungchi/admin-gateway/internal/admin/domain"
)

type signingKeysRepo struct {
	db dbtx
}

func (r *signingKeysRepo) CreateSigningKey(ctx context.Context, key domain.SigningKey) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO signing_keys (id, kid, algorithm, private_sealed, created_at)
		VALUES (?, ?, ?, ?, ?);
	`, key.ID, key.Kid, key.Algorithm, key.PrivateSealed, key.CreatedAt)
	return err
}

func (r *signingKeysRepo) GetSigningKeyByKid(ctx context.Context, kid string) (domain.SigningKey, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, kid, algorithm, private_sealed, created_at
		FROM signing_keys
		WHERE kid = ?;
	`, kid)

	var key domain.SigningKey
	if err := row.Scan(&key.ID, &key.Kid, &key.Algorithm, &key.PrivateSealed, &key.CreatedAt); err != nil {
		return domain.SigningKey{}, mapNotFound(err)
	}
	return key, nil
}

func (r *signingKeysRepo) ListSigningKeys(ctx context.Context) ([]domain.SigningKey, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, kid, algorithm, private_sealed, created_at
		FROM signing_keys
		ORDER BY created_at ASC;
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []domain.SigningKey
	for rows.Next() {
		var key domain.SigningKey
		if err := rows.Scan(&key.ID, &key.Kid, &key.Algorithm, &key.PrivateSealed, &key.CreatedAt); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (r *signingKeysRepo) DeleteSigningKey(ctx context.Context, kid string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM signing_keys WHERE kid = ?;
	`, kid)
	return err
}
