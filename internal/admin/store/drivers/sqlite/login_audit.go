package sqlite

import (
	"context"
	"time"

	"github.com/teolmungchi/admin-gateway/internal/admin/domain"
)

type loginAuditRepo struct {
	db dbtx
}

func (r *loginAuditRepo) RecordLoginAttempt(ctx context.Context, a domain.LoginAttempt) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO login_audit (id, identifier, outcome, remote_addr, created_at)
		VALUES (?, ?, ?, ?, ?);
	`, a.ID, a.Identifier, string(a.Outcome), a.RemoteAddr, a.CreatedAt)
	return err
}

func (r *loginAuditRepo) CountRecentDenied(ctx context.Context, identifier string, since time.Time) (int, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM login_audit
		WHERE identifier = ? AND outcome = ? AND created_at >= ?;
	`, identifier, string(domain.LoginDenied), since)

	var n int
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *loginAuditRepo) ListRecentAttempts(ctx context.Context, identifier string, limit int) ([]domain.LoginAttempt, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, identifier, outcome, remote_addr, created_at
		FROM login_audit
		WHERE identifier = ?
		ORDER BY created_at DESC
		LIMIT ?;
	`, identifier, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []domain.LoginAttempt
	for rows.Next() {
		var (
			a       domain.LoginAttempt
			outcome string
		)
		if err := rows.Scan(&a.ID, &a.Identifier, &outcome, &a.RemoteAddr, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Outcome = domain.LoginOutcome(outcome)
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

func (r *loginAuditRepo) DeleteAttemptsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM login_audit WHERE created_at < ?;
	`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
