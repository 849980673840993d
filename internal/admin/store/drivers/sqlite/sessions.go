package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/teolmungchi/admin-gateway/internal/admin/domain"
	"github.com/teolmungchi/admin-gateway/internal/admin/store"
)

type sessionsRepo struct {
	db dbtx
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.SessionRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (sid, user_id, email, role, issued_at, renewed_at, revoked_at)
		VALUES (?, ?, ?, ?, ?, ?, ?);
	`, s.SID, s.UserID, s.Email, string(s.Role), s.IssuedAt, s.RenewedAt, mapOptionalTime(s.RevokedAt))
	return err
}

func (r *sessionsRepo) GetSessionBySID(ctx context.Context, sid string) (domain.SessionRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT sid, user_id, email, role, issued_at, renewed_at, revoked_at
		FROM sessions
		WHERE sid = ?;
	`, sid)

	var (
		rec       domain.SessionRecord
		role      string
		revokedAt sql.NullTime
	)
	if err := row.Scan(&rec.SID, &rec.UserID, &rec.Email, &role, &rec.IssuedAt, &rec.RenewedAt, &revokedAt); err != nil {
		return domain.SessionRecord{}, mapNotFound(err)
	}

	rec.Role = domain.Role(role)
	rec.RevokedAt = mapNullTimePtr(revokedAt)
	return rec, nil
}

func (r *sessionsRepo) TouchSession(ctx context.Context, sid string, renewedAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sessions SET renewed_at = ? WHERE sid = ? AND revoked_at IS NULL;
	`, renewedAt, sid)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *sessionsRepo) RevokeSession(ctx context.Context, sid string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE sessions SET revoked_at = ? WHERE sid = ? AND revoked_at IS NULL;
	`, at, sid)
	return err
}

func (r *sessionsRepo) RevokeAllUserSessions(ctx context.Context, userID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE sessions SET revoked_at = ? WHERE user_id = ? AND revoked_at IS NULL;
	`, at, userID)
	return err
}

func (r *sessionsRepo) DeleteSessionsRenewedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM sessions WHERE renewed_at < ?;
	`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
