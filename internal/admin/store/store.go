package store

import (
	"context"
	"errors"
	"time"

	"github.com/teolmungchi/admin-gateway/internal/admin/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. Sub-repositories are exposed as methods to keep concerns
// tidy and testable.
type Store interface {
	Sessions() Sessions
	LoginAudit() LoginAudit
	SigningKeys() SigningKeys

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. Same repos plus Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Sessions interface {
	// CreateSession records a freshly issued session.
	CreateSession(ctx context.Context, s domain.SessionRecord) error

	// GetSessionBySID returns the registry row for a session id.
	GetSessionBySID(ctx context.Context, sid string) (domain.SessionRecord, error)

	// TouchSession bumps renewed_at when a session cookie is reissued.
	TouchSession(ctx context.Context, sid string, renewedAt time.Time) error

	// RevokeSession marks a session as signed out. Idempotent.
	RevokeSession(ctx context.Context, sid string, at time.Time) error

	// RevokeAllUserSessions bulk revocation for one user.
	RevokeAllUserSessions(ctx context.Context, userID string, at time.Time) error

	// DeleteSessionsRenewedBefore drops rows whose last renewal predates the
	// cutoff. Housekeeping against unbounded growth.
	DeleteSessionsRenewedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type LoginAudit interface {
	// RecordLoginAttempt appends one audit row (id is ULID, provided by app).
	RecordLoginAttempt(ctx context.Context, a domain.LoginAttempt) error

	// CountRecentDenied counts denied attempts for an identifier since the
	// given time, feeding the lockout check.
	CountRecentDenied(ctx context.Context, identifier string, since time.Time) (int, error)

	// ListRecentAttempts returns attempts for an identifier, newest first.
	ListRecentAttempts(ctx context.Context, identifier string, limit int) ([]domain.LoginAttempt, error)

	// DeleteAttemptsBefore drops audit rows older than the cutoff.
	DeleteAttemptsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type SigningKeys interface {
	// CreateSigningKey stores a new signing key with sealed private material.
	CreateSigningKey(ctx context.Context, key domain.SigningKey) error

	// GetSigningKeyByKid fetches a signing key by its key identifier.
	GetSigningKeyByKid(ctx context.Context, kid string) (domain.SigningKey, error)

	// ListSigningKeys returns all signing keys ordered by creation date
	// (oldest first, matching load order).
	ListSigningKeys(ctx context.Context) ([]domain.SigningKey, error)

	// DeleteSigningKey removes a key by kid. Live sessions signed with it
	// stop verifying, so this is only for key compromise response.
	DeleteSigningKey(ctx context.Context, kid string) error
}
