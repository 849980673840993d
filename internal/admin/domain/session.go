package domain

import "time"

// Session is the externally visible session derived from token claims by
// direct field copy. A new session value is produced per request; nothing
// mutates a live session in place.
type Session struct {
	SID       string
	User      User
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// SessionRecord is the registry row backing server-side revocation.
// The signed cookie stays authoritative for claims; the registry only
// answers "has this sid been revoked".
type SessionRecord struct {
	SID       string
	UserID    string
	Email     string
	Role      Role
	IssuedAt  time.Time
	RenewedAt time.Time
	RevokedAt *time.Time
}

// Revoked reports whether the session has been explicitly signed out.
func (r SessionRecord) Revoked() bool { return r.RevokedAt != nil }
