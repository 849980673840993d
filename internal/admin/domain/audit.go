package domain

import "time"

// LoginOutcome classifies a login attempt for the audit trail. Denials are
// recorded uniformly; the audit row never distinguishes bad credentials from
// a failed profile fetch.
type LoginOutcome string

const (
	LoginSucceeded LoginOutcome = "succeeded"
	LoginDenied    LoginOutcome = "denied"
)

// LoginAttempt is one audit row. Identifier is the submitted login ID; the
// secret is never stored.
type LoginAttempt struct {
	ID         string
	Identifier string
	Outcome    LoginOutcome
	RemoteAddr string
	CreatedAt  time.Time
}
