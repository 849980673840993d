package domain

import "time"

// SigningKey is a sealed session signing key as stored in sqlite.
// Private material is AES-GCM sealed with the master key before it
// ever touches the database.
type SigningKey struct {
	ID            string
	Kid           string
	Algorithm     string
	PrivateSealed []byte
	CreatedAt     time.Time
}
