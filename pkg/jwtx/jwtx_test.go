package jwtx

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	m, err := NewEphemeralKeyManager(KeyManagerOptions{Issuer: "admin-gateway", NumKeys: 1})
	require.NoError(t, err)

	now := time.Now().UTC()
	claims := NewSessionClaims(
		"u1", "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		"a@b.com", "Kim", "ADMIN", "/x.png", "tok1",
		time.Hour, "admin-gateway", now,
	)

	token, err := m.Signer().Sign(claims)
	require.NoError(t, err)

	got, err := m.Verifier(0).Verify(token)
	require.NoError(t, err)

	require.Equal(t, "u1", got.Subject)
	require.Equal(t, claims.SID, got.SID)
	require.Equal(t, "a@b.com", got.Email)
	require.Equal(t, "Kim", got.Name)
	require.Equal(t, "ADMIN", got.Role)
	require.Equal(t, "/x.png", got.Picture)
	require.Equal(t, "tok1", got.AccessToken)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	m, err := NewEphemeralKeyManager(KeyManagerOptions{Issuer: "gateway-a", NumKeys: 1})
	require.NoError(t, err)

	claims := NewSessionClaims("u1", "sid", "", "", "", "", "", time.Hour, "someone-else", time.Now().UTC())
	token, err := m.Signer().Sign(claims)
	require.NoError(t, err)

	_, err = m.Verifier(0).Verify(token)
	require.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	m, err := NewEphemeralKeyManager(KeyManagerOptions{Issuer: "admin-gateway", NumKeys: 1})
	require.NoError(t, err)

	claims := NewSessionClaims("u1", "sid", "", "", "", "", "", time.Minute, "admin-gateway", time.Now().UTC().Add(-time.Hour))
	token, err := m.Signer().Sign(claims)
	require.NoError(t, err)

	_, err = m.Verifier(0).Verify(token)
	require.Error(t, err)
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	t.Parallel()

	a, err := NewEphemeralKeyManager(KeyManagerOptions{Issuer: "admin-gateway", NumKeys: 1})
	require.NoError(t, err)
	b, err := NewEphemeralKeyManager(KeyManagerOptions{Issuer: "admin-gateway", NumKeys: 1})
	require.NoError(t, err)

	claims := NewSessionClaims("u1", "sid", "", "", "", "", "", time.Hour, "admin-gateway", time.Now().UTC())
	token, err := a.Signer().Sign(claims)
	require.NoError(t, err)

	// b never saw a's key, so the kid lookup must fail.
	_, err = b.Verifier(0).Verify(token)
	require.Error(t, err)
}

func TestReissuedCopiesClaimsVerbatim(t *testing.T) {
	t.Parallel()

	issued := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	claims := NewSessionClaims("u1", "sid", "a@b.com", "Kim", "USER", "/x.png", "tok1", time.Hour, "admin-gateway", issued)

	later := issued.Add(30 * time.Minute)
	next := claims.Reissued(2*time.Hour, later)

	require.Equal(t, claims.SID, next.SID)
	require.Equal(t, claims.Email, next.Email)
	require.Equal(t, claims.Name, next.Name)
	require.Equal(t, claims.Role, next.Role)
	require.Equal(t, claims.Picture, next.Picture)
	require.Equal(t, claims.AccessToken, next.AccessToken)
	require.Equal(t, later.Add(2*time.Hour), next.ExpiresAt.Time)
}

type memKeyStore struct {
	records []SigningKeyRecord
}

func (s *memKeyStore) ListSigningKeys(_ context.Context) ([]SigningKeyRecord, error) {
	return s.records, nil
}

func (s *memKeyStore) CreateSigningKey(_ context.Context, key SigningKeyRecord) error {
	s.records = append(s.records, key)
	return nil
}

func TestPersistentKeyManagerReloadsKeys(t *testing.T) {
	ctx := context.Background()
	ks := &memKeyStore{}

	first, err := NewPersistentKeyManager(ctx, ks, KeyManagerOptions{Issuer: "admin-gateway", NumKeys: 2})
	require.NoError(t, err)
	require.Equal(t, 2, first.NumSigners())
	require.Len(t, ks.records, 2)

	claims := NewSessionClaims("u1", "sid", "", "", "", "", "tok", time.Hour, "admin-gateway", time.Now().UTC())
	token, err := first.Signer().Sign(claims)
	require.NoError(t, err)

	// A second manager built from the same store must verify tokens signed
	// before the "restart".
	second, err := NewPersistentKeyManager(ctx, ks, KeyManagerOptions{Issuer: "admin-gateway", NumKeys: 2})
	require.NoError(t, err)
	require.Equal(t, 2, second.NumSigners())
	require.Len(t, ks.records, 2)

	got, err := second.Verifier(0).Verify(token)
	require.NoError(t, err)
	require.Equal(t, "tok", got.AccessToken)
}
