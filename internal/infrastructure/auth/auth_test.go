package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/erp/client/internal/domain/identity"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUser = identity.UserInfo{ID: "user-001", Username: "zhangsan", Roles: []string{"ROLE_SALES"}}

func newTestTokenService() *TokenService {
	return NewTokenService(TokenConfig{
		Secret: "test-secret-key-at-least-32-chars",
		TTL:    time.Hour,
		Issuer: "erp-mock",
	})
}

func TestTokenService_IssueAndValidate(t *testing.T) {
	svc := newTestTokenService()

	token, expiresAt, err := svc.Issue(testUser)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-001", claims.UserID)
	assert.Equal(t, "zhangsan", claims.Username)
	assert.Equal(t, []string{"ROLE_SALES"}, claims.Roles)
	assert.NotEmpty(t, claims.ID)
	assert.InDelta(t, time.Hour.Seconds(), claims.RemainingTTL(time.Now()).Seconds(), 60)
}

func TestTokenService_UniqueIDs(t *testing.T) {
	svc := newTestTokenService()
	a, _, err := svc.Issue(testUser)
	require.NoError(t, err)
	b, _, err := svc.Issue(testUser)
	require.NoError(t, err)

	ca, err := svc.Validate(a)
	require.NoError(t, err)
	cb, err := svc.Validate(b)
	require.NoError(t, err)
	assert.NotEqual(t, ca.ID, cb.ID)
}

func TestTokenService_Expired(t *testing.T) {
	svc := newTestTokenService()
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := svc.Issue(testUser)
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenService_Invalid(t *testing.T) {
	svc := newTestTokenService()
	token, _, err := svc.Issue(testUser)
	require.NoError(t, err)

	other := NewTokenService(TokenConfig{Secret: "another-secret-key-of-32-chars!!", TTL: time.Hour, Issuer: "erp-mock"})
	_, err = other.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongIssuer := NewTokenService(TokenConfig{Secret: "test-secret-key-at-least-32-chars", TTL: time.Hour, Issuer: "elsewhere"})
	_, err = wrongIssuer.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Validate(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_MissingUserID(t *testing.T) {
	svc := newTestTokenService()
	token, _, err := svc.Issue(identity.UserInfo{Username: "ghost"})
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrMissingUserID)
}

func TestClaims_RemainingTTL(t *testing.T) {
	assert.Zero(t, (&Claims{}).RemainingTTL(time.Now()))

	svc := newTestTokenService()
	token, _, err := svc.Issue(testUser)
	require.NoError(t, err)
	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Zero(t, claims.RemainingTTL(time.Now().Add(2*time.Hour)))
}

func TestMemoryBlacklist(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBlacklist()

	revoked, err := b.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, b.Revoke(ctx, "jti-1", time.Minute))
	revoked, err = b.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	b.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	revoked, err = b.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
	assert.Empty(t, b.revoked)
}

func TestRedisBlacklist(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	b := NewRedisBlacklist(client, "")

	require.NoError(t, b.Revoke(ctx, "jti-1", time.Minute))
	assert.True(t, mr.Exists("erp:token:revoked:jti-1"))

	revoked, err := b.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Minute)
	revoked, err = b.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	// already expired tokens are not stored
	require.NoError(t, b.Revoke(ctx, "jti-2", 0))
	assert.False(t, mr.Exists("erp:token:revoked:jti-2"))
}
