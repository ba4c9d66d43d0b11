package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)

	assert.True(t, CheckPassword(hash, "hunter2"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("not a hash", "hunter2"))
}

func TestVerifier(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)
	v := NewVerifier(StaticCredentials{"alice": hash})
	ctx := context.Background()

	assert.NoError(t, v.Verify(ctx, "alice", "secret"))
	assert.ErrorIs(t, v.Verify(ctx, "alice", "wrong"), ErrInvalidCredentials)
	// Unknown user and wrong password are indistinguishable.
	assert.ErrorIs(t, v.Verify(ctx, "mallory", "secret"), ErrInvalidCredentials)
	assert.ErrorIs(t, v.Verify(ctx, "", "secret"), ErrInvalidCredentials)
	assert.ErrorIs(t, v.Verify(ctx, "alice", ""), ErrInvalidCredentials)
}

func TestAllowAny(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, AllowAny{}.Verify(ctx, "anyone", ""))
	assert.ErrorIs(t, AllowAny{}.Verify(ctx, "", ""), ErrInvalidCredentials)
}
