package auth

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTokenBlacklist(t *testing.T) {
	ctx := context.Background()
	blacklist := NewInMemoryTokenBlacklist()

	revoked, err := blacklist.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, blacklist.AddToBlacklist(ctx, "jti-1", time.Minute))

	revoked, err = blacklist.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = blacklist.IsBlacklisted(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryTokenBlacklist_Expiration(t *testing.T) {
	ctx := context.Background()
	blacklist := NewInMemoryTokenBlacklist()

	require.NoError(t, blacklist.AddToBlacklist(ctx, "jti-1", 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	revoked, err := blacklist.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
	assert.Empty(t, blacklist.revoked)
}

func TestInMemoryTokenBlacklist_Purge(t *testing.T) {
	ctx := context.Background()
	blacklist := NewInMemoryTokenBlacklist()

	require.NoError(t, blacklist.AddToBlacklist(ctx, "short", 5*time.Millisecond))
	require.NoError(t, blacklist.AddToBlacklist(ctx, "long", time.Minute))
	time.Sleep(10 * time.Millisecond)

	assert.Equal(t, 1, blacklist.Purge())
	assert.Len(t, blacklist.revoked, 1)
	assert.Contains(t, blacklist.revoked, "long")
}

func TestInMemoryTokenBlacklist_ExpiredTokenIsNotStored(t *testing.T) {
	blacklist := NewInMemoryTokenBlacklist()
	require.NoError(t, blacklist.AddToBlacklist(context.Background(), "jti-1", 0))
	assert.Empty(t, blacklist.revoked)
}

func TestRedisTokenBlacklist_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	blacklist := NewRedisTokenBlacklist(client)
	assert.Equal(t, "session:revoked:abc", blacklist.jtiKey("abc"))

	err := blacklist.AddToBlacklist(context.Background(), "abc", time.Minute)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to add token to blacklist")

	_, err = blacklist.IsBlacklisted(context.Background(), "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to check token blacklist")
}
