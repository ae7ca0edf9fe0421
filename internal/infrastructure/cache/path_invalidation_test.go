package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/acme/invoicing/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func unreachableClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestRedisPathInvalidator_PublishError(t *testing.T) {
	client := unreachableClient()
	defer client.Close()

	inv := NewRedisPathInvalidator(client, "test:invalidate", nil)
	err := inv.Invalidate(context.Background(), "/dashboard/invoices")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/dashboard/invoices")
}

func TestRedisPathInvalidator_HandleMessage(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	inv := NewRedisPathInvalidator(unreachableClient(), "c", zap.New(core))

	var applied []string
	apply := func(_ context.Context, path string) { applied = append(applied, path) }

	foreign, _ := json.Marshal(invalidationMessage{Path: "/dashboard/customers", Origin: "other"})
	own, _ := json.Marshal(invalidationMessage{Path: "/dashboard/invoices", Origin: inv.origin})

	inv.handleMessage(context.Background(), string(foreign), apply)
	inv.handleMessage(context.Background(), string(own), apply)
	inv.handleMessage(context.Background(), "not json", apply)

	assert.Equal(t, []string{"/dashboard/customers"}, applied)
	assert.Equal(t, 1, logs.FilterMessage("Failed to unmarshal invalidation message").Len())
}

func TestRedisPathInvalidator_HandleMessageRecoversPanic(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	inv := NewRedisPathInvalidator(unreachableClient(), "c", zap.New(core))
	payload, _ := json.Marshal(invalidationMessage{Path: "/p", Origin: "other"})

	assert.NotPanics(t, func() {
		inv.handleMessage(context.Background(), string(payload), func(context.Context, string) { panic("boom") })
	})
	assert.Equal(t, 1, logs.FilterMessage("Panic applying path invalidation").Len())
}

func TestRedisPathInvalidator_CloseWithoutSubscribe(t *testing.T) {
	inv := NewRedisPathInvalidator(unreachableClient(), "c", nil)
	assert.NoError(t, inv.Close())
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	_, err := NewRedisClient(context.Background(), config.RedisConfig{Host: "127.0.0.1", Port: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
}
