package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultCloseTimeout = 5 * time.Second

// ErrSubscriptionRunning is returned when Subscribe is called twice
var ErrSubscriptionRunning = errors.New("subscription already running")

// invalidationMessage is the pub/sub payload announcing a stale path
type invalidationMessage struct {
	Path      string `json:"path"`
	Origin    string `json:"origin"`
	Timestamp int64  `json:"timestamp"`
}

// RedisPathInvalidator broadcasts stale dashboard paths to the other
// instances over Redis pub/sub and applies the paths they broadcast.
type RedisPathInvalidator struct {
	client   redis.UniversalClient
	channel  string
	origin   string
	logger   *zap.Logger
	cancelFn context.CancelFunc
	doneCh   chan struct{}
	doneOnce sync.Once
	mu       sync.Mutex
	running  bool
}

// NewRedisPathInvalidator creates an invalidator publishing on channel. The
// caller keeps ownership of the client.
func NewRedisPathInvalidator(client redis.UniversalClient, channel string, logger *zap.Logger) *RedisPathInvalidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisPathInvalidator{
		client:  client,
		channel: channel,
		origin:  uuid.NewString(),
		logger:  logger,
		doneCh:  make(chan struct{}),
	}
}

// Invalidate announces that path is stale
func (i *RedisPathInvalidator) Invalidate(ctx context.Context, path string) error {
	data, err := json.Marshal(invalidationMessage{
		Path:      path,
		Origin:    i.origin,
		Timestamp: time.Now().UnixNano(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal invalidation message: %w", err)
	}

	if err := i.client.Publish(ctx, i.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish invalidation for %s: %w", path, err)
	}

	i.logger.Debug("Published path invalidation",
		zap.String("path", path),
		zap.String("channel", i.channel))
	return nil
}

// Subscribe blocks, calling apply for every path announced by another
// instance, until ctx is cancelled or Close is called. Messages this instance
// published are skipped since the local cache was already dropped.
func (i *RedisPathInvalidator) Subscribe(ctx context.Context, apply func(ctx context.Context, path string)) error {
	i.mu.Lock()
	if i.running {
		i.mu.Unlock()
		return ErrSubscriptionRunning
	}
	subCtx, cancel := context.WithCancel(ctx)
	i.running = true
	i.cancelFn = cancel
	i.mu.Unlock()

	defer func() {
		cancel()
		i.mu.Lock()
		i.running = false
		i.mu.Unlock()
		i.doneOnce.Do(func() { close(i.doneCh) })
	}()

	pubsub := i.client.Subscribe(subCtx, i.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(subCtx); err != nil {
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}

	i.logger.Info("Subscribed to cache invalidation channel", zap.String("channel", i.channel))

	ch := pubsub.Channel()
	for {
		select {
		case <-subCtx.Done():
			i.logger.Info("Cache invalidation subscription stopped")
			return subCtx.Err()
		case msg, ok := <-ch:
			if !ok {
				i.logger.Warn("Cache invalidation channel closed")
				return nil
			}
			i.handleMessage(subCtx, msg.Payload, apply)
		}
	}
}

func (i *RedisPathInvalidator) handleMessage(ctx context.Context, payload string, apply func(context.Context, string)) {
	var msg invalidationMessage
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		i.logger.Error("Failed to unmarshal invalidation message",
			zap.String("payload", payload),
			zap.Error(err))
		return
	}
	if msg.Origin == i.origin || msg.Path == "" {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			i.logger.Error("Panic applying path invalidation", zap.Any("panic", r))
		}
	}()
	apply(ctx, msg.Path)
}

// Close stops a running subscription and waits for it to exit
func (i *RedisPathInvalidator) Close() error {
	i.mu.Lock()
	cancelFn := i.cancelFn
	i.mu.Unlock()

	if cancelFn == nil {
		return nil
	}
	cancelFn()
	select {
	case <-i.doneCh:
	case <-time.After(defaultCloseTimeout):
		i.logger.Warn("Timeout waiting for subscription to stop")
	}
	return nil
}
