package cache

import (
	"context"
	"sync"
	"time"

	"github.com/acme/invoicing/internal/application/event"
	"go.uber.org/zap"
)

// FanoutInvalidator drops the local copy of a path synchronously and
// forwards the invalidation to the remote invalidators in the background.
// Remote failures are logged; the local drop already made this instance
// consistent.
type FanoutInvalidator struct {
	local   event.PathInvalidator
	remotes []event.PathInvalidator
	timeout time.Duration
	logger  *zap.Logger
	wg      sync.WaitGroup
}

// NewFanoutInvalidator creates an invalidator. timeout bounds each remote call.
func NewFanoutInvalidator(local event.PathInvalidator, timeout time.Duration, logger *zap.Logger, remotes ...event.PathInvalidator) *FanoutInvalidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FanoutInvalidator{
		local:   local,
		remotes: remotes,
		timeout: timeout,
		logger:  logger,
	}
}

// Invalidate drops path locally, then notifies the remotes
func (f *FanoutInvalidator) Invalidate(ctx context.Context, path string) error {
	if err := f.local.Invalidate(ctx, path); err != nil {
		return err
	}

	for _, remote := range f.remotes {
		f.wg.Add(1)
		go func(remote event.PathInvalidator) {
			defer f.wg.Done()

			// detached from the request so a finished response does not cancel it
			rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.timeout)
			defer cancel()

			if err := remote.Invalidate(rctx, path); err != nil {
				f.logger.Warn("Remote cache invalidation failed",
					zap.String("path", path),
					zap.Error(err))
			}
		}(remote)
	}
	return nil
}

// Wait blocks until in-flight remote notifications have finished
func (f *FanoutInvalidator) Wait() {
	f.wg.Wait()
}

var _ event.PathInvalidator = (*FanoutInvalidator)(nil)
