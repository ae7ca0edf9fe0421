package event

import (
	"context"

	"github.com/acme/invoicing/internal/application/form"
	"github.com/acme/invoicing/internal/domain/finance"
	"github.com/acme/invoicing/internal/domain/identity"
	"github.com/acme/invoicing/internal/domain/partner"
	"github.com/acme/invoicing/internal/domain/shared"
	"go.uber.org/zap"
)

// PathInvalidator drops whatever is cached for a logical view path
type PathInvalidator interface {
	Invalidate(ctx context.Context, path string) error
}

// revalidatedPaths maps each event to the views it makes stale. Customer
// changes also touch the invoice listing, which shows customer names.
var revalidatedPaths = map[string][]string{
	finance.EventTypeInvoiceCreated:  {form.InvoicesPath},
	finance.EventTypeInvoiceUpdated:  {form.InvoicesPath},
	finance.EventTypeInvoiceDeleted:  {form.InvoicesPath},
	partner.EventTypeCustomerCreated: {form.CustomersPath},
	partner.EventTypeCustomerUpdated: {form.CustomersPath, form.InvoicesPath},
	partner.EventTypeCustomerDeleted: {form.CustomersPath, form.InvoicesPath},
	identity.EventTypeUserRegistered: {form.InvoicesPath},
}

// RevalidationHandler invalidates cached views after a successful mutation
type RevalidationHandler struct {
	invalidator PathInvalidator
	logger      *zap.Logger
}

// NewRevalidationHandler creates a new RevalidationHandler
func NewRevalidationHandler(invalidator PathInvalidator, logger *zap.Logger) *RevalidationHandler {
	return &RevalidationHandler{
		invalidator: invalidator,
		logger:      logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *RevalidationHandler) EventTypes() []string {
	types := make([]string, 0, len(revalidatedPaths))
	for eventType := range revalidatedPaths {
		types = append(types, eventType)
	}
	return types
}

// Handle invalidates every path affected by the event. Failures are logged
// and the remaining paths are still attempted.
func (h *RevalidationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	var firstErr error
	for _, path := range revalidatedPaths[event.EventType()] {
		if err := h.invalidator.Invalidate(ctx, path); err != nil {
			h.logger.Warn("Failed to invalidate path",
				zap.String("path", path),
				zap.String("event_type", event.EventType()),
				zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		h.logger.Debug("Invalidated path",
			zap.String("path", path),
			zap.String("event_type", event.EventType()))
	}
	return firstErr
}

var _ shared.EventHandler = (*RevalidationHandler)(nil)
