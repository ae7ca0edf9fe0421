package finance

import (
	"github.com/acme/invoicing/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeInvoice = "Invoice"

// Event type constants
const (
	EventTypeInvoiceCreated = "InvoiceCreated"
	EventTypeInvoiceUpdated = "InvoiceUpdated"
	EventTypeInvoiceDeleted = "InvoiceDeleted"
)

// InvoiceCreatedEvent is published when a new invoice is stored
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID     `json:"customer_id"`
	Amount     int64         `json:"amount"`
	Status     InvoiceStatus `json:"status"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(invoice *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, AggregateTypeInvoice, invoice.ID),
		CustomerID:      invoice.CustomerID,
		Amount:          invoice.Amount,
		Status:          invoice.Status,
	}
}

// InvoiceUpdatedEvent is published when an invoice is revised
type InvoiceUpdatedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID     `json:"customer_id"`
	Amount     int64         `json:"amount"`
	Status     InvoiceStatus `json:"status"`
}

// NewInvoiceUpdatedEvent creates a new InvoiceUpdatedEvent
func NewInvoiceUpdatedEvent(invoice *Invoice) *InvoiceUpdatedEvent {
	return &InvoiceUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceUpdated, AggregateTypeInvoice, invoice.ID),
		CustomerID:      invoice.CustomerID,
		Amount:          invoice.Amount,
		Status:          invoice.Status,
	}
}

// InvoiceDeletedEvent is published after a delete by id, whether or not a
// row existed.
type InvoiceDeletedEvent struct {
	shared.BaseDomainEvent
}

// NewInvoiceDeletedEvent creates a new InvoiceDeletedEvent
func NewInvoiceDeletedEvent(id uuid.UUID) *InvoiceDeletedEvent {
	return &InvoiceDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceDeleted, AggregateTypeInvoice, id),
	}
}
