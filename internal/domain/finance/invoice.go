package finance

import (
	"time"

	"github.com/acme/invoicing/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the settlement state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

// IsValid checks if the status is one of the known values
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPaid:
		return true
	}
	return false
}

// Invoice is the aggregate root for billing a customer.
// Amount is held in minor units (cents). Date is the UTC calendar day the
// invoice was issued and never changes after creation.
type Invoice struct {
	shared.BaseAggregateRoot
	CustomerID uuid.UUID
	Amount     int64
	Status     InvoiceStatus
	Date       time.Time
}

// NewInvoice creates an invoice issued on the calendar day of now
func NewInvoice(customerID uuid.UUID, draft InvoiceDraft, now time.Time) *Invoice {
	invoice := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		Amount:            draft.Amount,
		Status:            draft.Status,
		Date:              CalendarDate(now),
	}
	invoice.AddDomainEvent(NewInvoiceCreatedEvent(invoice))
	return invoice
}

// ReviseInvoice describes a full-field update of an existing invoice.
// Only the customer, amount and status are carried; the issue date is left
// to whatever the store already holds.
func ReviseInvoice(id, customerID uuid.UUID, draft InvoiceDraft) *Invoice {
	invoice := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		Amount:            draft.Amount,
		Status:            draft.Status,
	}
	invoice.ID = id
	invoice.AddDomainEvent(NewInvoiceUpdatedEvent(invoice))
	return invoice
}

// AmountDecimal returns the amount in major units
func (i *Invoice) AmountDecimal() decimal.Decimal {
	return decimal.New(i.Amount, -2)
}

// CalendarDate truncates t to midnight of its UTC day
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
