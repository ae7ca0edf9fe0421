package finance

import (
	"context"
	"time"

	"github.com/acme/invoicing/internal/domain/shared"
	"github.com/google/uuid"
)

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// Create inserts a new invoice
	Create(ctx context.Context, invoice *Invoice) error

	// Update overwrites customer, amount and status of the invoice with the
	// same ID. Matching no row is not an error.
	Update(ctx context.Context, invoice *Invoice) error

	// Delete removes the invoice by ID. Matching no row is not an error.
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds an invoice by ID, returning shared.ErrNotFound when absent
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindAll lists invoices joined with their customer, newest first
	FindAll(ctx context.Context, filter shared.Filter) ([]InvoiceSummary, int64, error)
}

// InvoiceSummary is a listing row: an invoice with its customer's details
type InvoiceSummary struct {
	ID            uuid.UUID
	CustomerID    uuid.UUID
	CustomerName  string
	CustomerEmail string
	ImageURL      string
	Amount        int64
	Status        InvoiceStatus
	Date          time.Time
}
