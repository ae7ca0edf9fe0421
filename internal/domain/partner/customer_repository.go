package partner

import (
	"context"

	"github.com/acme/invoicing/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// Create inserts a new customer
	Create(ctx context.Context, customer *Customer) error

	// Update overwrites name, email and image URL of the customer with the
	// same ID. Matching no row is not an error.
	Update(ctx context.Context, customer *Customer) error

	// Delete removes the customer by ID. Matching no row is not an error.
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a customer by ID, returning shared.ErrNotFound when absent
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindAll lists customers ordered by name, with invoice totals
	FindAll(ctx context.Context, filter shared.Filter) ([]CustomerSummary, int64, error)
}

// CustomerSummary is a listing row with the customer's invoice totals in
// minor units.
type CustomerSummary struct {
	ID            uuid.UUID
	Name          string
	Email         string
	ImageURL      string
	TotalInvoices int64
	TotalPending  int64
	TotalPaid     int64
}
