package partner

import (
	"strings"

	"github.com/acme/invoicing/internal/domain/shared"
	"github.com/google/uuid"
)

// PlaceholderImageURL is the avatar assigned to every customer. Image uploads
// are not supported, so the URL is never taken from the submission.
const PlaceholderImageURL = "/customers/placeholder.png"

// Customer is the aggregate root for a billed party
type Customer struct {
	shared.BaseAggregateRoot
	Name     string
	Email    string
	ImageURL string
}

// NewCustomer creates a customer from a validated draft
func NewCustomer(draft CustomerDraft) *Customer {
	customer := &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              draft.Name,
		Email:             draft.Email,
		ImageURL:          PlaceholderImageURL,
	}
	customer.AddDomainEvent(NewCustomerCreatedEvent(customer))
	return customer
}

// ReviseCustomer describes a full-field update of the customer with the given ID
func ReviseCustomer(id uuid.UUID, draft CustomerDraft) *Customer {
	customer := &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              draft.Name,
		Email:             draft.Email,
		ImageURL:          PlaceholderImageURL,
	}
	customer.ID = id
	customer.AddDomainEvent(NewCustomerUpdatedEvent(customer))
	return customer
}

// CustomerForm is the raw customer submission
type CustomerForm struct {
	Name  string `form:"name" json:"name"`
	Email string `form:"email" json:"email"`
}

// CustomerDraft is a validated customer submission
type CustomerDraft struct {
	Name  string
	Email string
}

// ParseCustomerForm validates the raw form. Names are trimmed; emails are
// trimmed and lower-cased before the rules run.
func ParseCustomerForm(form CustomerForm) (CustomerDraft, shared.FieldErrors) {
	name := strings.TrimSpace(form.Name)
	email := shared.NormalizeEmail(form.Email)

	errs := shared.FieldErrors{}
	errs.Check("name", name, shared.RuleFilled)
	errs.Check("email", email, shared.RuleFilled, shared.RuleEmail)

	if errs.HasErrors() {
		return CustomerDraft{}, errs
	}
	return CustomerDraft{Name: name, Email: email}, nil
}
