// Package form holds the result every mutating operation hands back to the
// view layer: either a redirect or field errors with a message.
package form

import "github.com/acme/invoicing/internal/domain/shared"

// Logical paths of the dashboard views
const (
	DashboardPath = "/dashboard"
	InvoicesPath  = "/dashboard/invoices"
	CustomersPath = "/dashboard/customers"
	LoginPath     = "/login"
)

// Outcome classifies a State for transport mapping
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeInvalid
	OutcomeConflict
	OutcomeStorageError
)

// State is the result of a form submission
type State struct {
	Errors   shared.FieldErrors `json:"errors,omitempty"`
	Message  string             `json:"message,omitempty"`
	Redirect string             `json:"redirect,omitempty"`
	Outcome  Outcome            `json:"-"`
}

// OK reports whether the submission succeeded
func (s *State) OK() bool {
	return s.Outcome == OutcomeSuccess
}

// RedirectTo is a successful submission that navigates to path
func RedirectTo(path string) *State {
	return &State{Redirect: path, Outcome: OutcomeSuccess}
}

// Done is a successful submission that stays on the current view
func Done(message string) *State {
	return &State{Message: message, Outcome: OutcomeSuccess}
}

// Invalid carries the field errors of a submission that failed validation
func Invalid(errs shared.FieldErrors, message string) *State {
	return &State{Errors: errs, Message: message, Outcome: OutcomeInvalid}
}

// Conflict is a submission rejected by a business rule
func Conflict(message string) *State {
	return &State{Message: message, Outcome: OutcomeConflict}
}

// StorageError is a submission the store failed to apply
func StorageError(message string) *State {
	return &State{Message: message, Outcome: OutcomeStorageError}
}
