package partner

import (
	"github.com/acme/invoicing/internal/domain/finance"
	"github.com/acme/invoicing/internal/domain/partner"
	"github.com/google/uuid"
)

// CustomerResponse is a customer as loaded into the edit form
type CustomerResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	ImageURL string    `json:"image_url"`
}

// ToCustomerResponse converts the aggregate to its response
func ToCustomerResponse(customer *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:       customer.ID,
		Name:     customer.Name,
		Email:    customer.Email,
		ImageURL: customer.ImageURL,
	}
}

// CustomerListItem is a customer row on the listing page
type CustomerListItem struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	ImageURL      string    `json:"image_url"`
	TotalInvoices int64     `json:"total_invoices"`
	TotalPending  string    `json:"total_pending"`
	TotalPaid     string    `json:"total_paid"`
}

// ToCustomerListItems converts listing rows to response items
func ToCustomerListItems(rows []partner.CustomerSummary) []CustomerListItem {
	items := make([]CustomerListItem, len(rows))
	for i, row := range rows {
		items[i] = CustomerListItem{
			ID:            row.ID,
			Name:          row.Name,
			Email:         row.Email,
			ImageURL:      row.ImageURL,
			TotalInvoices: row.TotalInvoices,
			TotalPending:  finance.FormatAmount(row.TotalPending),
			TotalPaid:     finance.FormatAmount(row.TotalPaid),
		}
	}
	return items
}
