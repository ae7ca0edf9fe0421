package finance

import (
	"github.com/acme/invoicing/internal/domain/finance"
	"github.com/google/uuid"
)

// DateLayout is the calendar-date layout used on the wire
const DateLayout = "2006-01-02"

// InvoiceResponse is an invoice as loaded into the edit form
type InvoiceResponse struct {
	ID              uuid.UUID `json:"id"`
	CustomerID      uuid.UUID `json:"customer_id"`
	Amount          int64     `json:"amount"`
	AmountFormatted string    `json:"amount_formatted"`
	Status          string    `json:"status"`
	Date            string    `json:"date"`
}

// ToInvoiceResponse converts the aggregate to its response
func ToInvoiceResponse(invoice *finance.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:              invoice.ID,
		CustomerID:      invoice.CustomerID,
		Amount:          invoice.Amount,
		AmountFormatted: finance.FormatAmount(invoice.Amount),
		Status:          string(invoice.Status),
		Date:            invoice.Date.Format(DateLayout),
	}
}

// InvoiceListItem is an invoice row on the listing page
type InvoiceListItem struct {
	ID              uuid.UUID `json:"id"`
	CustomerID      uuid.UUID `json:"customer_id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	ImageURL        string    `json:"image_url"`
	Amount          int64     `json:"amount"`
	AmountFormatted string    `json:"amount_formatted"`
	Status          string    `json:"status"`
	Date            string    `json:"date"`
}

// ToInvoiceListItems converts listing rows to response items
func ToInvoiceListItems(rows []finance.InvoiceSummary) []InvoiceListItem {
	items := make([]InvoiceListItem, len(rows))
	for i, row := range rows {
		items[i] = InvoiceListItem{
			ID:              row.ID,
			CustomerID:      row.CustomerID,
			Name:            row.CustomerName,
			Email:           row.CustomerEmail,
			ImageURL:        row.ImageURL,
			Amount:          row.Amount,
			AmountFormatted: finance.FormatAmount(row.Amount),
			Status:          string(row.Status),
			Date:            row.Date.Format(DateLayout),
		}
	}
	return items
}
