package models

import (
	"time"

	"github.com/acme/invoicing/internal/domain/finance"
	"github.com/google/uuid"
)

// InvoiceModel is the persistence model for the Invoice aggregate.
// Amount is stored in cents and Date as a calendar day.
type InvoiceModel struct {
	BaseModel
	CustomerID uuid.UUID             `gorm:"type:uuid;not null;index"`
	Amount     int64                 `gorm:"not null"`
	Status     finance.InvoiceStatus `gorm:"type:varchar(255);not null"`
	Date       time.Time             `gorm:"type:date;not null"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice
func (m *InvoiceModel) ToDomain() *finance.Invoice {
	return &finance.Invoice{
		BaseAggregateRoot: m.aggregate(),
		CustomerID:        m.CustomerID,
		Amount:            m.Amount,
		Status:            m.Status,
		Date:              finance.CalendarDate(m.Date),
	}
}

// FromDomain populates the persistence model from a domain Invoice
func (m *InvoiceModel) FromDomain(i *finance.Invoice) {
	m.FromDomainBaseEntity(i.BaseEntity)
	m.CustomerID = i.CustomerID
	m.Amount = i.Amount
	m.Status = i.Status
	m.Date = i.Date
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice
func InvoiceModelFromDomain(i *finance.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(i)
	return m
}

// InvoiceSummaryRow is the scan target of the invoice listing join
type InvoiceSummaryRow struct {
	ID            uuid.UUID
	CustomerID    uuid.UUID
	CustomerName  string
	CustomerEmail string
	ImageURL      string
	Amount        int64
	Status        finance.InvoiceStatus
	Date          time.Time
}

// ToDomain converts the row to a listing summary
func (r InvoiceSummaryRow) ToDomain() finance.InvoiceSummary {
	return finance.InvoiceSummary{
		ID:            r.ID,
		CustomerID:    r.CustomerID,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		ImageURL:      r.ImageURL,
		Amount:        r.Amount,
		Status:        r.Status,
		Date:          finance.CalendarDate(r.Date),
	}
}
