package models

import (
	"github.com/acme/invoicing/internal/domain/partner"
	"github.com/google/uuid"
)

// CustomerModel is the persistence model for the Customer entity
type CustomerModel struct {
	BaseModel
	Name     string `gorm:"type:varchar(255);not null"`
	Email    string `gorm:"type:varchar(255);not null"`
	ImageURL string `gorm:"column:image_url;type:varchar(255);not null"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		BaseAggregateRoot: m.aggregate(),
		Name:              m.Name,
		Email:             m.Email,
		ImageURL:          m.ImageURL,
	}
}

// FromDomain populates the persistence model from a domain Customer
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.Email = c.Email
	m.ImageURL = c.ImageURL
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}

// CustomerSummaryRow is the scan target of the customer listing aggregate
type CustomerSummaryRow struct {
	ID            uuid.UUID
	Name          string
	Email         string
	ImageURL      string
	TotalInvoices int64
	TotalPending  int64
	TotalPaid     int64
}

// ToDomain converts the row to a listing summary
func (r CustomerSummaryRow) ToDomain() partner.CustomerSummary {
	return partner.CustomerSummary{
		ID:            r.ID,
		Name:          r.Name,
		Email:         r.Email,
		ImageURL:      r.ImageURL,
		TotalInvoices: r.TotalInvoices,
		TotalPending:  r.TotalPending,
		TotalPaid:     r.TotalPaid,
	}
}
