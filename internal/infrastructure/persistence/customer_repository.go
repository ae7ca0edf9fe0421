package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/acme/invoicing/internal/domain/finance"
	"github.com/acme/invoicing/internal/domain/partner"
	"github.com/acme/invoicing/internal/domain/shared"
	"github.com/acme/invoicing/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// Create inserts a new customer
func (r *GormCustomerRepository) Create(ctx context.Context, customer *partner.Customer) error {
	model := models.CustomerModelFromDomain(customer)
	return translateError(r.db.WithContext(ctx).Create(model).Error)
}

// Update overwrites name, email and image URL of the customer
func (r *GormCustomerRepository) Update(ctx context.Context, customer *partner.Customer) error {
	err := r.db.WithContext(ctx).
		Model(&models.CustomerModel{}).
		Where("id = ?", customer.ID).
		Updates(map[string]any{
			"name":       customer.Name,
			"email":      customer.Email,
			"image_url":  customer.ImageURL,
			"updated_at": time.Now().UTC(),
		}).Error
	return translateError(err)
}

// Delete removes the customer by ID. The invoices foreign key rejects
// deleting a customer that is still billed.
func (r *GormCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return translateError(r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.CustomerModel{}).Error)
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists customers by name with their invoice count and totals
func (r *GormCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.CustomerSummary, int64, error) {
	var total int64
	if err := r.search(r.db.WithContext(ctx).Model(&models.CustomerModel{}), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.CustomerSummaryRow
	query := r.db.WithContext(ctx).
		Model(&models.CustomerModel{}).
		Select(`customers.id, customers.name, customers.email, customers.image_url,
			COUNT(invoices.id) AS total_invoices,
			COALESCE(SUM(CASE WHEN invoices.status = ? THEN invoices.amount ELSE 0 END), 0) AS total_pending,
			COALESCE(SUM(CASE WHEN invoices.status = ? THEN invoices.amount ELSE 0 END), 0) AS total_paid`,
			string(finance.InvoiceStatusPending), string(finance.InvoiceStatusPaid)).
		Joins("LEFT JOIN invoices ON invoices.customer_id = customers.id")
	err := r.search(query, filter).
		Group("customers.id, customers.name, customers.email, customers.image_url").
		Order("customers.name ASC").
		Scopes(paginate(filter)).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	summaries := make([]partner.CustomerSummary, len(rows))
	for i, row := range rows {
		summaries[i] = row.ToDomain()
	}
	return summaries, total, nil
}

func (r *GormCustomerRepository) search(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if strings.TrimSpace(filter.Search) == "" {
		return query
	}
	pattern := likePattern(filter.Search)
	return query.Where(`LOWER(customers.name) LIKE ? ESCAPE '\' OR LOWER(customers.email) LIKE ? ESCAPE '\'`, pattern, pattern)
}

var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)
