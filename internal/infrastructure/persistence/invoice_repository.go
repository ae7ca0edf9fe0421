package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/acme/invoicing/internal/domain/finance"
	"github.com/acme/invoicing/internal/domain/shared"
	"github.com/acme/invoicing/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// Create inserts a new invoice
func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *finance.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	return translateError(r.db.WithContext(ctx).Create(model).Error)
}

// Update overwrites the mutable columns of the invoice. The issue date is
// never written.
func (r *GormInvoiceRepository) Update(ctx context.Context, invoice *finance.Invoice) error {
	err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("id = ?", invoice.ID).
		Updates(map[string]any{
			"customer_id": invoice.CustomerID,
			"amount":      invoice.Amount,
			"status":      invoice.Status,
			"updated_at":  time.Now().UTC(),
		}).Error
	return translateError(err)
}

// Delete removes the invoice by ID
func (r *GormInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return translateError(r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.InvoiceModel{}).Error)
}

// FindByID finds an invoice by its ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists invoices with their customer, newest issue date first
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.InvoiceSummary, int64, error) {
	var total int64
	if err := r.listing(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.InvoiceSummaryRow
	err := r.listing(ctx, filter).
		Select(`invoices.id, invoices.customer_id,
			customers.name AS customer_name, customers.email AS customer_email, customers.image_url,
			invoices.amount, invoices.status, invoices.date`).
		Order("invoices.date DESC").
		Order("invoices.created_at DESC").
		Scopes(paginate(filter)).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	summaries := make([]finance.InvoiceSummary, len(rows))
	for i, row := range rows {
		summaries[i] = row.ToDomain()
	}
	return summaries, total, nil
}

func (r *GormInvoiceRepository) listing(ctx context.Context, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Joins("JOIN customers ON customers.id = invoices.customer_id")

	if strings.TrimSpace(filter.Search) != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(
			`LOWER(customers.name) LIKE ? ESCAPE '\' OR LOWER(customers.email) LIKE ? ESCAPE '\' OR LOWER(invoices.status) LIKE ? ESCAPE '\'`,
			pattern, pattern, pattern,
		)
	}
	return query
}

var _ finance.InvoiceRepository = (*GormInvoiceRepository)(nil)
