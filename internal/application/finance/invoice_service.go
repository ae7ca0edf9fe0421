package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/acme/invoicing/internal/application/form"
	"github.com/acme/invoicing/internal/domain/finance"
	"github.com/acme/invoicing/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Form-state messages
const (
	MsgCreateInvalid = "Missing Fields. Failed to Create Invoice."
	MsgUpdateInvalid = "Missing Fields. Failed to Update Invoice."
	MsgCreateFailed  = "Database Error: Failed to Create Invoice."
	MsgUpdateFailed  = "Database Error: Failed to Update Invoice."
	MsgDeleteFailed  = "Database Error: Failed to Delete Invoice."
	MsgDeleted       = "Deleted Invoice."
)

// InvoiceService handles invoice form submissions and the invoice views
type InvoiceService struct {
	invoiceRepo    finance.InvoiceRepository
	eventPublisher shared.EventPublisher
	cache          form.ListingCache
	logger         *zap.Logger
	now            func() time.Time
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo finance.InvoiceRepository,
	eventPublisher shared.EventPublisher,
	cache form.ListingCache,
	logger *zap.Logger,
) *InvoiceService {
	if cache == nil {
		cache = form.NoopListingCache{}
	}
	return &InvoiceService{
		invoiceRepo:    invoiceRepo,
		eventPublisher: eventPublisher,
		cache:          cache,
		logger:         logger,
		now:            time.Now,
	}
}

// Create validates the form and stores a new invoice dated today
func (s *InvoiceService) Create(ctx context.Context, in finance.InvoiceForm) *form.State {
	draft, errs := finance.ParseInvoiceForm(in)
	if errs.HasErrors() {
		return form.Invalid(errs, MsgCreateInvalid)
	}

	customerID, err := uuid.Parse(draft.CustomerID)
	if err != nil {
		s.logger.Warn("Invoice references malformed customer id", zap.String("customer_id", draft.CustomerID))
		return form.StorageError(MsgCreateFailed)
	}

	invoice := finance.NewInvoice(customerID, draft, s.now())
	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		s.logger.Error("Failed to create invoice", zap.Error(err))
		return form.StorageError(MsgCreateFailed)
	}

	s.publish(ctx, invoice.GetDomainEvents()...)
	invoice.ClearDomainEvents()
	return form.RedirectTo(form.InvoicesPath)
}

// Update validates the form and overwrites customer, amount and status of
// the invoice. The issue date is kept. An id that matches no invoice is not
// reported.
func (s *InvoiceService) Update(ctx context.Context, id string, in finance.InvoiceForm) *form.State {
	draft, errs := finance.ParseInvoiceForm(in)
	if errs.HasErrors() {
		return form.Invalid(errs, MsgUpdateInvalid)
	}

	invoiceID, err := uuid.Parse(id)
	if err != nil {
		s.logger.Warn("Invoice update with malformed id", zap.String("invoice_id", id))
		return form.StorageError(MsgUpdateFailed)
	}
	customerID, err := uuid.Parse(draft.CustomerID)
	if err != nil {
		s.logger.Warn("Invoice references malformed customer id", zap.String("customer_id", draft.CustomerID))
		return form.StorageError(MsgUpdateFailed)
	}

	invoice := finance.ReviseInvoice(invoiceID, customerID, draft)
	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		s.logger.Error("Failed to update invoice", zap.String("invoice_id", id), zap.Error(err))
		return form.StorageError(MsgUpdateFailed)
	}

	s.publish(ctx, invoice.GetDomainEvents()...)
	invoice.ClearDomainEvents()
	return form.RedirectTo(form.InvoicesPath)
}

// Delete removes the invoice. Deleting an id that matches nothing still
// reports success.
func (s *InvoiceService) Delete(ctx context.Context, id string) *form.State {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		s.logger.Warn("Invoice delete with malformed id", zap.String("invoice_id", id))
		return form.StorageError(MsgDeleteFailed)
	}

	if err := s.invoiceRepo.Delete(ctx, invoiceID); err != nil {
		s.logger.Error("Failed to delete invoice", zap.String("invoice_id", id), zap.Error(err))
		return form.StorageError(MsgDeleteFailed)
	}

	s.publish(ctx, finance.NewInvoiceDeletedEvent(invoiceID))
	return form.Done(MsgDeleted)
}

// GetByID loads an invoice for the edit form
func (s *InvoiceService) GetByID(ctx context.Context, id string) (*InvoiceResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// List returns a page of invoices with their customers, newest first
func (s *InvoiceService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[InvoiceListItem], error) {
	key := fmt.Sprintf("page=%d&size=%d&q=%s", filter.Page, filter.PageSize, filter.Search)
	cached, gen, ok := s.cache.Get(form.InvoicesPath, key)
	if ok {
		if page, ok := cached.(*shared.Paginated[InvoiceListItem]); ok {
			return page, nil
		}
	}

	rows, total, err := s.invoiceRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(ToInvoiceListItems(rows), total, filter.Page, filter.PageSize)
	s.cache.Set(form.InvoicesPath, key, gen, &page)
	return &page, nil
}

// publish hands events to the bus. The write has already succeeded, so a
// failure is logged and not surfaced.
func (s *InvoiceService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish invoice events", zap.Error(err))
	}
}
