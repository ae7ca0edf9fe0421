package partner

import (
	"context"
	"fmt"

	"github.com/acme/invoicing/internal/application/form"
	"github.com/acme/invoicing/internal/domain/partner"
	"github.com/acme/invoicing/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Form-state messages
const (
	MsgCreateInvalid = "Missing Fields. Failed to Add Customer."
	MsgUpdateInvalid = "Missing Fields. Failed to Update Customer."
	MsgCreateFailed  = "Database Error: Failed to Add Customer."
	MsgUpdateFailed  = "Database Error: Failed to Update Customer."
	MsgDeleteFailed  = "Database Error: Failed to Delete Customer."
	MsgDeleted       = "Deleted Customer."
)

// CustomerService handles customer form submissions and the customer views
type CustomerService struct {
	customerRepo   partner.CustomerRepository
	eventPublisher shared.EventPublisher
	cache          form.ListingCache
	logger         *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(
	customerRepo partner.CustomerRepository,
	eventPublisher shared.EventPublisher,
	cache form.ListingCache,
	logger *zap.Logger,
) *CustomerService {
	if cache == nil {
		cache = form.NoopListingCache{}
	}
	return &CustomerService{
		customerRepo:   customerRepo,
		eventPublisher: eventPublisher,
		cache:          cache,
		logger:         logger,
	}
}

// Create validates the form and stores a new customer with the placeholder image
func (s *CustomerService) Create(ctx context.Context, in partner.CustomerForm) *form.State {
	draft, errs := partner.ParseCustomerForm(in)
	if errs.HasErrors() {
		return form.Invalid(errs, MsgCreateInvalid)
	}

	customer := partner.NewCustomer(draft)
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		s.logger.Error("Failed to create customer", zap.Error(err))
		return form.StorageError(MsgCreateFailed)
	}

	s.publish(ctx, customer.GetDomainEvents()...)
	customer.ClearDomainEvents()
	return form.RedirectTo(form.CustomersPath)
}

// Update validates the form and overwrites name, email and image of the customer
func (s *CustomerService) Update(ctx context.Context, id string, in partner.CustomerForm) *form.State {
	draft, errs := partner.ParseCustomerForm(in)
	if errs.HasErrors() {
		return form.Invalid(errs, MsgUpdateInvalid)
	}

	customerID, err := uuid.Parse(id)
	if err != nil {
		s.logger.Warn("Customer update with malformed id", zap.String("customer_id", id))
		return form.StorageError(MsgUpdateFailed)
	}

	customer := partner.ReviseCustomer(customerID, draft)
	if err := s.customerRepo.Update(ctx, customer); err != nil {
		s.logger.Error("Failed to update customer", zap.String("customer_id", id), zap.Error(err))
		return form.StorageError(MsgUpdateFailed)
	}

	s.publish(ctx, customer.GetDomainEvents()...)
	customer.ClearDomainEvents()
	return form.RedirectTo(form.CustomersPath)
}

// Delete removes the customer. A customer still referenced by invoices is
// rejected by the store's foreign key and reported as a storage failure.
func (s *CustomerService) Delete(ctx context.Context, id string) *form.State {
	customerID, err := uuid.Parse(id)
	if err != nil {
		s.logger.Warn("Customer delete with malformed id", zap.String("customer_id", id))
		return form.StorageError(MsgDeleteFailed)
	}

	if err := s.customerRepo.Delete(ctx, customerID); err != nil {
		s.logger.Error("Failed to delete customer", zap.String("customer_id", id), zap.Error(err))
		return form.StorageError(MsgDeleteFailed)
	}

	s.publish(ctx, partner.NewCustomerDeletedEvent(customerID))
	return form.Done(MsgDeleted)
}

// GetByID loads a customer for the edit form
func (s *CustomerService) GetByID(ctx context.Context, id string) (*CustomerResponse, error) {
	customerID, err := uuid.Parse(id)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// List returns a page of customers with their invoice totals
func (s *CustomerService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[CustomerListItem], error) {
	key := fmt.Sprintf("page=%d&size=%d&q=%s", filter.Page, filter.PageSize, filter.Search)
	cached, gen, ok := s.cache.Get(form.CustomersPath, key)
	if ok {
		if page, ok := cached.(*shared.Paginated[CustomerListItem]); ok {
			return page, nil
		}
	}

	rows, total, err := s.customerRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(ToCustomerListItems(rows), total, filter.Page, filter.PageSize)
	s.cache.Set(form.CustomersPath, key, gen, &page)
	return &page, nil
}

func (s *CustomerService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish customer events", zap.Error(err))
	}
}
