package handler

import (
	"context"

	"github.com/acme/invoicing/internal/application/form"
	partnerapp "github.com/acme/invoicing/internal/application/partner"
	"github.com/acme/invoicing/internal/domain/partner"
	"github.com/acme/invoicing/internal/domain/shared"
	"github.com/acme/invoicing/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// CustomerService is the application service behind CustomerHandler
type CustomerService interface {
	Create(ctx context.Context, in partner.CustomerForm) *form.State
	Update(ctx context.Context, id string, in partner.CustomerForm) *form.State
	Delete(ctx context.Context, id string) *form.State
	GetByID(ctx context.Context, id string) (*partnerapp.CustomerResponse, error)
	List(ctx context.Context, filter shared.Filter) (*shared.Paginated[partnerapp.CustomerListItem], error)
}

// CustomerHandler handles customer HTTP requests
type CustomerHandler struct {
	BaseHandler
	customerService CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// List returns customers with their invoice totals, filtered by ?query=
func (h *CustomerHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	page, err := h.customerService.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}

// GetByID returns one customer, 404 when the id matches nothing
func (h *CustomerHandler) GetByID(c *gin.Context) {
	customer, err := h.customerService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// Create handles the create customer form
func (h *CustomerHandler) Create(c *gin.Context) {
	var in partner.CustomerForm
	if !h.bindForm(c, &in) {
		return
	}
	h.RespondForm(c, "customer", "create", h.customerService.Create(c.Request.Context(), in))
}

// Update handles the edit customer form
func (h *CustomerHandler) Update(c *gin.Context) {
	var in partner.CustomerForm
	if !h.bindForm(c, &in) {
		return
	}
	h.RespondForm(c, "customer", "update", h.customerService.Update(c.Request.Context(), c.Param("id"), in))
}

// Delete removes a customer. Customers that still have invoices are refused by the store.
func (h *CustomerHandler) Delete(c *gin.Context) {
	h.RespondForm(c, "customer", "delete", h.customerService.Delete(c.Request.Context(), c.Param("id")))
}
