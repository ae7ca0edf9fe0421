package handler

import (
	"context"

	financeapp "github.com/acme/invoicing/internal/application/finance"
	"github.com/acme/invoicing/internal/application/form"
	"github.com/acme/invoicing/internal/domain/finance"
	"github.com/acme/invoicing/internal/domain/shared"
	"github.com/acme/invoicing/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// InvoiceService is the application service behind InvoiceHandler
type InvoiceService interface {
	Create(ctx context.Context, in finance.InvoiceForm) *form.State
	Update(ctx context.Context, id string, in finance.InvoiceForm) *form.State
	Delete(ctx context.Context, id string) *form.State
	GetByID(ctx context.Context, id string) (*financeapp.InvoiceResponse, error)
	List(ctx context.Context, filter shared.Filter) (*shared.Paginated[financeapp.InvoiceListItem], error)
}

// InvoiceHandler handles invoice HTTP requests
type InvoiceHandler struct {
	BaseHandler
	invoiceService InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// List returns a page of invoices filtered by ?query=
func (h *InvoiceHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	page, err := h.invoiceService.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}

// GetByID returns one invoice for the edit form
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	invoice, err := h.invoiceService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Create handles the create invoice form
func (h *InvoiceHandler) Create(c *gin.Context) {
	var in finance.InvoiceForm
	if !h.bindForm(c, &in) {
		return
	}
	h.RespondForm(c, "invoice", "create", h.invoiceService.Create(c.Request.Context(), in))
}

// Update handles the edit invoice form
func (h *InvoiceHandler) Update(c *gin.Context) {
	var in finance.InvoiceForm
	if !h.bindForm(c, &in) {
		return
	}
	h.RespondForm(c, "invoice", "update", h.invoiceService.Update(c.Request.Context(), c.Param("id"), in))
}

// Delete removes an invoice
func (h *InvoiceHandler) Delete(c *gin.Context) {
	h.RespondForm(c, "invoice", "delete", h.invoiceService.Delete(c.Request.Context(), c.Param("id")))
}
