package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	financeapp "github.com/acme/invoicing/internal/application/finance"
	"github.com/acme/invoicing/internal/application/form"
	"github.com/acme/invoicing/internal/domain/finance"
	"github.com/acme/invoicing/internal/domain/shared"
	"github.com/acme/invoicing/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupInvoiceRouter(svc *mockInvoiceService, metrics *mockMetrics) *gin.Engine {
	h := NewInvoiceHandler(svc)
	if metrics != nil {
		h.SetMetrics(metrics)
	}
	r := gin.New()
	r.GET("/invoices", h.List)
	r.GET("/invoices/:id", h.GetByID)
	r.POST("/invoices", h.Create)
	r.PUT("/invoices/:id", h.Update)
	r.DELETE("/invoices/:id", h.Delete)
	return r
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func formRequest(method, target string, values url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestInvoiceHandler_Create(t *testing.T) {
	customerID := uuid.NewString()

	t.Run("json success returns the redirect", func(t *testing.T) {
		svc := new(mockInvoiceService)
		metrics := new(mockMetrics)
		svc.On("Create", mock.Anything, finance.InvoiceForm{CustomerID: customerID, Amount: "12.5", Status: "pending"}).
			Return(form.RedirectTo(form.InvoicesPath))
		metrics.On("RecordFormSubmission", "invoice", "create", "success").Once()

		w := httptest.NewRecorder()
		setupInvoiceRouter(svc, metrics).ServeHTTP(w, jsonRequest(http.MethodPost, "/invoices",
			`{"customerId":"`+customerID+`","amount":12.5,"status":"pending"}`))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"redirect":"/dashboard/invoices"}`, w.Body.String())
		svc.AssertExpectations(t)
		metrics.AssertExpectations(t)
	})

	t.Run("form post success answers 303", func(t *testing.T) {
		svc := new(mockInvoiceService)
		svc.On("Create", mock.Anything, finance.InvoiceForm{CustomerID: customerID, Amount: "100", Status: "paid"}).
			Return(form.RedirectTo(form.InvoicesPath))

		w := httptest.NewRecorder()
		setupInvoiceRouter(svc, nil).ServeHTTP(w, formRequest(http.MethodPost, "/invoices", url.Values{
			"customerId": {customerID},
			"amount":     {"100"},
			"status":     {"paid"},
		}))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, form.InvoicesPath, w.Header().Get("Location"))
	})

	t.Run("validation failure answers 422 with field errors", func(t *testing.T) {
		svc := new(mockInvoiceService)
		metrics := new(mockMetrics)
		errs := shared.FieldErrors{}
		errs.Add("customerId", finance.MsgSelectCustomer)
		errs.Add("amount", finance.MsgAmountPositive)
		errs.Add("status", finance.MsgSelectStatus)
		svc.On("Create", mock.Anything, finance.InvoiceForm{}).
			Return(form.Invalid(errs, financeapp.MsgCreateInvalid))
		metrics.On("RecordFormSubmission", "invoice", "create", "validation_error").Once()

		w := httptest.NewRecorder()
		setupInvoiceRouter(svc, metrics).ServeHTTP(w, jsonRequest(http.MethodPost, "/invoices", `{}`))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		var body form.State
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, financeapp.MsgCreateInvalid, body.Message)
		assert.Equal(t, []string{finance.MsgSelectCustomer}, body.Errors["customerId"])
		assert.Len(t, body.Errors, 3)
		metrics.AssertExpectations(t)
	})

	t.Run("form post validation failure is not redirected", func(t *testing.T) {
		svc := new(mockInvoiceService)
		errs := shared.FieldErrors{}
		errs.Add("status", finance.MsgSelectStatus)
		svc.On("Create", mock.Anything, mock.Anything).Return(form.Invalid(errs, financeapp.MsgCreateInvalid))

		w := httptest.NewRecorder()
		setupInvoiceRouter(svc, nil).ServeHTTP(w, formRequest(http.MethodPost, "/invoices", url.Values{"amount": {"5"}}))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Empty(t, w.Header().Get("Location"))
	})

	t.Run("storage failure answers 500 with the message", func(t *testing.T) {
		svc := new(mockInvoiceService)
		svc.On("Create", mock.Anything, mock.Anything).Return(form.StorageError(financeapp.MsgCreateFailed))

		w := httptest.NewRecorder()
		setupInvoiceRouter(svc, nil).ServeHTTP(w, jsonRequest(http.MethodPost, "/invoices",
			`{"customerId":"`+customerID+`","amount":"1","status":"paid"}`))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"message":"Database Error: Failed to Create Invoice."}`, w.Body.String())
	})

	t.Run("malformed json is a bad request", func(t *testing.T) {
		svc := new(mockInvoiceService)

		w := httptest.NewRecorder()
		setupInvoiceRouter(svc, nil).ServeHTTP(w, jsonRequest(http.MethodPost, "/invoices", `{"amount":`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestInvoiceHandler_Update(t *testing.T) {
	svc := new(mockInvoiceService)
	id := uuid.NewString()
	svc.On("Update", mock.Anything, id, finance.InvoiceForm{CustomerID: "c", Amount: "3", Status: "paid"}).
		Return(form.RedirectTo(form.InvoicesPath))

	w := httptest.NewRecorder()
	setupInvoiceRouter(svc, nil).ServeHTTP(w, jsonRequest(http.MethodPut, "/invoices/"+id,
		`{"customerId":"c","amount":"3","status":"paid"}`))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"redirect":"/dashboard/invoices"}`, w.Body.String())
	svc.AssertExpectations(t)
}

func TestInvoiceHandler_Delete(t *testing.T) {
	t.Run("reports the deletion", func(t *testing.T) {
		svc := new(mockInvoiceService)
		svc.On("Delete", mock.Anything, "abc").Return(form.Done(financeapp.MsgDeleted))

		w := httptest.NewRecorder()
		setupInvoiceRouter(svc, nil).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/invoices/abc", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"Deleted Invoice."}`, w.Body.String())
	})

	t.Run("storage failure", func(t *testing.T) {
		svc := new(mockInvoiceService)
		svc.On("Delete", mock.Anything, "abc").Return(form.StorageError(financeapp.MsgDeleteFailed))

		w := httptest.NewRecorder()
		setupInvoiceRouter(svc, nil).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/invoices/abc", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), financeapp.MsgDeleteFailed)
	})
}

func TestInvoiceHandler_List(t *testing.T) {
	t.Run("passes the query and paging", func(t *testing.T) {
		svc := new(mockInvoiceService)
		page := shared.NewPaginated([]financeapp.InvoiceListItem{{Name: "Lee Robinson", AmountFormatted: "$157.95"}}, 1, 2, 10)
		svc.On("List", mock.Anything, shared.Filter{Page: 2, PageSize: 10, Search: "lee"}).Return(&page, nil)

		w := httptest.NewRecorder()
		setupInvoiceRouter(svc, nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/invoices?query=lee&page=2&page_size=10", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var body shared.Paginated[financeapp.InvoiceListItem]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Lee Robinson", body.Items[0].Name)
		assert.Equal(t, 2, body.Page)
	})

	t.Run("rejects an out of range page size", func(t *testing.T) {
		svc := new(mockInvoiceService)

		w := httptest.NewRecorder()
		setupInvoiceRouter(svc, nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/invoices?page_size=1000", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("storage failure is a generic 500", func(t *testing.T) {
		svc := new(mockInvoiceService)
		svc.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

		w := httptest.NewRecorder()
		setupInvoiceRouter(svc, nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/invoices", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		var body dto.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, MsgUnexpected, body.Message)
		assert.NotContains(t, w.Body.String(), "connection reset")
	})
}

func TestInvoiceHandler_GetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := new(mockInvoiceService)
		resp := &financeapp.InvoiceResponse{Amount: 15795, AmountFormatted: "$157.95", Status: "pending"}
		svc.On("GetByID", mock.Anything, "abc").Return(resp, nil)

		w := httptest.NewRecorder()
		setupInvoiceRouter(svc, nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/invoices/abc", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"amount":15795`)
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(mockInvoiceService)
		svc.On("GetByID", mock.Anything, "abc").Return(nil, shared.ErrNotFound)

		w := httptest.NewRecorder()
		setupInvoiceRouter(svc, nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/invoices/abc", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		var body dto.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, dto.ErrCodeNotFound, body.Code)
	})
}
