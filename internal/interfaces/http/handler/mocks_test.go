package handler

import (
	"context"
	"time"

	financeapp "github.com/acme/invoicing/internal/application/finance"
	"github.com/acme/invoicing/internal/application/form"
	identityapp "github.com/acme/invoicing/internal/application/identity"
	partnerapp "github.com/acme/invoicing/internal/application/partner"
	"github.com/acme/invoicing/internal/domain/finance"
	"github.com/acme/invoicing/internal/domain/identity"
	"github.com/acme/invoicing/internal/domain/partner"
	"github.com/acme/invoicing/internal/domain/shared"
	"github.com/acme/invoicing/internal/infrastructure/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockInvoiceService struct {
	mock.Mock
}

func (m *mockInvoiceService) Create(ctx context.Context, in finance.InvoiceForm) *form.State {
	return m.Called(ctx, in).Get(0).(*form.State)
}

func (m *mockInvoiceService) Update(ctx context.Context, id string, in finance.InvoiceForm) *form.State {
	return m.Called(ctx, id, in).Get(0).(*form.State)
}

func (m *mockInvoiceService) Delete(ctx context.Context, id string) *form.State {
	return m.Called(ctx, id).Get(0).(*form.State)
}

func (m *mockInvoiceService) GetByID(ctx context.Context, id string) (*financeapp.InvoiceResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*financeapp.InvoiceResponse), args.Error(1)
}

func (m *mockInvoiceService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[financeapp.InvoiceListItem], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[financeapp.InvoiceListItem]), args.Error(1)
}

type mockCustomerService struct {
	mock.Mock
}

func (m *mockCustomerService) Create(ctx context.Context, in partner.CustomerForm) *form.State {
	return m.Called(ctx, in).Get(0).(*form.State)
}

func (m *mockCustomerService) Update(ctx context.Context, id string, in partner.CustomerForm) *form.State {
	return m.Called(ctx, id, in).Get(0).(*form.State)
}

func (m *mockCustomerService) Delete(ctx context.Context, id string) *form.State {
	return m.Called(ctx, id).Get(0).(*form.State)
}

func (m *mockCustomerService) GetByID(ctx context.Context, id string) (*partnerapp.CustomerResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partnerapp.CustomerResponse), args.Error(1)
}

func (m *mockCustomerService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[partnerapp.CustomerListItem], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[partnerapp.CustomerListItem]), args.Error(1)
}

type mockAuthenticator struct {
	mock.Mock
}

func (m *mockAuthenticator) Authenticate(ctx context.Context, in identity.LoginForm) (*identityapp.LoginResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityapp.LoginResult), args.Error(1)
}

func (m *mockAuthenticator) Logout(ctx context.Context, claims *auth.Claims) error {
	return m.Called(ctx, claims).Error(0)
}

type mockSignUpService struct {
	mock.Mock
}

func (m *mockSignUpService) SignUp(ctx context.Context, in identity.UserForm) *form.State {
	return m.Called(ctx, in).Get(0).(*form.State)
}

type mockMetrics struct {
	mock.Mock
}

func (m *mockMetrics) ObserveHTTPRequest(string, string, int, time.Duration) {}

func (m *mockMetrics) RecordFormSubmission(entity, operation, outcome string) {
	m.Called(entity, operation, outcome)
}
