package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	m.Called(method, route, status, elapsed)
}

func (m *mockRecorder) RecordFormSubmission(entity, operation, outcome string) {
	m.Called(entity, operation, outcome)
}

func TestHTTPMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := new(mockRecorder)
	rec.On("ObserveHTTPRequest", http.MethodDelete, "/api/v1/invoices/:id", http.StatusOK, mock.AnythingOfType("time.Duration")).Once()
	rec.On("ObserveHTTPRequest", http.MethodGet, "", http.StatusNotFound, mock.AnythingOfType("time.Duration")).Once()

	r := gin.New()
	r.Use(HTTPMetrics(rec))
	r.DELETE("/api/v1/invoices/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/api/v1/invoices/abc", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	rec.AssertExpectations(t)
	assert.Len(t, rec.Calls, 2)
}
