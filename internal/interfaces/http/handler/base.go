// Package handler contains the gin handlers of the invoicing API.
package handler

import (
	"errors"
	"net/http"

	"github.com/acme/invoicing/internal/application/form"
	"github.com/acme/invoicing/internal/domain/shared"
	"github.com/acme/invoicing/internal/infrastructure/logger"
	"github.com/acme/invoicing/internal/infrastructure/telemetry"
	"github.com/acme/invoicing/internal/interfaces/http/dto"
	"github.com/acme/invoicing/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

// MsgUnexpected is the body of every unclassified failure
const MsgUnexpected = "An unexpected error occurred"

// BaseHandler provides common handler utilities
type BaseHandler struct {
	metrics telemetry.MetricsRecorder
}

// SetMetrics enables form submission counting
func (h *BaseHandler) SetMetrics(m telemetry.MetricsRecorder) {
	h.metrics = m
}

// Success sends a 200 response with data as the body
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Error sends an error body with the given status
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponse(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// InternalError sends a 500 response
func (h *BaseHandler) InternalError(c *gin.Context) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, MsgUnexpected)
}

// HandleError converts domain errors to their status and anything else to a
// logged 500 with the generic message.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		h.Error(c, dto.GetHTTPStatus(code), code, domainErr.Message)
		return
	}

	logger.FromContext(c.Request.Context()).Error("Request failed", zap.Error(err))
	_ = c.Error(err)
	h.InternalError(c)
}

// RespondForm writes the result of a form submission. A successful HTML
// form post with a redirect answers 303 See Other; every other client gets
// the state as JSON with the status of its outcome.
func (h *BaseHandler) RespondForm(c *gin.Context, entity, operation string, state *form.State) {
	h.recordSubmission(entity, operation, state.Outcome)

	if state.OK() && state.Redirect != "" {
		if isFormPost(c) {
			c.Redirect(http.StatusSeeOther, state.Redirect)
			return
		}
		c.JSON(http.StatusOK, dto.RedirectResponse{Redirect: state.Redirect})
		return
	}
	c.JSON(dto.FormStateStatus(state.Outcome), state)
}

// bindForm binds a JSON or form-encoded body into dst
func (h *BaseHandler) bindForm(c *gin.Context, dst any) bool {
	if err := c.ShouldBind(dst); err != nil {
		h.BadRequest(c, "Invalid request body")
		return false
	}
	return true
}

func (h *BaseHandler) recordSubmission(entity, operation string, outcome form.Outcome) {
	if h.metrics == nil {
		return
	}
	h.metrics.RecordFormSubmission(entity, operation, outcomeLabel(outcome))
}

func outcomeLabel(outcome form.Outcome) string {
	switch outcome {
	case form.OutcomeSuccess:
		return telemetry.OutcomeSuccess
	case form.OutcomeInvalid:
		return telemetry.OutcomeValidationError
	case form.OutcomeConflict:
		return telemetry.OutcomeConflict
	default:
		return telemetry.OutcomeStorageError
	}
}

func isFormPost(c *gin.Context) bool {
	switch c.ContentType() {
	case binding.MIMEPOSTForm, binding.MIMEMultipartPOSTForm:
		return true
	}
	return false
}
