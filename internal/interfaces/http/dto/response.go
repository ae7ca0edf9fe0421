package dto

import "github.com/acme/invoicing/internal/domain/shared"

// ErrorResponse is the body of every non-form error. Message is the text
// shown to the user; Code is for clients that branch on it.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// NewErrorResponse creates an error body
func NewErrorResponse(code, message, requestID string) ErrorResponse {
	return ErrorResponse{
		Code:      code,
		Message:   message,
		RequestID: requestID,
	}
}

// RedirectResponse tells a JSON client where a successful submission leads
type RedirectResponse struct {
	Redirect string `json:"redirect"`
}

// ListRequest holds the listing query parameters
type ListRequest struct {
	Query    string `form:"query" binding:"max=200"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToFilter fills unset values with the listing defaults
func (r ListRequest) ToFilter() shared.Filter {
	filter := shared.DefaultFilter()
	filter.Search = r.Query
	if r.Page > 0 {
		filter.Page = r.Page
	}
	if r.PageSize > 0 {
		filter.PageSize = r.PageSize
	}
	return filter
}
