package finance

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/acme/invoicing/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Validation messages for the invoice form
const (
	MsgSelectCustomer = "Please select a customer."
	MsgAmountPositive = "Please enter an amount greater than $0."
	MsgSelectStatus   = "Please select an invoice status."
)

// AmountText is a submitted amount. It binds from form text and from JSON
// strings or numbers alike.
type AmountText string

// UnmarshalJSON accepts either a JSON string or a JSON number
func (a *AmountText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = AmountText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		// null, booleans and objects coerce to nothing usable
		*a = ""
		return nil
	}
	*a = AmountText(n.String())
	return nil
}

// InvoiceForm is the raw invoice submission
type InvoiceForm struct {
	CustomerID string     `form:"customerId" json:"customerId"`
	Amount     AmountText `form:"amount" json:"amount"`
	Status     string     `form:"status" json:"status"`
}

// UnmarshalJSON decodes a JSON submission. A customerId or status that is not
// a JSON string binds as empty, so the field's own rule reports it.
func (f *InvoiceForm) UnmarshalJSON(data []byte) error {
	var raw struct {
		CustomerID json.RawMessage `json:"customerId"`
		Amount     AmountText      `json:"amount"`
		Status     json.RawMessage `json:"status"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*f = InvoiceForm{
		CustomerID: jsonString(raw.CustomerID),
		Amount:     raw.Amount,
		Status:     jsonString(raw.Status),
	}
	return nil
}

func jsonString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// InvoiceDraft is a validated invoice submission with the amount already
// converted to minor units.
type InvoiceDraft struct {
	CustomerID string
	Amount     int64
	Status     InvoiceStatus
}

var maxMinorUnits = decimal.NewFromInt(math.MaxInt64)

// Magnitude bounds checked before any rescaling; scientific notation can put
// an arbitrary exponent in a short string.
const (
	maxAmountDigits   = 17 // integer digits; 10^17 dollars already overflows int64 cents
	minAmountExponent = -30
)

// ParseInvoiceForm validates the raw form. On failure every failing field is
// reported and the draft is the zero value.
func ParseInvoiceForm(form InvoiceForm) (InvoiceDraft, shared.FieldErrors) {
	errs := shared.FieldErrors{}

	customerID := strings.TrimSpace(form.CustomerID)
	errs.Check("customerId", customerID, shared.Rule{Tag: "required", Message: MsgSelectCustomer})

	cents := ToMinorUnits(string(form.Amount))
	errs.Check("amount", cents, shared.Rule{Tag: "gt=0", Message: MsgAmountPositive})

	errs.Check("status", form.Status, shared.Rule{Tag: "oneof=pending paid", Message: MsgSelectStatus})

	if errs.HasErrors() {
		return InvoiceDraft{}, errs
	}
	return InvoiceDraft{
		CustomerID: customerID,
		Amount:     cents,
		Status:     InvoiceStatus(form.Status),
	}, nil
}

// ToMinorUnits converts a decimal amount in text to cents, rounding half away
// from zero. Blank or unparsable text and values outside the int64 range
// yield 0.
func ToMinorUnits(text string) int64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	amount, err := decimal.NewFromString(text)
	if err != nil {
		return 0
	}
	exp := int64(amount.Exponent())
	if exp < minAmountExponent {
		return 0
	}
	if int64(len(amount.Abs().Coefficient().String()))+exp > maxAmountDigits {
		return 0
	}
	minor := amount.Shift(2).Round(0)
	if minor.Abs().GreaterThan(maxMinorUnits) {
		return 0
	}
	return minor.IntPart()
}
