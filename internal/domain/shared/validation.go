package shared

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a form field name to the messages of every rule it failed,
// in the order the rules were declared.
type FieldErrors map[string][]string

// Add appends a message to the field's error list
func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

// HasErrors reports whether any field failed validation
func (f FieldErrors) HasErrors() bool {
	return len(f) > 0
}

// Rule pairs a validator tag with the message reported when it fails.
type Rule struct {
	Tag     string
	Message string
}

// Check runs every rule against value and records the message of each failing
// rule under field. Evaluation does not stop at the first failure.
func (f FieldErrors) Check(field string, value any, rules ...Rule) {
	for _, rule := range rules {
		if err := validate.Var(value, rule.Tag); err != nil {
			f.Add(field, rule.Message)
		}
	}
}

// Common rules shared by several schemas
var (
	RuleFilled = Rule{Tag: "required", Message: "This field has to be filled."}
	RuleEmail  = Rule{Tag: "email", Message: "This is not a valid email."}
)

// MinLength returns a rule requiring at least n characters
func MinLength(n int, message string) Rule {
	return Rule{Tag: "min=" + strconv.Itoa(n), Message: message}
}

var validate = validator.New()

// NormalizeEmail trims and lower-cases an address so lookups and the unique
// index agree on one spelling.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
