// Package validation implements the card form rule set: ordered per-field
// rules, the Luhn checksum and the expiry-year window.
//
// Every function here is pure. The reference time is always passed in by the
// caller so results can be reproduced across century boundaries.
package validation

import "time"

// CardFormInput is the raw, unformatted text of a card form submission.
type CardFormInput struct {
	Name        string `json:"name" yaml:"name"`
	CardNumber  string `json:"cardNumber" yaml:"cardNumber"`
	ExpiryMonth string `json:"mm" yaml:"mm"`
	ExpiryYear  string `json:"yy" yaml:"yy"`
	CVC         string `json:"cvc" yaml:"cvc"`
}

// Value returns the raw text entered for field.
func (in CardFormInput) Value(field Field) string {
	switch field {
	case FieldName:
		return in.Name
	case FieldCardNumber:
		return in.CardNumber
	case FieldMonth:
		return in.ExpiryMonth
	case FieldYear:
		return in.ExpiryYear
	case FieldCVC:
		return in.CVC
	default:
		return ""
	}
}

// With returns a copy of in with field set to value.
func (in CardFormInput) With(field Field, value string) CardFormInput {
	switch field {
	case FieldName:
		in.Name = value
	case FieldCardNumber:
		in.CardNumber = value
	case FieldMonth:
		in.ExpiryMonth = value
	case FieldYear:
		in.ExpiryYear = value
	case FieldCVC:
		in.CVC = value
	}
	return in
}

// ValidationResult is the verdict for one CardFormInput. IsValid is true
// exactly when FieldErrors is empty.
type ValidationResult struct {
	IsValid     bool             `json:"isValid" yaml:"isValid"`
	FieldErrors map[Field]string `json:"fieldErrors,omitempty" yaml:"fieldErrors,omitempty"`
	Codes       map[Field]string `json:"-" yaml:"-"`
}

// Validate runs every field's rules against input, using now to anchor the
// expiry-year window.
func Validate(input CardFormInput, now time.Time) ValidationResult {
	window := NewExpiryYearWindow(now)
	result := ValidationResult{IsValid: true}

	for _, field := range Fields() {
		rule, failed := firstFailure(field, input.Value(field), window)
		if !failed {
			continue
		}
		if result.FieldErrors == nil {
			result.FieldErrors = make(map[Field]string)
			result.Codes = make(map[Field]string)
		}
		result.FieldErrors[field] = rule.message(window)
		result.Codes[field] = rule.Code
	}

	result.IsValid = len(result.FieldErrors) == 0
	return result
}

// ValidateField evaluates only the rules of field. It returns the message of
// the first failing rule and false, or "" and true when the value passes.
func ValidateField(field Field, input CardFormInput, now time.Time) (string, bool) {
	window := NewExpiryYearWindow(now)
	rule, failed := firstFailure(field, input.Value(field), window)
	if !failed {
		return "", true
	}
	return rule.message(window), false
}

func firstFailure(field Field, value string, window ExpiryYearWindow) (Rule, bool) {
	for _, rule := range fieldRules[field] {
		if !rule.passes(value, window) {
			return rule, true
		}
	}
	return Rule{}, false
}

// Error returns the message reported for field, if any.
func (r ValidationResult) Error(field Field) (string, bool) {
	msg, ok := r.FieldErrors[field]
	return msg, ok
}

// Err converts a failing result into a *ValidationError. It returns nil for a
// valid result.
func (r ValidationResult) Err() error {
	if r.IsValid {
		return nil
	}
	verr := &ValidationError{}
	for _, field := range Fields() {
		msg, ok := r.FieldErrors[field]
		if !ok {
			continue
		}
		verr.Errors = append(verr.Errors, &FieldError{
			Field:   field,
			Code:    r.Codes[field],
			Message: msg,
		})
	}
	return verr
}
