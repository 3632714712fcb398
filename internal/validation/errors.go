package validation

import (
	"fmt"
	"strings"
)

// FieldError describes why a single form field was rejected
type FieldError struct {
	Field   Field
	Code    string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects every rejected field of a submission, in form order
type ValidationError struct {
	Errors []*FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Error())
	}
	return "invalid card form: " + strings.Join(parts, "; ")
}

// Unwrap exposes the individual field errors for errors.Is/As support
func (e *ValidationError) Unwrap() []error {
	out := make([]error, 0, len(e.Errors))
	for _, fe := range e.Errors {
		out = append(out, fe)
	}
	return out
}
