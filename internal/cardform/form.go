// Package cardform holds the state of one card entry form: the values typed
// so far, the preview they produce, and the confirmation shown after a valid
// submission.
package cardform

import (
	"strings"
	"time"

	"github.com/benx421/payment-gateway/cardform/internal/validation"
	"github.com/google/uuid"
)

// Success view copy.
const (
	SuccessTitle   = "THANK YOU!"
	SuccessMessage = "We've added your card details"
	ContinueLabel  = "Continue"
)

// ConfirmationPrefix starts every confirmation reference.
const ConfirmationPrefix = "card_"

// Confirmation is produced once a submission passes validation. It only
// lives as long as the success view.
type Confirmation struct {
	Reference    string
	MaskedNumber string
	Holder       string
	ConfirmedAt  time.Time
}

// Form tracks one card entry session. It is not safe for concurrent use.
type Form struct {
	values       validation.CardFormInput
	masks        map[validation.Field]string
	touched      map[validation.Field]bool
	confirmation *Confirmation
	now          func() time.Time
	newID        func() uuid.UUID
}

// Option configures a Form.
type Option func(*Form)

// WithClock sets the time source used for validation and confirmations.
func WithClock(now func() time.Time) Option {
	return func(f *Form) {
		if now != nil {
			f.now = now
		}
	}
}

// WithMasks replaces the input masks. Fields missing from masks accept free text.
func WithMasks(masks map[validation.Field]string) Option {
	return func(f *Form) {
		if masks != nil {
			f.masks = masks
		}
	}
}

// WithIDGenerator overrides how confirmation references are generated.
func WithIDGenerator(gen func() uuid.UUID) Option {
	return func(f *Form) {
		if gen != nil {
			f.newID = gen
		}
	}
}

// NewForm returns an empty form.
func NewForm(opts ...Option) *Form {
	f := &Form{
		masks:   DefaultMasks(),
		touched: make(map[validation.Field]bool),
		now:     time.Now,
		newID:   uuid.New,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(f)
	}
	return f
}

// Set stores raw for field after applying the field's mask and returns the
// stored value.
func (f *Form) Set(field validation.Field, raw string) string {
	value := ApplyMask(f.masks[field], raw)
	f.values = f.values.With(field, value)
	f.touched[field] = true
	return value
}

// Blur finalizes a field when the user leaves it. The month is zero-padded.
func (f *Form) Blur(field validation.Field) string {
	value := f.values.Value(field)
	if field == validation.FieldMonth {
		value = PadMonth(value)
		f.values = f.values.With(field, value)
	}
	return value
}

// Values returns the current raw values.
func (f *Form) Values() validation.CardFormInput {
	return f.values
}

// Touched reports whether field has received input.
func (f *Form) Touched(field validation.Field) bool {
	return f.touched[field]
}

// Mask returns the input mask for field, if any.
func (f *Form) Mask(field validation.Field) string {
	return f.masks[field]
}

// Preview returns the card art contents for the current values.
func (f *Form) Preview() Preview {
	return NewPreview(f.values)
}

// Check validates the stored value of a single field.
func (f *Form) Check(field validation.Field) (string, bool) {
	return validation.ValidateField(field, f.values, f.now())
}

// CheckValue validates raw as if it were typed into field and the field then
// lost focus. The form itself is left unchanged.
func (f *Form) CheckValue(field validation.Field, raw string) (string, bool) {
	value := ApplyMask(f.masks[field], raw)
	if field == validation.FieldMonth {
		value = PadMonth(value)
	}
	return validation.ValidateField(field, f.values.With(field, value), f.now())
}

// Submit validates every field. A passing submission moves the form to the
// success view and returns its confirmation.
func (f *Form) Submit() (validation.ValidationResult, *Confirmation) {
	now := f.now()
	result := validation.Validate(f.values, now)
	if !result.IsValid {
		return result, nil
	}

	f.confirmation = &Confirmation{
		Reference:    ConfirmationPrefix + f.newID().String(),
		MaskedNumber: MaskCardNumber(f.values.CardNumber),
		Holder:       strings.TrimSpace(f.values.Name),
		ConfirmedAt:  now,
	}
	return result, f.confirmation
}

// Submitted reports whether the form is showing the success view.
func (f *Form) Submitted() bool {
	return f.confirmation != nil
}

// Confirmation returns the confirmation of the last valid submission.
func (f *Form) Confirmation() *Confirmation {
	return f.confirmation
}

// Continue leaves the success view and clears every input.
func (f *Form) Continue() {
	f.confirmation = nil
	f.values = validation.CardFormInput{}
	f.touched = make(map[validation.Field]bool)
}

// MaskCardNumber hides all but the last four digits, keeping the grouped
// layout of the card face.
func MaskCardNumber(number string) string {
	digits := validation.ExtractDigits(number)
	n := len(digits)
	if n == 0 {
		return ""
	}
	if n <= 4 {
		return digits
	}
	masked := strings.Repeat("*", n-4) + digits[n-4:]
	return FormatCardNumber(masked)
}
