package cardform

import (
	"strings"

	"github.com/benx421/payment-gateway/cardform/internal/validation"
)

// MaskDigit is the mask placeholder accepting a single digit. Every other
// mask character is a literal inserted as the user types.
const MaskDigit = '9'

// Default input masks per field. Fields without a mask accept free text.
const (
	CardNumberMask = "9999 9999 9999 9999"
	MonthMask      = "99"
	YearMask       = "99"
	CVCMask        = "999"
)

// DefaultMasks returns the masks applied by a Form unless overridden.
func DefaultMasks() map[validation.Field]string {
	return map[validation.Field]string{
		validation.FieldCardNumber: CardNumberMask,
		validation.FieldMonth:      MonthMask,
		validation.FieldYear:       YearMask,
		validation.FieldCVC:        CVCMask,
	}
}

// ApplyMask fits raw into mask. Non-digit input is dropped, literals are only
// emitted ahead of a digit that follows them, and input beyond the mask's
// capacity is discarded. An empty mask returns raw unchanged.
func ApplyMask(mask, raw string) string {
	if mask == "" {
		return raw
	}

	var sb strings.Builder
	sb.Grow(len(mask))
	pos := 0

	for i := 0; i < len(raw) && pos < len(mask); i++ {
		c := raw[i]
		if c < '0' || c > '9' {
			continue
		}
		for pos < len(mask) && mask[pos] != MaskDigit {
			sb.WriteByte(mask[pos])
			pos++
		}
		if pos >= len(mask) {
			break
		}
		sb.WriteByte(c)
		pos++
	}

	return sb.String()
}

// PadMonth left-pads a single-digit month with a zero, as the month input does
// when it loses focus. Empty values stay empty.
func PadMonth(mm string) string {
	if mm == "" || len(mm) >= 2 {
		return mm
	}
	return strings.Repeat("0", 2-len(mm)) + mm
}
