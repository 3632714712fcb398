package cardform

import (
	"bytes"
	"strings"
	"testing"

	"github.com/benx421/payment-gateway/cardform/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCardNumber(t *testing.T) {
	tests := []struct {
		name string
		num  string
		want string
	}{
		{name: "empty", num: "", want: PlaceholderNumber},
		{name: "whitespace", num: "   ", want: PlaceholderNumber},
		{name: "full", num: "4539148803436467", want: "4539 1488 0343 6467"},
		{name: "formatted", num: "4539 1488 0343 6467", want: "4539 1488 0343 6467"},
		{name: "partial", num: "453914", want: "4539 14"},
		{name: "too long", num: "45391488034364679999", want: "4539 1488 0343 6467"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCardNumber(tt.num))
		})
	}
}

func TestNewPreview_Placeholders(t *testing.T) {
	p := NewPreview(validation.CardFormInput{})

	assert.Equal(t, Preview{
		Number: "0000 0000 0000 0000",
		Name:   "JANE APPLESEED",
		Month:  "00",
		Year:   "00",
		CVC:    "000",
	}, p)
	assert.Equal(t, "00/00", p.Expiry())
}

func TestNewPreview_Values(t *testing.T) {
	p := NewPreview(validation.CardFormInput{
		Name:        "Felicia Leire",
		CardNumber:  "9591 6489 6389 101",
		ExpiryMonth: "09",
		ExpiryYear:  "26",
		CVC:         "123",
	})

	assert.Equal(t, "9591 6489 6389 101", p.Number)
	assert.Equal(t, "Felicia Leire", p.Name)
	assert.Equal(t, "09/26", p.Expiry())
	assert.Equal(t, "123", p.CVC)
}

func TestPreview_Render(t *testing.T) {
	var buf bytes.Buffer
	p := NewPreview(validation.CardFormInput{Name: "Felicia Leire", ExpiryMonth: "09", ExpiryYear: "26"})

	require.NoError(t, p.Render(&buf))

	out := buf.String()
	assert.Contains(t, out, "0000 0000 0000 0000")
	assert.Contains(t, out, "FELICIA LEIRE")
	assert.Contains(t, out, "09/26")
	assert.Contains(t, out, "000 |")

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	for _, line := range lines {
		if line == "" {
			continue
		}
		assert.Len(t, []rune(line), cardWidth+2, "line %q", line)
	}
}
