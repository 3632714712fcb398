package cardform

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/benx421/payment-gateway/cardform/internal/validation"
)

// Placeholders shown on the card preview while a field is still empty.
const (
	PlaceholderNumber = "0000 0000 0000 0000"
	PlaceholderName   = "JANE APPLESEED"
	PlaceholderMonth  = "00"
	PlaceholderYear   = "00"
	PlaceholderCVC    = "000"
)

// Preview is what the card art displays for the current form values.
type Preview struct {
	Number string
	Name   string
	Month  string
	Year   string
	CVC    string
}

// Expiry renders the MM/YY text printed on the card front.
func (p Preview) Expiry() string {
	return p.Month + "/" + p.Year
}

// NewPreview fills in placeholders for any field the user has not typed yet.
func NewPreview(in validation.CardFormInput) Preview {
	return Preview{
		Number: FormatCardNumber(in.CardNumber),
		Name:   orDefault(in.Name, PlaceholderName),
		Month:  orDefault(in.ExpiryMonth, PlaceholderMonth),
		Year:   orDefault(in.ExpiryYear, PlaceholderYear),
		CVC:    orDefault(in.CVC, PlaceholderCVC),
	}
}

// FormatCardNumber groups up to 16 characters of num into blocks of four.
// Whitespace is removed first; a partially typed number is not padded.
func FormatCardNumber(num string) string {
	if strings.TrimSpace(num) == "" {
		return PlaceholderNumber
	}

	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, num)

	runes := []rune(cleaned)
	if len(runes) > validation.CardNumberDigits {
		runes = runes[:validation.CardNumberDigits]
	}
	if len(runes) == 0 {
		return PlaceholderNumber
	}

	groups := make([]string, 0, 4)
	for i := 0; i < len(runes); i += 4 {
		end := i + 4
		if end > len(runes) {
			end = len(runes)
		}
		groups = append(groups, string(runes[i:end]))
	}
	return strings.Join(groups, " ")
}

func orDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}

const cardWidth = 36

// Render draws the front and back of the card as text.
func (p Preview) Render(w io.Writer) error {
	border := "+" + strings.Repeat("-", cardWidth) + "+"
	lines := []string{
		border,
		cardLine("(o) o"),
		cardLine(""),
		cardLine(p.Number),
		cardLine(""),
		cardLine(spread(strings.ToUpper(p.Name), p.Expiry())),
		border,
		"",
		border,
		cardLine(""),
		cardLine(spread("", p.CVC)),
		cardLine(""),
		border,
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("render preview: %w", err)
		}
	}
	return nil
}

func cardLine(content string) string {
	return "| " + padRight(content, cardWidth-2) + " |"
}

func spread(left, right string) string {
	room := cardWidth - 2 - len([]rune(right))
	return padRight(truncate(left, room-1), room) + right
}

func padRight(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width])
}
