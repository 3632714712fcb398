package validation

import (
	"fmt"
	"time"
)

// ExpiryWindowYears is how far past the current year an expiry may lie.
const ExpiryWindowYears = 15

// ExpiryYearWindow is the inclusive range of acceptable two-digit expiry
// years. MaxYY is smaller than MinYY when the window crosses a century.
type ExpiryYearWindow struct {
	MinYY int
	MaxYY int
}

// NewExpiryYearWindow anchors the window to the year of now.
func NewExpiryYearWindow(now time.Time) ExpiryYearWindow {
	year := now.Year()
	return ExpiryYearWindow{
		MinYY: year % 100,
		MaxYY: (year + ExpiryWindowYears) % 100,
	}
}

// Wraps reports whether the window straddles a century boundary.
func (w ExpiryYearWindow) Wraps() bool {
	return w.MinYY > w.MaxYY
}

// Contains reports whether the two-digit year yy falls inside the window.
// During a wrap, small years are always read as the next century.
func (w ExpiryYearWindow) Contains(yy int) bool {
	if yy < 0 || yy > 99 {
		return false
	}
	if w.Wraps() {
		return yy >= w.MinYY || yy <= w.MaxYY
	}
	return yy >= w.MinYY && yy <= w.MaxYY
}

// Message is the user-facing error for a year outside the window.
func (w ExpiryYearWindow) Message() string {
	return fmt.Sprintf("Year must be between %02d and %02d", w.MinYY, w.MaxYY)
}
