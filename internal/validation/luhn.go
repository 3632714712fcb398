package validation

// CardNumberDigits is the number of digits a card number must carry.
const CardNumberDigits = 16

// LuhnCheck validates a card number using the Luhn algorithm.
//
// Every non-digit character is stripped first, so separators never change the
// outcome. Anything other than exactly 16 remaining digits fails.
func LuhnCheck(cardNumber string) bool {
	digits := ExtractDigits(cardNumber)
	if len(digits) != CardNumberDigits {
		return false
	}

	sum := 0
	isSecond := false

	for i := len(digits) - 1; i >= 0; i-- {
		digit := int(digits[i] - '0')

		if isSecond {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}

		sum += digit
		isSecond = !isSecond
	}

	return sum%10 == 0
}

// ExtractDigits returns only the ASCII digits of s, in order.
func ExtractDigits(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			out = append(out, s[i])
		}
	}
	return string(out)
}
