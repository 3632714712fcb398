package validation

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Field names a card form input.
type Field string

// Form fields, named as they are serialized.
const (
	FieldName       Field = "name"
	FieldCardNumber Field = "cardNumber"
	FieldMonth      Field = "mm"
	FieldYear       Field = "yy"
	FieldCVC        Field = "cvc"
)

// Fields returns every form field in display order.
func Fields() []Field {
	return []Field{FieldName, FieldCardNumber, FieldMonth, FieldYear, FieldCVC}
}

// RuleKind tags the check a Rule performs.
type RuleKind int

const (
	// RuleRequired fails on an empty value.
	RuleRequired RuleKind = iota
	// RuleRequiredTrimmed fails on an empty or whitespace-only value.
	RuleRequiredTrimmed
	// RuleMinLength fails when the value has fewer than N characters.
	RuleMinLength
	// RuleMaxLength fails when the value has more than N characters.
	RuleMaxLength
	// RuleContainsSpace fails when the value has no space character.
	RuleContainsSpace
	// RuleMinDigits fails when fewer than N digits remain after stripping separators.
	RuleMinDigits
	// RuleLuhn fails when the value does not pass LuhnCheck.
	RuleLuhn
	// RuleMonthRange fails unless the value parses to an integer in [1, 12].
	RuleMonthRange
	// RuleYearWindow fails unless the value parses to a year inside the ExpiryYearWindow.
	RuleYearWindow
)

// Rule is one check on a field value together with the message reported
// when it fails. For RuleYearWindow the message is derived from the window.
type Rule struct {
	Kind    RuleKind
	N       int
	Code    string
	Message string
}

// Error codes carried by FieldError.
const (
	CodeRequired    = "required"
	CodeMinLength   = "min_length"
	CodeMaxLength   = "max_length"
	CodeTwoPartName = "two_part_name"
	CodeChecksum    = "checksum"
	CodeMonthRange  = "month_range"
	CodeYearWindow  = "year_window"
)

// Name length limits.
const (
	NameMinLength = 2
	NameMaxLength = 30
)

var fieldRules = map[Field][]Rule{
	FieldName: {
		{Kind: RuleRequiredTrimmed, Code: CodeRequired, Message: "Name is required"},
		{Kind: RuleMinLength, N: NameMinLength, Code: CodeMinLength, Message: "Name must be at least 2 characters"},
		{Kind: RuleMaxLength, N: NameMaxLength, Code: CodeMaxLength, Message: "Name must be maximum 30 characters"},
		{Kind: RuleContainsSpace, Code: CodeTwoPartName, Message: "You should include both first and last names"},
	},
	FieldCardNumber: {
		{Kind: RuleRequired, Code: CodeRequired, Message: "Card number is required"},
		{Kind: RuleMinDigits, N: CardNumberDigits, Code: CodeMinLength, Message: "Card number must be 16 characters"},
		{Kind: RuleLuhn, Code: CodeChecksum, Message: "Card number is not valid"},
	},
	FieldMonth: {
		{Kind: RuleRequired, Code: CodeRequired, Message: "MM is required"},
		{Kind: RuleMinLength, N: 2, Code: CodeMinLength, Message: "Month must be at least 2 characters"},
		{Kind: RuleMonthRange, Code: CodeMonthRange, Message: "Month must be valid"},
	},
	FieldYear: {
		{Kind: RuleRequired, Code: CodeRequired, Message: "YY is required"},
		{Kind: RuleMinLength, N: 2, Code: CodeMinLength, Message: "Year must be at least 2 characters"},
		{Kind: RuleYearWindow, Code: CodeYearWindow},
	},
	FieldCVC: {
		{Kind: RuleRequired, Code: CodeRequired, Message: "CVC is required"},
		{Kind: RuleMinLength, N: 3, Code: CodeMinLength, Message: "CVC must be at least 3 characters"},
	},
}

// RulesFor returns a copy of the ordered rules applied to field.
func RulesFor(field Field) []Rule {
	rules := fieldRules[field]
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// passes evaluates a single rule against value.
func (r Rule) passes(value string, window ExpiryYearWindow) bool {
	switch r.Kind {
	case RuleRequired:
		return value != ""
	case RuleRequiredTrimmed:
		return strings.TrimSpace(value) != ""
	case RuleMinLength:
		return utf8.RuneCountInString(value) >= r.N
	case RuleMaxLength:
		return utf8.RuneCountInString(value) <= r.N
	case RuleContainsSpace:
		return strings.Contains(value, " ")
	case RuleMinDigits:
		return len(ExtractDigits(value)) >= r.N
	case RuleLuhn:
		return LuhnCheck(value)
	case RuleMonthRange:
		month, ok := parseNumber(value)
		return ok && month >= 1 && month <= 12
	case RuleYearWindow:
		year, ok := parseNumber(value)
		return ok && window.Contains(year)
	default:
		return false
	}
}

// message returns the text reported when r fails.
func (r Rule) message(window ExpiryYearWindow) string {
	if r.Kind == RuleYearWindow {
		return window.Message()
	}
	return r.Message
}

func parseNumber(value string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, false
	}
	return n, true
}
