package validation

import (
	"net/mail"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Violations maps a field name to a violation code (e.g. "required", "invalid_choice").
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Fields returns the offending field names in a stable order.
func (v Violations) Fields() []string {
	out := make([]string, 0, len(v))
	for f := range v {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// add keeps the first violation recorded for a field.
func (v Violations) add(field, code string) {
	if _, exists := v[field]; !exists {
		v[field] = code
	}
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v.add(field, "required")
	}
}

func MaxLen(field, value string, max int, v Violations) {
	if utf8.RuneCountInString(value) > max {
		v.add(field, "too_long")
	}
}

func Email(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		return
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		v.add(field, "invalid_email")
	}
}

// OneOf records "invalid_choice" when value is not among the allowed choices.
func OneOf[T ~string](field string, value T, choices []T, v Violations) {
	for _, c := range choices {
		if value == c {
			return
		}
	}
	v.add(field, "invalid_choice")
}

// Digits enforces a DECIMAL(maxDigits, places) column shape.
func Digits(field string, val decimal.Decimal, maxDigits, places int32, v Violations) {
	if val.Exponent() < -places && !val.Equal(val.Round(places)) {
		v.add(field, "too_many_decimal_places")
		return
	}
	limit := decimal.New(1, maxDigits-places)
	if val.Abs().GreaterThanOrEqual(limit) {
		v.add(field, "too_many_digits")
	}
}
