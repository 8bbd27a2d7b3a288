package validation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type color string

func TestRequired(t *testing.T) {
	v := make(Violations)
	Required("name", "  ", v)
	Required("title", "ok", v)
	assert.Equal(t, Violations{"name": "required"}, v)
}

func TestEmail(t *testing.T) {
	tests := []struct {
		value string
		ok    bool
	}{
		{"jane@example.com", true},
		{"", true},
		{"not-an-email", false},
		{"Jane <jane@example.com>", false},
	}
	for _, tt := range tests {
		v := make(Violations)
		Email("email", tt.value, v)
		assert.Equal(t, tt.ok, v.Empty(), "value %q", tt.value)
	}
}

func TestOneOf(t *testing.T) {
	choices := []color{"red", "blue"}
	v := make(Violations)
	OneOf("color", color("red"), choices, v)
	assert.True(t, v.Empty())
	OneOf("color", color("green"), choices, v)
	assert.Equal(t, "invalid_choice", v["color"])
}

func TestDigits(t *testing.T) {
	tests := []struct {
		name string
		val  string
		code string
	}{
		{"fits", "99999999.99", ""},
		{"too many digits", "100000000.00", "too_many_digits"},
		{"three places", "1.005", "too_many_decimal_places"},
		{"trailing zero place", "1.500", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := make(Violations)
			Digits("amount", decimal.RequireFromString(tt.val), 10, 2, v)
			assert.Equal(t, tt.code, v["amount"])
		})
	}
}

func TestFirstViolationWins(t *testing.T) {
	v := make(Violations)
	Required("email", "", v)
	Email("email", "bad", v)
	assert.Equal(t, "required", v["email"])
	assert.Equal(t, []string{"email"}, v.Fields())
}
