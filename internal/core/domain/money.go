package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a decimal amount parsed from loosely typed storage. Budgets and
// prices arrive as JSON numbers, strings or garbage; Money records whether
// parsing succeeded so call sites can apply their own fallback instead of
// propagating a bogus value.
type Money struct {
	dec   decimal.Decimal
	valid bool
}

// MoneyFromDecimal wraps a known-good amount.
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money{dec: d, valid: true}
}

// ParseMoney parses a decimal string. Malformed input yields an invalid
// Money rather than an error.
func ParseMoney(s string) Money {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}
	}
	return Money{dec: d, valid: true}
}

// Or returns the parsed amount, or fallback when parsing failed.
func (m Money) Or(fallback decimal.Decimal) decimal.Decimal {
	if !m.valid {
		return fallback
	}
	return m.dec
}

// Valid reports whether the amount was parsed successfully.
func (m Money) Valid() bool { return m.valid }

// UnmarshalJSON accepts a JSON number or a quoted decimal string. Any other
// value, including null, leaves the Money invalid without failing the
// surrounding document.
func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		*m = Money{}
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	*m = ParseMoney(s)
	return nil
}

// MarshalJSON renders the amount as a JSON number, or null when invalid.
func (m Money) MarshalJSON() ([]byte, error) {
	if !m.valid {
		return []byte("null"), nil
	}
	return []byte(m.dec.String()), nil
}
