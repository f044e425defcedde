// Package money converts between display decimal strings and the integer
// centavo amounts used everywhere internally. Binary floating point never
// touches a currency value.
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrMalformedAmount = errors.New("malformed amount")
	ErrTooManyDecimals = errors.New("amount has more than two decimal places")
)

// Parse converts a user-entered decimal string into centavos. Both "." and
// "," are accepted as the decimal separator ("1234,56" is common in
// pt-BR input). At most two decimal places are allowed.
func Parse(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrMalformedAmount
	}
	s = strings.ReplaceAll(s, ",", ".")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrMalformedAmount
	}
	if d.Exponent() < -2 {
		return 0, ErrTooManyDecimals
	}

	return d.Shift(2).IntPart(), nil
}

// Format renders centavos as a plain decimal string with two places,
// e.g. 70000 -> "700.00".
func Format(centavos int64) string {
	return decimal.New(centavos, -2).StringFixed(2)
}
