package parsing

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
)

var amountPattern = regexp.MustCompile(`^\d+\.\d{2}$`)

// Amount is an exact decimal money amount with two fraction digits. The
// original text is kept so it can be reproduced byte for byte.
type Amount struct {
	text  string
	value decimal.Decimal
}

// ParseAmount parses a dollar amount such as "12.25".
func ParseAmount(s string) (Amount, error) {
	if !amountPattern.MatchString(s) {
		return Amount{}, fmt.Errorf("amount %q does not match %s", s, amountPattern)
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return Amount{text: s, value: v}, nil
}

// String returns the amount exactly as it was parsed.
func (a Amount) String() string {
	return a.text
}

// Decimal returns the numeric value.
func (a Amount) Decimal() decimal.Decimal {
	return a.value
}

// Cents returns the amount in whole cents.
func (a Amount) Cents() int64 {
	return a.value.Shift(2).IntPart()
}
