package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// NumberLimits bounds a user supplied decimal: fewer than IntDigits digits
// before the point and at most Scale after it.
type NumberLimits struct {
	IntDigits int32
	Scale     int32
}

var (
	AmountLimits       = NumberLimits{IntDigits: 20, Scale: 10}
	APRPrincipalLimits = NumberLimits{IntDigits: 14, Scale: 6}
	APRFactorLimits    = NumberLimits{IntDigits: 3, Scale: 2}
)

// maxNumberText caps the input length, which also caps the coefficient's digits.
const maxNumberText = 64

// parseBounded rejects out-of-range input by its exponent before any
// arithmetic, so exponent notation like 1e-2000000 stays cheap.
func parseBounded(field, raw string, l NumberLimits) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, fmt.Errorf("%w: %s is required", ErrInvalidAmount, field)
	}
	if len(raw) > maxNumberText {
		return decimal.Zero, fmt.Errorf("%w: %s is too long", ErrInvalidAmount, field)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s %q is not a number", ErrInvalidAmount, field, raw)
	}
	if d.IsZero() {
		return decimal.Zero, nil
	}
	exp := d.Exponent()
	if exp >= l.IntDigits {
		return decimal.Zero, fmt.Errorf("%w: %s is too large", ErrInvalidAmount, field)
	}
	if exp < -(l.Scale + maxNumberText) {
		return decimal.Zero, fmt.Errorf("%w: %s has more than %d decimal places", ErrInvalidAmount, field, l.Scale)
	}
	if d.Abs().GreaterThanOrEqual(decimal.New(1, l.IntDigits)) {
		return decimal.Zero, fmt.Errorf("%w: %s is too large", ErrInvalidAmount, field)
	}
	if !d.Equal(d.Truncate(l.Scale)) {
		return decimal.Zero, fmt.Errorf("%w: %s has more than %d decimal places", ErrInvalidAmount, field, l.Scale)
	}
	return d, nil
}

// ParseNonNegative parses a bounded decimal that may be zero.
func ParseNonNegative(field, raw string, l NumberLimits) (decimal.Decimal, error) {
	d, err := parseBounded(field, raw, l)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s must not be negative", ErrInvalidAmount, field)
	}
	return d, nil
}
