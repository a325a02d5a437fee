package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ConversionScale is the number of decimal places kept by Convert. Results
// are truncated, never rounded up.
const ConversionScale = 6

// Conversion is both the result of Convert and, once ID/Principal/CreatedAt
// are set, an immutable ledger entry.
type Conversion struct {
	ID        string
	Principal PrincipalID
	From      Symbol
	To        Symbol
	Amount    decimal.Decimal
	Converted decimal.Decimal
	Rate      decimal.Decimal
	CreatedAt time.Time
}

// Convert prices amount of from in units of to at the given USD prices.
func Convert(from, to Currency, amount decimal.Decimal) (Conversion, error) {
	if !amount.IsPositive() {
		return Conversion{}, fmt.Errorf("%w: must be positive", ErrInvalidAmount)
	}
	if !to.PriceUSD.IsPositive() {
		return Conversion{}, fmt.Errorf("%w: %s has no price", ErrInvalidSymbol, to.Symbol)
	}
	if from.PriceUSD.IsNegative() {
		return Conversion{}, fmt.Errorf("%w: %s has a negative price", ErrInvalidSymbol, from.Symbol)
	}
	// QuoRem truncates the quotient toward zero at the requested scale.
	rate, _ := from.PriceUSD.QuoRem(to.PriceUSD, ConversionScale)
	converted, _ := amount.Mul(from.PriceUSD).QuoRem(to.PriceUSD, ConversionScale)
	return Conversion{
		From:      from.Symbol,
		To:        to.Symbol,
		Amount:    amount,
		Converted: converted,
		Rate:      rate,
	}, nil
}

// ParseAmount parses a user supplied conversion amount.
func ParseAmount(raw string) (decimal.Decimal, error) {
	d, err := parseBounded("amount", raw, AmountLimits)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}
	return d, nil
}
