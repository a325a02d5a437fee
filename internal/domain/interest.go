package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// APRResult is the outcome of a simple-interest projection. USD amounts are
// rounded to 2 places, currency amounts to 4, rate and years to 2.
type APRResult struct {
	Symbol             Symbol
	Principal          decimal.Decimal
	PrincipalUSD       decimal.Decimal
	RatePercent        decimal.Decimal
	Years              decimal.Decimal
	TotalUSD           decimal.Decimal
	InterestUSD        decimal.Decimal
	TotalInCurrency    decimal.Decimal
	InterestInCurrency decimal.Decimal
}

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)

	MaxAPRRate      = decimal.RequireFromString("999.99")
	MaxAPRYears     = decimal.RequireFromString("999.99")
	MaxAPRPrincipal = decimal.New(1, APRPrincipalLimits.IntDigits)
)

// CalculateAPR projects simple (non-compounding) interest on principal units
// of c held for years at ratePercent per year.
func CalculateAPR(c Currency, principal, ratePercent, years decimal.Decimal) (APRResult, error) {
	switch {
	case principal.IsNegative():
		return APRResult{}, fmt.Errorf("%w: principal must not be negative", ErrInvalidAmount)
	case ratePercent.IsNegative():
		return APRResult{}, fmt.Errorf("%w: rate must not be negative", ErrInvalidAmount)
	case years.IsNegative():
		return APRResult{}, fmt.Errorf("%w: years must not be negative", ErrInvalidAmount)
	case principal.GreaterThanOrEqual(MaxAPRPrincipal):
		return APRResult{}, fmt.Errorf("%w: principal must be below %s", ErrInvalidAmount, MaxAPRPrincipal)
	case ratePercent.GreaterThan(MaxAPRRate):
		return APRResult{}, fmt.Errorf("%w: rate must not exceed %s", ErrInvalidAmount, MaxAPRRate)
	case years.GreaterThan(MaxAPRYears):
		return APRResult{}, fmt.Errorf("%w: years must not exceed %s", ErrInvalidAmount, MaxAPRYears)
	}
	price := c.PriceUSD
	if !price.IsPositive() {
		return APRResult{}, fmt.Errorf("%w: %s has no price", ErrInvalidSymbol, c.Symbol)
	}

	principalUSD := principal.Mul(price)
	totalUSD := principalUSD.Mul(one.Add(ratePercent.Div(hundred).Mul(years)))
	interestUSD := totalUSD.Sub(principalUSD)

	return APRResult{
		Symbol:             c.Symbol,
		Principal:          principal,
		PrincipalUSD:       principalUSD.RoundBank(2),
		RatePercent:        ratePercent.RoundBank(2),
		Years:              years.RoundBank(2),
		TotalUSD:           totalUSD.RoundBank(2),
		InterestUSD:        interestUSD.RoundBank(2),
		TotalInCurrency:    totalUSD.Div(price).RoundBank(4),
		InterestInCurrency: interestUSD.Div(price).RoundBank(4),
	}, nil
}
