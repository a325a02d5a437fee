package domain

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// FeedEntry is one market row as reported by the upstream feed. Every field
// may be absent; the feed is not trusted.
type FeedEntry struct {
	FeedID            string
	Price             decimal.NullDecimal
	MarketCap         decimal.NullDecimal
	Volume24h         decimal.NullDecimal
	PercentChange24h  decimal.NullDecimal
	CirculatingSupply decimal.NullDecimal
	// Invalid is set when the row could not be read at all.
	Invalid string
}

var errMalformedEntry = errors.New("malformed feed entry")

var (
	maxInt64     = decimal.NewFromInt(math.MaxInt64)
	maxPctChange = decimal.NewFromInt(100_000_000)
)

// MarketData validates the entry. A missing or negative price is rejected;
// missing counters default to zero.
func (e FeedEntry) MarketData() (MarketData, error) {
	if e.Invalid != "" {
		return MarketData{}, fmt.Errorf("%w: %s", errMalformedEntry, e.Invalid)
	}
	if !e.Price.Valid {
		return MarketData{}, fmt.Errorf("%w: missing price", errMalformedEntry)
	}
	if e.Price.Decimal.IsNegative() {
		return MarketData{}, fmt.Errorf("%w: negative price %s", errMalformedEntry, e.Price.Decimal)
	}
	capUSD, err := wholeUnits("market_cap", e.MarketCap)
	if err != nil {
		return MarketData{}, err
	}
	vol, err := wholeUnits("total_volume", e.Volume24h)
	if err != nil {
		return MarketData{}, err
	}
	supply, err := wholeUnits("circulating_supply", e.CirculatingSupply)
	if err != nil {
		return MarketData{}, err
	}
	change := decimal.Zero
	if e.PercentChange24h.Valid {
		change = e.PercentChange24h.Decimal.Round(4)
		if change.Abs().GreaterThanOrEqual(maxPctChange) {
			return MarketData{}, fmt.Errorf("%w: percent change out of range %s", errMalformedEntry, change)
		}
	}
	return MarketData{
		PriceUSD:          e.Price.Decimal,
		MarketCap:         capUSD,
		Volume24h:         vol,
		PercentChange24h:  change,
		CirculatingSupply: supply,
	}, nil
}

func wholeUnits(field string, v decimal.NullDecimal) (int64, error) {
	if !v.Valid {
		return 0, nil
	}
	if v.Decimal.IsNegative() || v.Decimal.GreaterThan(maxInt64) {
		return 0, fmt.Errorf("%w: %s out of range %s", errMalformedEntry, field, v.Decimal)
	}
	return v.Decimal.IntPart(), nil
}
