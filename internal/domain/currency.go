package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Currency struct {
	Symbol            Symbol
	Name              string
	PriceUSD          decimal.Decimal
	MarketCap         int64
	Volume24h         int64
	PercentChange24h  decimal.Decimal
	CirculatingSupply int64
	LastUpdated       time.Time
}

// MarketData is the subset of a Currency refreshed by a price sync.
type MarketData struct {
	PriceUSD          decimal.Decimal
	MarketCap         int64
	Volume24h         int64
	PercentChange24h  decimal.Decimal
	CirculatingSupply int64
}

func (c Currency) WithMarket(md MarketData) Currency {
	c.PriceUSD = md.PriceUSD
	c.MarketCap = md.MarketCap
	c.Volume24h = md.Volume24h
	c.PercentChange24h = md.PercentChange24h
	c.CirculatingSupply = md.CirculatingSupply
	return c
}
