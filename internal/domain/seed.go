package domain

import "github.com/shopspring/decimal"

// SeedCurrencies returns the sample records used to bootstrap an empty store.
func SeedCurrencies() []Currency {
	out := make([]Currency, len(seed))
	for i, s := range seed {
		out[i] = Currency{
			Symbol:            s.symbol,
			Name:              s.name,
			PriceUSD:          decimal.RequireFromString(s.price),
			MarketCap:         s.marketCap,
			Volume24h:         s.volume,
			PercentChange24h:  decimal.RequireFromString(s.change),
			CirculatingSupply: s.supply,
		}
	}
	return out
}

var seed = []struct {
	symbol    Symbol
	name      string
	price     string
	marketCap int64
	volume    int64
	change    string
	supply    int64
}{
	{"BTC", "Bitcoin", "68000", 1_300_000_000_000, 40_000_000_000, "2.5", 19_000_000},
	{"ETH", "Ethereum", "3500", 420_000_000_000, 20_000_000_000, "1.8", 120_000_000},
	{"USDT", "Tether", "1.00", 110_000_000_000, 50_000_000_000, "0.01", 110_000_000_000},
	{"BNB", "Binance Coin", "450", 75_000_000_000, 5_000_000_000, "1.2", 170_000_000},
	{"SOL", "Solana", "150", 50_000_000_000, 6_000_000_000, "3.4", 330_000_000},
	{"XRP", "XRP", "0.85", 40_000_000_000, 3_000_000_000, "-0.5", 47_000_000_000},
	{"ADA", "Cardano", "1.20", 38_000_000_000, 2_000_000_000, "2.1", 32_000_000_000},
	{"DOGE", "Dogecoin", "0.20", 25_000_000_000, 1_000_000_000, "4.0", 130_000_000_000},
	{"MATIC", "Polygon", "1.50", 14_000_000_000, 1_500_000_000, "1.5", 10_000_000_000},
	{"DOT", "Polkadot", "8.50", 12_000_000_000, 800_000_000, "-1.0", 1_200_000_000},
	{"AVAX", "Avalanche", "35", 10_000_000_000, 1_200_000_000, "3.2", 310_000_000},
	{"TRX", "Tron", "0.08", 9_000_000_000, 800_000_000, "2.7", 89_000_000_000},
	{"LTC", "Litecoin", "200", 8_000_000_000, 900_000_000, "1.9", 73_000_000},
	{"SHIB", "Shiba Inu", "0.000025", 7_000_000_000, 500_000_000, "4.5", 500_000_000_000_000},
	{"WBTC", "Wrapped Bitcoin", "67500", 7_000_000_000, 300_000_000, "2.3", 120_000},
}
