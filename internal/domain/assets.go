package domain

import (
	"errors"
	"fmt"
	"strings"
)

// TrackedAsset binds an internal symbol to the feed's identifier for it.
type TrackedAsset struct {
	Symbol Symbol
	FeedID string
}

// AssetTable is the immutable set of assets a price sync refreshes. Build it
// once at startup and pass it by value.
type AssetTable struct {
	assets   []TrackedAsset
	byFeedID map[string]Symbol
}

var ErrInvalidAssetTable = errors.New("invalid asset table")

func NewAssetTable(assets []TrackedAsset) (AssetTable, error) {
	if len(assets) == 0 {
		return AssetTable{}, fmt.Errorf("%w: no assets", ErrInvalidAssetTable)
	}
	t := AssetTable{
		assets:   make([]TrackedAsset, 0, len(assets)),
		byFeedID: make(map[string]Symbol, len(assets)),
	}
	seen := make(map[Symbol]bool, len(assets))
	for _, a := range assets {
		sym, err := NormalizeSymbol(string(a.Symbol))
		if err != nil {
			return AssetTable{}, fmt.Errorf("%w: %v", ErrInvalidAssetTable, err)
		}
		id := strings.TrimSpace(a.FeedID)
		if id == "" {
			return AssetTable{}, fmt.Errorf("%w: %s has no feed id", ErrInvalidAssetTable, sym)
		}
		if seen[sym] {
			return AssetTable{}, fmt.Errorf("%w: duplicate symbol %s", ErrInvalidAssetTable, sym)
		}
		if _, dup := t.byFeedID[id]; dup {
			return AssetTable{}, fmt.Errorf("%w: duplicate feed id %s", ErrInvalidAssetTable, id)
		}
		seen[sym] = true
		t.byFeedID[id] = sym
		t.assets = append(t.assets, TrackedAsset{Symbol: sym, FeedID: id})
	}
	return t, nil
}

// ParseAssetTable reads "BTC=bitcoin,ETH=ethereum".
func ParseAssetTable(s string) (AssetTable, error) {
	var assets []TrackedAsset
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		sym, id, ok := strings.Cut(part, "=")
		if !ok {
			return AssetTable{}, fmt.Errorf("%w: entry %q is not SYMBOL=feed-id", ErrInvalidAssetTable, part)
		}
		assets = append(assets, TrackedAsset{Symbol: Symbol(sym), FeedID: id})
	}
	return NewAssetTable(assets)
}

func DefaultAssetTable() AssetTable {
	t, err := NewAssetTable(defaultAssets)
	if err != nil {
		panic(err)
	}
	return t
}

// FeedIDs returns the feed identifiers in configuration order.
func (t AssetTable) FeedIDs() []string {
	ids := make([]string, len(t.assets))
	for i, a := range t.assets {
		ids[i] = a.FeedID
	}
	return ids
}

func (t AssetTable) SymbolFor(feedID string) (Symbol, bool) {
	s, ok := t.byFeedID[feedID]
	return s, ok
}

func (t AssetTable) Assets() []TrackedAsset {
	return append([]TrackedAsset(nil), t.assets...)
}

func (t AssetTable) Len() int { return len(t.assets) }

var defaultAssets = []TrackedAsset{
	{"BTC", "bitcoin"},
	{"ETH", "ethereum"},
	{"USDT", "tether"},
	{"BNB", "binancecoin"},
	{"SOL", "solana"},
	{"XRP", "ripple"},
	{"ADA", "cardano"},
	{"DOGE", "dogecoin"},
	{"MATIC", "matic-network"},
	{"DOT", "polkadot"},
	{"AVAX", "avalanche-2"},
	{"TRX", "tron"},
	{"LTC", "litecoin"},
	{"SHIB", "shiba-inu"},
	{"WBTC", "wrapped-bitcoin"},
}
