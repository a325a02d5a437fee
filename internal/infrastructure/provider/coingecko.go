package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"cryptorates-service/internal/application"
	"cryptorates-service/internal/domain"
	"cryptorates-service/internal/infrastructure/httpx"

	"github.com/shopspring/decimal"
)

const coinGeckoMarketsPath = "/coins/markets"

// CoinGecko reads the coins/markets endpoint. It makes one request per call
// and never retries.
type CoinGecko struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

var _ application.PriceFeed = (*CoinGecko)(nil)

type cgMarket struct {
	ID                       string              `json:"id"`
	Symbol                   string              `json:"symbol"`
	CurrentPrice             decimal.NullDecimal `json:"current_price"`
	MarketCap                decimal.NullDecimal `json:"market_cap"`
	TotalVolume              decimal.NullDecimal `json:"total_volume"`
	PriceChangePercentage24h decimal.NullDecimal `json:"price_change_percentage_24h"`
	CirculatingSupply        decimal.NullDecimal `json:"circulating_supply"`
}

func (p *CoinGecko) Markets(ctx context.Context, ids []string) ([]domain.FeedEntry, error) {
	if p.BaseURL == "" {
		return nil, errors.New("coingecko: missing base url")
	}
	if len(ids) == 0 {
		return nil, nil
	}
	u, err := url.Parse(strings.TrimRight(p.BaseURL, "/") + coinGeckoMarketsPath)
	if err != nil {
		return nil, fmt.Errorf("coingecko: invalid base url: %w", err)
	}
	q := u.Query()
	q.Set("vs_currency", "usd")
	q.Set("ids", strings.Join(ids, ","))
	q.Set("order", "market_cap_desc")
	q.Set("per_page", strconv.Itoa(len(ids)))
	q.Set("page", "1")
	q.Set("sparkline", "false")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("coingecko: create request: %w", err)
	}
	c := &httpx.Client{HTTP: p.Client}
	if p.APIKey != "" {
		c.Header = http.Header{"X-Cg-Demo-Api-Key": []string{p.APIKey}}
	}

	// Rows are decoded one at a time so a bad row does not sink the batch.
	var rows []json.RawMessage
	if err := c.DoJSON(ctx, req, &rows); err != nil {
		return nil, fmt.Errorf("coingecko: %w", err)
	}
	out := make([]domain.FeedEntry, 0, len(rows))
	for _, raw := range rows {
		out = append(out, decodeMarket(raw))
	}
	return out, nil
}

func decodeMarket(raw json.RawMessage) domain.FeedEntry {
	var m cgMarket
	if err := json.Unmarshal(raw, &m); err != nil {
		var idOnly struct {
			ID string `json:"id"`
		}
		_ = json.Unmarshal(raw, &idOnly)
		return domain.FeedEntry{FeedID: idOnly.ID, Invalid: err.Error()}
	}
	return domain.FeedEntry{
		FeedID:            m.ID,
		Price:             m.CurrentPrice,
		MarketCap:         m.MarketCap,
		Volume24h:         m.TotalVolume,
		PercentChange24h:  m.PriceChangePercentage24h,
		CirculatingSupply: m.CirculatingSupply,
	}
}
