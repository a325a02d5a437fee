package httpserver

import (
	"bytes"
	"encoding/json"
	"time"

	"cryptorates-service/internal/domain"

	"github.com/shopspring/decimal"
)

// numText accepts a JSON number or a JSON string and keeps its exact text.
type numText string

func (n *numText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = numText(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	*n = numText(num.String())
	return nil
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if v != "" {
			return v
		}
	}
	return ""
}

type convertRequest struct {
	From         string  `json:"from"`
	To           string  `json:"to"`
	FromCurrency string  `json:"from_currency"`
	ToCurrency   string  `json:"to_currency"`
	Amount       numText `json:"amount"`
}

type aprRequest struct {
	Symbol       string  `json:"symbol"`
	CryptoSymbol string  `json:"crypto_symbol"`
	Principal    numText `json:"principal"`
	Rate         numText `json:"rate"`
	Years        numText `json:"years"`
	TimeYears    numText `json:"time_years"`
}

type currencyDTO struct {
	Symbol            string      `json:"symbol"`
	Name              string      `json:"name"`
	PriceUSD          json.Number `json:"price_usd"`
	MarketCap         int64       `json:"market_cap"`
	Volume24h         int64       `json:"volume_24h"`
	PercentChange24h  json.Number `json:"percent_change_24h"`
	CirculatingSupply int64       `json:"circulating_supply"`
	LastUpdated       time.Time   `json:"last_updated"`
}

func num(d decimal.Decimal) json.Number { return json.Number(d.String()) }

func fixed(d decimal.Decimal, places int32) json.Number { return json.Number(d.StringFixed(places)) }

func toCurrencyDTO(c domain.Currency) currencyDTO {
	return currencyDTO{
		Symbol:            string(c.Symbol),
		Name:              c.Name,
		PriceUSD:          num(c.PriceUSD),
		MarketCap:         c.MarketCap,
		Volume24h:         c.Volume24h,
		PercentChange24h:  num(c.PercentChange24h),
		CirculatingSupply: c.CirculatingSupply,
		LastUpdated:       c.LastUpdated,
	}
}

type conversionDTO struct {
	ID              string      `json:"id,omitempty"`
	FromCurrency    string      `json:"from_currency"`
	ToCurrency      string      `json:"to_currency"`
	Amount          json.Number `json:"amount"`
	ConvertedAmount json.Number `json:"converted_amount"`
	ConversionRate  json.Number `json:"conversion_rate"`
	CreatedAt       *time.Time  `json:"created_at,omitempty"`
}

func toConversionDTO(c domain.Conversion) conversionDTO {
	out := conversionDTO{
		ID:              c.ID,
		FromCurrency:    string(c.From),
		ToCurrency:      string(c.To),
		Amount:          num(c.Amount),
		ConvertedAmount: fixed(c.Converted, domain.ConversionScale),
		ConversionRate:  fixed(c.Rate, domain.ConversionScale),
	}
	if !c.CreatedAt.IsZero() {
		t := c.CreatedAt
		out.CreatedAt = &t
	}
	return out
}

type aprDTO struct {
	CryptoSymbol           string      `json:"crypto_symbol"`
	PrincipalInCrypto      json.Number `json:"principal_in_crypto"`
	PrincipalInUSD         json.Number `json:"principal_in_usd"`
	AnnualRatePercent      json.Number `json:"annual_rate_percent"`
	TimeYears              json.Number `json:"time_years"`
	TotalAmountInCrypto    json.Number `json:"total_amount_in_crypto"`
	InterestEarnedInCrypto json.Number `json:"interest_earned_in_crypto"`
	TotalAmountInUSD       json.Number `json:"total_amount_in_usd"`
	InterestEarnedInUSD    json.Number `json:"interest_earned_in_usd"`
}

func toAPRDTO(r domain.APRResult) aprDTO {
	return aprDTO{
		CryptoSymbol:           string(r.Symbol),
		PrincipalInCrypto:      num(r.Principal),
		PrincipalInUSD:         fixed(r.PrincipalUSD, 2),
		AnnualRatePercent:      fixed(r.RatePercent, 2),
		TimeYears:              fixed(r.Years, 2),
		TotalAmountInCrypto:    fixed(r.TotalInCurrency, 4),
		InterestEarnedInCrypto: fixed(r.InterestInCurrency, 4),
		TotalAmountInUSD:       fixed(r.TotalUSD, 2),
		InterestEarnedInUSD:    fixed(r.InterestUSD, 2),
	}
}

type syncResponse struct {
	Code           int      `json:"code,omitempty"`
	Message        string   `json:"message,omitempty"`
	UpdatedCryptos []string `json:"updated_cryptos"`
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
