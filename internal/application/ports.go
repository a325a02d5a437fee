package application

import (
	"context"

	"cryptorates-service/internal/domain"
)

// CurrencyRepo is the price store. Implementations join the transaction
// carried by ctx when there is one.
type CurrencyRepo interface {
	Get(ctx context.Context, symbol domain.Symbol) (domain.Currency, error)
	List(ctx context.Context) ([]domain.Currency, error)
	// Upsert inserts c or overwrites every field of the existing row.
	// created reports whether a new row was inserted.
	Upsert(ctx context.Context, c domain.Currency) (created bool, err error)
	// UpdateMarket refreshes market fields of an existing row only.
	UpdateMarket(ctx context.Context, symbol domain.Symbol, md domain.MarketData) (found bool, err error)
}

// ConversionRepo is the append-only conversion ledger.
type ConversionRepo interface {
	Append(ctx context.Context, c domain.Conversion) error
	ListByPrincipal(ctx context.Context, principal domain.PrincipalID, limit, offset int) ([]domain.Conversion, error)
}

// PriceFeed fetches market rows for the given feed ids in one call.
type PriceFeed interface {
	Markets(ctx context.Context, feedIDs []string) ([]domain.FeedEntry, error)
}
