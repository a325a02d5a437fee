package provider

import (
	"context"

	"cryptorates-service/internal/application"
	"cryptorates-service/internal/domain"

	"github.com/shopspring/decimal"
)

// Ensure Fake implements application.PriceFeed.
var _ application.PriceFeed = (*Fake)(nil)

// Fake answers every id with the same price. Used for local runs without
// network access.
type Fake struct {
	price decimal.Decimal
}

func NewFake(price decimal.Decimal) *Fake { return &Fake{price: price} }

func (f *Fake) Markets(_ context.Context, ids []string) ([]domain.FeedEntry, error) {
	out := make([]domain.FeedEntry, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.FeedEntry{
			FeedID: id,
			Price:  decimal.NewNullDecimal(f.price),
		})
	}
	return out, nil
}
