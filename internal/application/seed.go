package application

import (
	"context"
	"fmt"

	"cryptorates-service/internal/domain"
)

type SeedResult struct {
	Created int
	Updated int
}

// Seeder upserts a fixed set of currencies by symbol in one transaction.
type Seeder struct {
	currencies CurrencyRepo
	uow        UnitOfWork
	clock      Clock
}

func NewSeeder(currencies CurrencyRepo, uow UnitOfWork) *Seeder {
	if uow == nil {
		uow = NoopUoW{}
	}
	return &Seeder{currencies: currencies, uow: uow, clock: realClock{}}
}

func (s *Seeder) Seed(ctx context.Context, records []domain.Currency) (SeedResult, error) {
	var res SeedResult
	err := s.uow.Do(ctx, func(txCtx context.Context) error {
		res = SeedResult{}
		now := s.clock.Now()
		for _, c := range records {
			sym, err := domain.NormalizeSymbol(string(c.Symbol))
			if err != nil {
				return err
			}
			c.Symbol = sym
			c.LastUpdated = now
			created, err := s.currencies.Upsert(txCtx, c)
			if err != nil {
				return fmt.Errorf("upsert %s: %w", sym, err)
			}
			if created {
				res.Created++
			} else {
				res.Updated++
			}
		}
		return nil
	})
	if err != nil {
		return SeedResult{}, err
	}
	return res, nil
}
