package pg

import (
	"context"
	"errors"
	"fmt"

	"cryptorates-service/internal/application"
	"cryptorates-service/internal/domain"
	"cryptorates-service/internal/infrastructure/logx"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CurrencyRepo struct{ db *DB }

func NewCurrencyRepo(db *DB) *CurrencyRepo { return &CurrencyRepo{db: db} }

const currencyCols = `symbol, name, price_usd::text, market_cap, volume_24h,
       percent_change_24h::text, circulating_supply, last_updated`

func scanCurrency(row pgx.Row) (domain.Currency, error) {
	var (
		c             domain.Currency
		sym           string
		price, change string
	)
	if err := row.Scan(&sym, &c.Name, &price, &c.MarketCap, &c.Volume24h, &change, &c.CirculatingSupply, &c.LastUpdated); err != nil {
		return domain.Currency{}, err
	}
	c.Symbol = domain.Symbol(sym)
	var err error
	if c.PriceUSD, err = decimal.NewFromString(price); err != nil {
		return domain.Currency{}, fmt.Errorf("price_usd: %w", err)
	}
	if c.PercentChange24h, err = decimal.NewFromString(change); err != nil {
		return domain.Currency{}, fmt.Errorf("percent_change_24h: %w", err)
	}
	c.LastUpdated = c.LastUpdated.UTC()
	return c, nil
}

func (r *CurrencyRepo) Get(ctx context.Context, symbol domain.Symbol) (domain.Currency, error) {
	q := `SELECT ` + currencyCols + ` FROM currencies WHERE symbol = UPPER($1)`
	c, err := scanCurrency(r.db.q(ctx).QueryRow(ctx, q, string(symbol)))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Currency{}, fmt.Errorf("%w: %s", application.ErrNotFound, symbol)
	}
	if err != nil {
		logx.WithFields(ctx).Error("sql.query_failed",
			zap.String("repo", "currency"), zap.String("operation", "Get"), zap.Error(err))
		return domain.Currency{}, err
	}
	return c, nil
}

func (r *CurrencyRepo) List(ctx context.Context) ([]domain.Currency, error) {
	q := `SELECT ` + currencyCols + ` FROM currencies ORDER BY market_cap DESC, symbol`
	rows, err := r.db.q(ctx).Query(ctx, q)
	if err != nil {
		logx.WithFields(ctx).Error("sql.query_failed",
			zap.String("repo", "currency"), zap.String("operation", "List"), zap.Error(err))
		return nil, err
	}
	defer rows.Close()
	out := make([]domain.Currency, 0, 16)
	for rows.Next() {
		c, err := scanCurrency(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CurrencyRepo) Upsert(ctx context.Context, c domain.Currency) (bool, error) {
	const up = `
        INSERT INTO currencies(symbol, name, price_usd, market_cap, volume_24h,
                               percent_change_24h, circulating_supply, last_updated)
        VALUES ($1, $2, $3::numeric, $4, $5, $6::numeric, $7, NOW())
        ON CONFLICT (symbol) DO UPDATE
          SET name=EXCLUDED.name,
              price_usd=EXCLUDED.price_usd,
              market_cap=EXCLUDED.market_cap,
              volume_24h=EXCLUDED.volume_24h,
              percent_change_24h=EXCLUDED.percent_change_24h,
              circulating_supply=EXCLUDED.circulating_supply,
              last_updated=NOW()
        RETURNING (xmax = 0)`
	log := logx.WithFields(ctx).With(
		zap.String("repo", "currency"),
		zap.String("operation", "Upsert"),
		zap.String("symbol", string(c.Symbol)),
	)
	var created bool
	err := r.db.q(ctx).QueryRow(ctx, up,
		string(c.Symbol), c.Name, c.PriceUSD.String(), c.MarketCap, c.Volume24h,
		c.PercentChange24h.String(), c.CirculatingSupply,
	).Scan(&created)
	if err != nil {
		log.Error("sql.exec_failed", zap.Error(err))
		return false, err
	}
	log.Debug("sql.exec_success", zap.Bool("created", created))
	return created, nil
}

func (r *CurrencyRepo) UpdateMarket(ctx context.Context, symbol domain.Symbol, md domain.MarketData) (bool, error) {
	const up = `
        UPDATE currencies
        SET price_usd=$2::numeric,
            market_cap=$3,
            volume_24h=$4,
            percent_change_24h=$5::numeric,
            circulating_supply=$6,
            last_updated=NOW()
        WHERE symbol=$1`
	log := logx.WithFields(ctx).With(
		zap.String("repo", "currency"),
		zap.String("operation", "UpdateMarket"),
		zap.String("symbol", string(symbol)),
	)
	tag, err := r.db.q(ctx).Exec(ctx, up,
		string(symbol), md.PriceUSD.String(), md.MarketCap, md.Volume24h,
		md.PercentChange24h.String(), md.CirculatingSupply,
	)
	if err != nil {
		log.Error("sql.exec_failed", zap.Error(err))
		return false, err
	}
	if tag.RowsAffected() == 0 {
		log.Debug("sql.exec_no_rows")
		return false, nil
	}
	return true, nil
}
