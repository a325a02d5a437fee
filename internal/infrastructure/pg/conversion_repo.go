package pg

import (
	"context"
	"fmt"

	"cryptorates-service/internal/domain"
	"cryptorates-service/internal/infrastructure/logx"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ConversionRepo is append-only; a trigger rejects UPDATE and DELETE.
type ConversionRepo struct{ db *DB }

func NewConversionRepo(db *DB) *ConversionRepo { return &ConversionRepo{db: db} }

func (r *ConversionRepo) Append(ctx context.Context, c domain.Conversion) error {
	const ins = `
        INSERT INTO conversions(id, principal_id, from_symbol, to_symbol,
                                amount, converted_amount, conversion_rate, created_at)
        VALUES ($1, $2, $3, $4, $5::numeric, $6::numeric, $7::numeric, $8)`
	log := logx.WithFields(ctx).With(
		zap.String("repo", "conversion"),
		zap.String("operation", "Append"),
		zap.String("id", c.ID),
	)
	_, err := r.db.q(ctx).Exec(ctx, ins,
		c.ID, string(c.Principal), string(c.From), string(c.To),
		c.Amount.String(), c.Converted.String(), c.Rate.String(), c.CreatedAt,
	)
	if err != nil {
		log.Error("sql.exec_failed", zap.Error(err))
		return err
	}
	log.Debug("sql.exec_success")
	return nil
}

func (r *ConversionRepo) ListByPrincipal(ctx context.Context, principal domain.PrincipalID, limit, offset int) ([]domain.Conversion, error) {
	const q = `
        SELECT id, principal_id, from_symbol, to_symbol,
               amount::text, converted_amount::text, conversion_rate::text, created_at
        FROM conversions
        WHERE principal_id = $1
        ORDER BY created_at DESC, id DESC
        LIMIT $2 OFFSET $3`
	rows, err := r.db.q(ctx).Query(ctx, q, string(principal), limit, offset)
	if err != nil {
		logx.WithFields(ctx).Error("sql.query_failed",
			zap.String("repo", "conversion"), zap.String("operation", "ListByPrincipal"), zap.Error(err))
		return nil, err
	}
	defer rows.Close()
	out := make([]domain.Conversion, 0, limit)
	for rows.Next() {
		var (
			c                       domain.Conversion
			p, from, to             string
			amount, converted, rate string
		)
		if err := rows.Scan(&c.ID, &p, &from, &to, &amount, &converted, &rate, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.Principal, c.From, c.To = domain.PrincipalID(p), domain.Symbol(from), domain.Symbol(to)
		if c.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("amount: %w", err)
		}
		if c.Converted, err = decimal.NewFromString(converted); err != nil {
			return nil, fmt.Errorf("converted_amount: %w", err)
		}
		if c.Rate, err = decimal.NewFromString(rate); err != nil {
			return nil, fmt.Errorf("conversion_rate: %w", err)
		}
		c.CreatedAt = c.CreatedAt.UTC()
		out = append(out, c)
	}
	return out, rows.Err()
}
