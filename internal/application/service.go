package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cryptorates-service/internal/domain"
)

const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
)

type CryptoService struct {
	currencies  CurrencyRepo
	conversions ConversionRepo
	idem        IdempotencyStore
	clock       Clock
	idgen       IDGen
}

type Option func(*CryptoService)

func WithClock(c Clock) Option { return func(s *CryptoService) { s.clock = c } }
func WithIDGen(g IDGen) Option { return func(s *CryptoService) { s.idgen = g } }

func NewCryptoService(currencies CurrencyRepo, conversions ConversionRepo, idem IdempotencyStore, opts ...Option) *CryptoService {
	s := &CryptoService{
		currencies:  currencies,
		conversions: conversions,
		idem:        idem,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.idem == nil {
		s.idem = NoopIdempotency{}
	}
	if s.clock == nil {
		s.clock = realClock{}
	}
	if s.idgen == nil {
		s.idgen = defaultIDGen{}
	}
	return s
}

func (s *CryptoService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	return s.currencies.List(ctx)
}

// GetCurrency looks a currency up by symbol, case-insensitively.
func (s *CryptoService) GetCurrency(ctx context.Context, symbol string) (domain.Currency, error) {
	sym, err := domain.NormalizeSymbol(symbol)
	if err != nil {
		return domain.Currency{}, fmt.Errorf("%w: %s", ErrNotFound, symbol)
	}
	return s.currencies.Get(ctx, sym)
}

type ConvertRequest struct {
	From   string
	To     string
	Amount string
	// IdempotencyKey, when set, makes a repeated request fail with ErrConflict
	// instead of writing a second ledger entry.
	IdempotencyKey *string
}

// Convert prices req.Amount of req.From in req.To. For a non-empty principal
// the result is appended to the ledger once the arithmetic has succeeded.
func (s *CryptoService) Convert(ctx context.Context, principal domain.PrincipalID, req ConvertRequest) (domain.Conversion, error) {
	if strings.TrimSpace(req.From) == "" || strings.TrimSpace(req.To) == "" {
		return domain.Conversion{}, fmt.Errorf("%w: from and to are required", domain.ErrInvalidSymbol)
	}
	amount, err := domain.ParseAmount(strings.TrimSpace(req.Amount))
	if err != nil {
		return domain.Conversion{}, err
	}
	from, err := s.lookup(ctx, req.From)
	if err != nil {
		return domain.Conversion{}, err
	}
	to, err := s.lookup(ctx, req.To)
	if err != nil {
		return domain.Conversion{}, err
	}

	conv, err := domain.Convert(from, to, amount)
	if err != nil {
		return domain.Conversion{}, err
	}
	if principal == "" {
		return conv, nil
	}

	if req.IdempotencyKey != nil && *req.IdempotencyKey != "" {
		ok, err := s.idem.TryReserve(ctx, "convert:"+string(principal)+":"+*req.IdempotencyKey)
		if err != nil {
			return domain.Conversion{}, fmt.Errorf("reserve idempotency key: %w", err)
		}
		if !ok {
			return domain.Conversion{}, fmt.Errorf("%w: idempotency key already used", ErrConflict)
		}
	}

	conv.ID = s.idgen.NewID()
	conv.Principal = principal
	conv.CreatedAt = s.clock.Now()
	if err := s.conversions.Append(ctx, conv); err != nil {
		return domain.Conversion{}, fmt.Errorf("append conversion: %w", err)
	}
	return conv, nil
}

// lookup resolves a user supplied symbol; any miss is reported as an invalid symbol.
func (s *CryptoService) lookup(ctx context.Context, raw string) (domain.Currency, error) {
	sym, err := domain.NormalizeSymbol(raw)
	if err != nil {
		return domain.Currency{}, err
	}
	c, err := s.currencies.Get(ctx, sym)
	if errors.Is(err, ErrNotFound) {
		return domain.Currency{}, fmt.Errorf("%w: %s", domain.ErrInvalidSymbol, sym)
	}
	if err != nil {
		return domain.Currency{}, err
	}
	return c, nil
}

func (s *CryptoService) History(ctx context.Context, principal domain.PrincipalID, limit, offset int) ([]domain.Conversion, error) {
	if principal == "" {
		return nil, ErrUnauthenticated
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.conversions.ListByPrincipal(ctx, principal, limit, offset)
}

type APRRequest struct {
	Symbol    string
	Principal string
	Rate      string
	Years     string
}

// CalculateAPR is advisory and writes nothing.
func (s *CryptoService) CalculateAPR(ctx context.Context, req APRRequest) (domain.APRResult, error) {
	if strings.TrimSpace(req.Symbol) == "" {
		return domain.APRResult{}, fmt.Errorf("%w: symbol is required", domain.ErrInvalidSymbol)
	}
	principal, err := domain.ParseNonNegative("principal", req.Principal, domain.APRPrincipalLimits)
	if err != nil {
		return domain.APRResult{}, err
	}
	rate, err := domain.ParseNonNegative("rate", req.Rate, domain.APRFactorLimits)
	if err != nil {
		return domain.APRResult{}, err
	}
	years, err := domain.ParseNonNegative("years", req.Years, domain.APRFactorLimits)
	if err != nil {
		return domain.APRResult{}, err
	}
	c, err := s.lookup(ctx, req.Symbol)
	if err != nil {
		return domain.APRResult{}, err
	}
	return domain.CalculateAPR(c, principal, rate, years)
}
