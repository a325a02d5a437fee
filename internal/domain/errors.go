package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidSymbol   = errors.New("invalid currency symbol")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrFeedUnavailable = errors.New("price feed unavailable")
)
