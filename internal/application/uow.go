package application

import "context"

// UnitOfWork provides a transaction boundary using context propagation.
// Calling Do inside another Do opens a nested scope (a savepoint) that can
// fail without aborting the outer one.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// NoopUoW executes the function without starting a transaction.
type NoopUoW struct{}

func (NoopUoW) Do(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }
