//go:build wireinject

package bootstrap

import (
	"context"

	httpserver "cryptorates-service/internal/infrastructure/http"
	"cryptorates-service/internal/infrastructure/worker"

	"github.com/google/wire"
)

var infraSet = wire.NewSet(
	ProvideLogger,
	ProvideConfig,
	ProvideDB,
	ProvideRepos,
	ProvideRedisClient,
	ProvideServices,
	ProvideAssetTable,
	ProvidePriceFeed,
	ProvideCryptoService,
	ProvidePriceSync,
)

// API injector: builds *httpserver.Server + Cleanup
func InitAPI(ctx context.Context) (*httpserver.Server, func(), error) {
	wire.Build(
		infraSet,
		ProvideAuthenticator,
		ProvideServer,
	)
	return nil, nil, nil
}

// Worker injector: builds the periodic sync worker + Cleanup
func InitWorker(ctx context.Context) (*worker.SyncWorker, func(), error) {
	wire.Build(
		infraSet,
		ProvideSyncWorker,
	)
	return nil, nil, nil
}

// CLI injector: builds what pricectl needs + Cleanup
func InitCLI(ctx context.Context) (*CLI, func(), error) {
	wire.Build(
		infraSet,
		ProvideSeeder,
		ProvideCLI,
	)
	return nil, nil, nil
}
