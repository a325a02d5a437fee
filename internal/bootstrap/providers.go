package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"

	"cryptorates-service/internal/application"
	"cryptorates-service/internal/config"
	"cryptorates-service/internal/domain"
	httpserver "cryptorates-service/internal/infrastructure/http"
	"cryptorates-service/internal/infrastructure/logx"
	"cryptorates-service/internal/infrastructure/pg"
	"cryptorates-service/internal/infrastructure/provider"
	redisstore "cryptorates-service/internal/infrastructure/redis"
	"cryptorates-service/internal/infrastructure/worker"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrMissingDBURL = errors.New("DATABASE_URL is required")

// fakeFeedPrice is what the fake feed reports for every asset.
var fakeFeedPrice = decimal.RequireFromString("1.2345")

type Repos struct {
	Currencies  application.CurrencyRepo
	Conversions application.ConversionRepo
	UoW         application.UnitOfWork
}

type Services struct {
	Idem    application.IdempotencyStore
	Limiter httpserver.RateLimiter
}

// CLI bundles what pricectl commands need.
type CLI struct {
	Service *application.CryptoService
	Sync    *application.PriceSync
	Seeder  *application.Seeder
}

func ProvideLogger() *zap.Logger { return logx.L() }

func ProvideConfig() config.Config { return config.Load() }

func ProvideDB(ctx context.Context, log *zap.Logger, cfg config.Config) (*pg.DB, func(), error) {
	dbURL := cfg.DatabaseURL
	if dbURL == "" {
		return nil, func() {}, ErrMissingDBURL
	}
	db, err := pg.Connect(ctx, dbURL)
	if err != nil {
		return nil, func() {}, err
	}
	if err := pg.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, func() {}, err
	}
	cleanup := func() {
		if log != nil {
			log.Info("closing pg")
		}
		db.Close()
	}
	return db, cleanup, nil
}

func ProvideRepos(db *pg.DB) Repos {
	return Repos{
		Currencies:  pg.NewCurrencyRepo(db),
		Conversions: pg.NewConversionRepo(db),
		UoW:         pg.NewUnitOfWork(db),
	}
}

// ProvideRedisClient returns a nil client when REDIS_ADDR is unset.
func ProvideRedisClient(cfg config.Config) (*redis.Client, func(), error) {
	if !cfg.RedisEnabled() {
		return nil, func() {}, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return client, func() { _ = client.Close() }, nil
}

func ProvideServices(client *redis.Client, cfg config.Config, log *zap.Logger) Services {
	if client == nil {
		log.Info("redis disabled; idempotency and sync rate limit are off")
		return Services{Idem: application.NoopIdempotency{}}
	}
	s := Services{Idem: application.NoopIdempotency{}}
	if cfg.IdempotencyBackend == "redis" {
		s.Idem = redisstore.New(client, cfg.RedisTTL)
	}
	if cfg.SyncRateLimit > 0 {
		s.Limiter = redisstore.NewFixedWindow(client, cfg.SyncRateLimit, cfg.SyncRateWindow)
	}
	return s
}

func ProvideAssetTable(cfg config.Config) (domain.AssetTable, error) {
	if cfg.TrackedAssets == "" {
		return domain.DefaultAssetTable(), nil
	}
	return domain.ParseAssetTable(cfg.TrackedAssets)
}

func ProvidePriceFeed(cfg config.Config) (application.PriceFeed, error) {
	switch cfg.Feed {
	case "coingecko":
		return &provider.CoinGecko{
			BaseURL: cfg.FeedBaseURL,
			APIKey:  cfg.FeedAPIKey,
			Client:  &http.Client{Timeout: cfg.FeedTimeout},
		}, nil
	case "fake":
		return provider.NewFake(fakeFeedPrice), nil
	default:
		return nil, fmt.Errorf("unsupported FEED=%q", cfg.Feed)
	}
}

func ProvideCryptoService(r Repos, s Services) *application.CryptoService {
	return application.NewCryptoService(r.Currencies, r.Conversions, s.Idem)
}

func ProvidePriceSync(r Repos, feed application.PriceFeed, assets domain.AssetTable, cfg config.Config, log *zap.Logger) *application.PriceSync {
	return application.NewPriceSync(r.Currencies, feed, r.UoW, assets,
		application.WithFeedTimeout(cfg.FeedTimeout),
		application.WithSyncLogger(log),
	)
}

func ProvideSeeder(r Repos) *application.Seeder {
	return application.NewSeeder(r.Currencies, r.UoW)
}

func ProvideAuthenticator(cfg config.Config, log *zap.Logger) *httpserver.Authenticator {
	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET is empty; every authenticated route will answer 401")
	}
	return httpserver.NewAuthenticator(cfg.JWTSecret)
}

func ProvideServer(svc *application.CryptoService, sync *application.PriceSync, auth *httpserver.Authenticator, s Services, db *pg.DB, cfg config.Config, log *zap.Logger) *httpserver.Server {
	if len(cfg.CORSOrigins) == 0 || slices.Contains(cfg.CORSOrigins, "*") {
		log.Warn("CORS_ORIGINS allows any origin; cross-origin requests must use a Bearer token, cookies are not accepted")
	}
	srv := httpserver.NewServer(svc, sync, auth)
	srv.SetReadyCheck(db.Ping)
	srv.SetCORSOrigins(cfg.CORSOrigins)
	if s.Limiter != nil {
		srv.SetRateLimiter(s.Limiter)
	}
	return srv
}

func ProvideSyncWorker(sync *application.PriceSync, cfg config.Config, log *zap.Logger) *worker.SyncWorker {
	return worker.NewSyncWorker(sync, cfg.SyncInterval, log)
}

func ProvideCLI(svc *application.CryptoService, sync *application.PriceSync, seeder *application.Seeder) *CLI {
	return &CLI{Service: svc, Sync: sync, Seeder: seeder}
}
