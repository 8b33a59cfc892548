package di

import (
	"fmt"

	"StockCast/internal/handler/api"
	internalrepo "StockCast/internal/repository"
	svccache "StockCast/internal/service/cache"
	"StockCast/internal/services/features"
	"StockCast/internal/usecase"
	pkgcache "StockCast/pkg/cache"
	"StockCast/pkg/config"
	pkgkafka "StockCast/pkg/kafka"
	xlogger "StockCast/pkg/logger"
	"StockCast/pkg/metrics"
	"StockCast/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*xlogger.Logger, error) {
	l, err := xlogger.New(&xlogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() *metrics.Recorder {
	return metrics.New()
}

// ProvideCacheBackend creates the configured cache backend.
func ProvideCacheBackend(cfg *config.Config) (pkgcache.Service, error) {
	switch cfg.Cache.Backend {
	case "redis":
		store, err := pkgcache.NewRedisCache(
			pkgcache.WithAddr(cfg.Cache.Redis.Host, cfg.Cache.Redis.Port),
			pkgcache.WithCredentials(cfg.Cache.Redis.Password, cfg.Cache.Redis.DB),
			pkgcache.WithPrefix(cfg.Cache.Redis.Prefix),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return store, nil
	default:
		return pkgcache.NewMemoryCache(
			pkgcache.WithMaxSize(cfg.Cache.Memory.MaxSize),
			pkgcache.WithCleanupInterval(cfg.Cache.Memory.CleanupInterval),
		), nil
	}
}

// ProvideResultCache wraps the backend with prediction-result semantics.
func ProvideResultCache(store pkgcache.Service, cfg *config.Config) *svccache.ResultCache {
	return svccache.NewResultCache(store, cfg.Cache.TTL)
}

// ProvideFeatureEngine creates the feature engine with the current schema.
func ProvideFeatureEngine() *features.Engine {
	return features.NewEngine(features.NewSchema())
}

// ProvideEnsemblePredictor creates the full-horizon pipeline orchestrator.
func ProvideEnsemblePredictor(engine *features.Engine, logger *xlogger.Logger) *usecase.EnsemblePredictor {
	return usecase.NewEnsemblePredictor(engine, logger)
}

// ProvideIntradayEstimator creates the short-horizon estimator.
func ProvideIntradayEstimator(logger *xlogger.Logger) *usecase.IntradayEstimator {
	return usecase.NewIntradayEstimator(logger)
}

// ProvidePredictionPublisher creates the Kafka event publisher. Returns nil
// when events are disabled; callers treat nil as no-op.
func ProvidePredictionPublisher(cfg *config.Config) (*internalrepo.PredictionPublisher, error) {
	if !cfg.Events.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Events.Brokers),
		pkgkafka.WithCompression(cfg.Events.Compression),
		pkgkafka.WithRequiredAcks(cfg.Events.RequiredAcks),
		pkgkafka.WithTimeouts(cfg.Events.WriteTimeout, cfg.Events.WriteTimeout),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewPredictionPublisher(producer, cfg.Events.Topic), nil
}

// ProvidePredictionHandler creates the API handler.
func ProvidePredictionHandler(
	cfg *config.Config,
	ensemble *usecase.EnsemblePredictor,
	intraday *usecase.IntradayEstimator,
	cache *svccache.ResultCache,
	recorder *metrics.Recorder,
	logger *xlogger.Logger,
	publisher *internalrepo.PredictionPublisher,
) *api.PredictionHandler {
	opts := []api.Option{
		api.WithHistoryLimits(cfg.Prediction.MinHistory, cfg.Prediction.MinIntraday),
	}
	if publisher != nil {
		opts = append(opts, api.WithPublisher(publisher))
	}
	return api.NewPredictionHandler(ensemble, intraday, cache, recorder, logger, opts...)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	handler *api.PredictionHandler,
	cache *svccache.ResultCache,
	publisher *internalrepo.PredictionPublisher,
	logger *xlogger.Logger,
) *server.App {
	return server.New(cfg, handler, cache, publisher, logger)
}
