package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	internalrepo "StockCast/internal/repository"
	svccache "StockCast/internal/service/cache"
	"StockCast/pkg/config"
	xhttp "StockCast/pkg/http"
	xlogger "StockCast/pkg/logger"
)

// App encapsulates the application lifecycle: HTTP server startup, signal
// handling and graceful resource teardown.
type App struct {
	cfg        *config.Config
	handler    xhttp.Handler
	cache      *svccache.ResultCache
	publisher  *internalrepo.PredictionPublisher
	logger     *xlogger.Logger
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	handler xhttp.Handler,
	cache *svccache.ResultCache,
	publisher *internalrepo.PredictionPublisher,
	logger *xlogger.Logger,
) *App {
	return &App{
		cfg:       cfg,
		handler:   handler,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	metricsPath := ""
	if a.cfg.Metrics.Enabled {
		metricsPath = a.cfg.Metrics.Path
	}

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(true, a.cfg.Server.CORSOrigins),
		xhttp.WithMetricsPath(metricsPath),
	)

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", xlogger.Error(err))
		return err
	}
	a.logger.Info("server started",
		xlogger.Int("port", a.cfg.Server.Port),
		xlogger.String("environment", a.cfg.Environment),
		xlogger.String("cache_backend", a.cfg.Cache.Backend),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.logger.Error("http shutdown error", xlogger.Error(err))
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("publisher close error", xlogger.Error(err))
		}
	}

	if err := a.cache.Close(); err != nil {
		a.logger.Warn("cache close error", xlogger.Error(err))
	}

	a.logger.Info("shutdown complete")
	return nil
}
