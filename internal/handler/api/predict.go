package api

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"

	"StockCast/internal/domain/models"
	svccache "StockCast/internal/service/cache"
	"StockCast/internal/usecase"
	xhttp "StockCast/pkg/http"
	xlogger "StockCast/pkg/logger"
	"StockCast/pkg/metrics"
)

// modelNames is the roster reported by /health, in training order.
var modelNames = []string{"lstm", "random_forest", "linear_regression"}

// PredictionHandler serves the prediction API: health, the full-horizon
// ensemble endpoint and the intraday estimator.
type PredictionHandler struct {
	ensemble *usecase.EnsemblePredictor
	intraday *usecase.IntradayEstimator
	cache    *svccache.ResultCache
	events   Publisher
	metrics  *metrics.Recorder
	logger   *xlogger.Logger

	minHistory  int
	minIntraday int
}

// Publisher is the optional event sink for fresh predictions. A nil
// Publisher disables publishing.
type Publisher interface {
	Publish(ctx context.Context, result *models.PredictionResult) error
}

// Option configures the handler.
type Option func(*PredictionHandler)

// WithPublisher attaches an event publisher.
func WithPublisher(p Publisher) Option {
	return func(h *PredictionHandler) { h.events = p }
}

// WithHistoryLimits overrides the minimum series lengths.
func WithHistoryLimits(minHistory, minIntraday int) Option {
	return func(h *PredictionHandler) {
		h.minHistory = minHistory
		h.minIntraday = minIntraday
	}
}

// NewPredictionHandler creates the handler.
func NewPredictionHandler(
	ensemble *usecase.EnsemblePredictor,
	intraday *usecase.IntradayEstimator,
	cache *svccache.ResultCache,
	recorder *metrics.Recorder,
	logger *xlogger.Logger,
	opts ...Option,
) *PredictionHandler {
	h := &PredictionHandler{
		ensemble:    ensemble,
		intraday:    intraday,
		cache:       cache,
		metrics:     recorder,
		logger:      logger,
		minHistory:  30,
		minIntraday: 10,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes mounts the API routes.
func (h *PredictionHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)
	e.POST("/predict/price", h.PredictPrice)
	e.POST("/predict/intraday", h.PredictIntraday)
}

// Health reports service status, the model roster and cache occupancy.
func (h *PredictionHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, models.HealthResponse{
		Status:    "healthy",
		Models:    modelNames,
		CacheSize: h.cache.Size(c.Request().Context()),
	})
}

// PredictPrice runs the full ensemble pipeline, serving from cache when a
// fresh result for the symbol exists.
func (h *PredictionHandler) PredictPrice(c echo.Context) error {
	var req models.PricePredictionRequest
	if err := xhttp.ReadAndValidateRequest(c, &req); err != nil {
		h.metrics.RecordError("validation")
		return xhttp.AppErrorResponse(c, err)
	}

	if len(req.HistoricalPrices) < h.minHistory {
		h.metrics.RecordError("validation")
		return xhttp.BadRequestResponse(c,
			formatNeedPrices("historical", h.minHistory, len(req.HistoricalPrices)))
	}

	ctx := c.Request().Context()

	if cached, ok := h.cache.Get(ctx, req.Symbol); ok {
		cached.Cached = true
		cached.TrainingTimeMs = 0
		h.metrics.RecordCacheLookup("hit")
		h.metrics.RecordPrediction("price", "cached")
		return xhttp.SuccessResponse(c, cached)
	}
	h.metrics.RecordCacheLookup("miss")

	start := time.Now()
	result, err := h.ensemble.Predict(req.Symbol, req.HistoricalPrices, req.CurrentPrice, req.Signals())
	if err != nil {
		h.logger.Error("ensemble prediction failed",
			xlogger.String("symbol", req.Symbol),
			xlogger.Error(err),
		)
		h.metrics.RecordError("prediction")
		h.metrics.RecordPrediction("price", "error")
		return xhttp.InternalErrorResponse(c, "Prediction failed: "+err.Error())
	}
	elapsed := time.Since(start)

	result.TrainingTimeMs = elapsed.Milliseconds()
	result.Cached = false

	if err := h.cache.Set(ctx, req.Symbol, result); err != nil {
		h.logger.Warn("result cache write failed",
			xlogger.String("symbol", req.Symbol),
			xlogger.Error(err),
		)
	}

	if h.events != nil {
		if err := h.events.Publish(ctx, result); err != nil {
			h.logger.Warn("prediction event publish failed",
				xlogger.String("symbol", req.Symbol),
				xlogger.Error(err),
			)
		}
	}

	if p, ok := result.Predictions["next_1d"]; ok {
		h.metrics.RecordLastPrediction(result.Symbol, p.Price)
	}
	h.metrics.RecordTrainingDuration("price", elapsed.Seconds())
	h.metrics.RecordPrediction("price", "computed")

	h.logger.Info("prediction served",
		xlogger.String("symbol", req.Symbol),
		xlogger.Int("history", len(req.HistoricalPrices)),
		xlogger.Int64("training_time_ms", result.TrainingTimeMs),
	)
	return xhttp.SuccessResponse(c, result)
}

// PredictIntraday serves the short-horizon estimate. Results are not cached:
// intraday inputs change tick to tick.
func (h *PredictionHandler) PredictIntraday(c echo.Context) error {
	var req models.IntradayPredictionRequest
	if err := xhttp.ReadAndValidateRequest(c, &req); err != nil {
		h.metrics.RecordError("validation")
		return xhttp.AppErrorResponse(c, err)
	}

	if len(req.RecentPrices) < h.minIntraday {
		h.metrics.RecordError("validation")
		return xhttp.BadRequestResponse(c,
			formatNeedPrices("recent", h.minIntraday, len(req.RecentPrices)))
	}

	result, err := h.intraday.PredictIntraday(req.Symbol, req.RecentPrices, req.IntervalSeconds)
	if err != nil {
		h.logger.Error("intraday prediction failed",
			xlogger.String("symbol", req.Symbol),
			xlogger.Error(err),
		)
		h.metrics.RecordError("prediction")
		h.metrics.RecordPrediction("intraday", "error")
		return xhttp.InternalErrorResponse(c, "Intraday prediction failed: "+err.Error())
	}

	h.metrics.RecordPrediction("intraday", "computed")
	return xhttp.SuccessResponse(c, result)
}

func formatNeedPrices(kind string, want, got int) string {
	return fmt.Sprintf("Need at least %d %s prices, got %d", want, kind, got)
}
