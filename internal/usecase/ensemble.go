package usecase

import (
	"fmt"

	"StockCast/internal/domain/models"
	"StockCast/internal/services/features"
	"StockCast/internal/services/predictor"
	xlogger "StockCast/pkg/logger"
	"StockCast/pkg/util"
)

// Fixed ensemble weights. They must sum to 1.0; the blended forecast is a
// convex combination of the three model forecasts.
const (
	WeightPattern = 0.5
	WeightForest  = 0.3
	WeightTrend   = 0.2
)

// HorizonDays is the full-pipeline forecast horizon.
const HorizonDays = 30

// Wire identifiers for the three models, kept stable for API clients.
const (
	keyPattern = "lstm"
	keyForest  = "rf"
	keyTrend   = "lr"
)

// EnsemblePredictor trains the three models on a request's series, blends
// their multi-day forecasts and assembles the chart-ready result. Models
// are constructed fresh per call and discarded afterwards.
type EnsemblePredictor struct {
	engine  *features.Engine
	logger  *xlogger.Logger
	horizon int
}

// NewEnsemblePredictor creates the orchestrator.
func NewEnsemblePredictor(engine *features.Engine, logger *xlogger.Logger) *EnsemblePredictor {
	return &EnsemblePredictor{engine: engine, logger: logger, horizon: HorizonDays}
}

// Predict runs the full pipeline for one symbol.
func (e *EnsemblePredictor) Predict(symbol string, historicalPrices []float64, currentPrice float64, signals models.SignalSet) (*models.PredictionResult, error) {
	prices := historicalPrices

	pattern := predictor.NewPatternModel(predictor.PatternLookback(len(prices)))
	forest := predictor.NewForestModel(e.engine)
	trend := predictor.NewTrendModel(e.engine)

	if err := pattern.Train(prices); err != nil {
		return nil, fmt.Errorf("train pattern model: %w", err)
	}
	if err := forest.Train(prices, signals); err != nil {
		return nil, fmt.Errorf("train forest model: %w", err)
	}
	if err := trend.Train(prices, signals); err != nil {
		return nil, fmt.Errorf("train trend model: %w", err)
	}

	patternPreds, err := pattern.PredictDays(prices, e.horizon)
	if err != nil {
		return nil, fmt.Errorf("pattern forecast: %w", err)
	}
	forestPreds, err := forest.PredictDays(prices, e.horizon)
	if err != nil {
		return nil, fmt.Errorf("forest forecast: %w", err)
	}
	trendPreds, err := trend.PredictDays(prices, e.horizon)
	if err != nil {
		return nil, fmt.Errorf("trend forecast: %w", err)
	}

	// Weighted blend plus a confidence band from inter-model disagreement:
	// wider spread between the three forecasts means a wider band. This is
	// the system's only uncertainty signal.
	blended := make([]float64, e.horizon)
	uppers := make([]float64, e.horizon)
	lowers := make([]float64, e.horizon)
	for i := 0; i < e.horizon; i++ {
		weighted := WeightPattern*patternPreds[i] + WeightForest*forestPreds[i] + WeightTrend*trendPreds[i]
		blended[i] = util.Round2(weighted)

		sigma := util.StdPop([]float64{patternPreds[i], forestPreds[i], trendPreds[i]})
		uppers[i] = util.Round2(weighted + 1.5*sigma)
		lowers[i] = util.Round2(weighted - 1.5*sigma)
	}

	chart := buildChartData(prices, currentPrice, blended, uppers, lowers)

	table, err := e.engine.Compute(prices, signals)
	if err != nil {
		return nil, fmt.Errorf("technical signals: %w", err)
	}
	signalsSummary := technicalSummary(table)

	predictions := make(map[string]models.HorizonPrediction)
	for _, h := range []struct {
		label string
		idx   int
	}{
		{"next_1d", 0},
		{"next_5d", 4},
		{"next_10d", 9},
		{"next_30d", 29},
	} {
		if h.idx >= len(blended) {
			continue
		}
		price := blended[h.idx]
		predictions[h.label] = models.HorizonPrediction{
			Price:      price,
			ChangePct:  util.Round2((price - currentPrice) / currentPrice * 100),
			Confidence: [2]float64{lowers[h.idx], uppers[h.idx]},
		}
	}

	e.logger.Debug("ensemble prediction assembled",
		xlogger.String("symbol", symbol),
		xlogger.Int("history", len(prices)),
		xlogger.Int("horizon", e.horizon),
	)

	return &models.PredictionResult{
		Symbol:       symbol,
		CurrentPrice: currentPrice,
		ChartData:    chart,
		Predictions:  predictions,
		ModelWeights: map[string]float64{
			keyPattern: WeightPattern,
			keyForest:  WeightForest,
			keyTrend:   WeightTrend,
		},
		ModelPredictions: map[string][]float64{
			keyPattern: roundAll(patternPreds),
			keyForest:  roundAll(forestPreds),
			keyTrend:   roundAll(trendPreds),
		},
		TechnicalSignals: signalsSummary,
	}, nil
}

// buildChartData lays out the chart series: up to 30 trailing historical
// points with negative day offsets, the current price at day 0, then the
// predicted points with their confidence band.
func buildChartData(prices []float64, currentPrice float64, blended, uppers, lowers []float64) []models.ChartPoint {
	histSlice := prices
	if len(histSlice) > 30 {
		histSlice = histSlice[len(histSlice)-30:]
	}

	chart := make([]models.ChartPoint, 0, len(histSlice)+1+len(blended))
	for i, price := range histSlice {
		chart = append(chart, models.ChartPoint{
			Day:   i - len(histSlice),
			Price: util.Round2(price),
			Type:  "historical",
		})
	}

	chart = append(chart, models.ChartPoint{
		Day:   0,
		Price: util.Round2(currentPrice),
		Type:  "current",
	})

	for i := range blended {
		upper := uppers[i]
		lower := lowers[i]
		chart = append(chart, models.ChartPoint{
			Day:   i + 1,
			Price: blended[i],
			Upper: &upper,
			Lower: &lower,
			Type:  "predicted",
		})
	}
	return chart
}

// technicalSummary classifies the last feature row.
func technicalSummary(table *features.Table) models.TechnicalSignals {
	rsi, macd, macdSignal := table.LastIndicators()

	rsiSignal := "Neutral"
	switch {
	case rsi > 70:
		rsiSignal = "Overbought"
	case rsi < 30:
		rsiSignal = "Oversold"
	}

	macdTrend := "Bearish"
	if macd > macdSignal {
		macdTrend = "Bullish"
	}

	return models.TechnicalSignals{
		RSI:        util.Round2(rsi),
		RSISignal:  rsiSignal,
		MACDTrend:  macdTrend,
		MACDValue:  util.Round4(macd),
		MACDSignal: util.Round4(macdSignal),
	}
}

func roundAll(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = util.Round2(x)
	}
	return out
}
