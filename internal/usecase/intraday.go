package usecase

import (
	"math"

	"StockCast/internal/domain/models"
	xlogger "StockCast/pkg/logger"
	"StockCast/pkg/util"
)

// IntradayEstimator is the lightweight short-horizon path: a single linear
// fit over a recent tick window plus momentum and volatility heuristics.
// No models are trained; uncertainty scales with elapsed steps via a
// square-root-of-time heuristic instead of model disagreement.
type IntradayEstimator struct {
	logger *xlogger.Logger
}

// NewIntradayEstimator creates the estimator.
func NewIntradayEstimator(logger *xlogger.Logger) *IntradayEstimator {
	return &IntradayEstimator{logger: logger}
}

// intradayHorizons are the forecast labels and their minute offsets.
var intradayHorizons = []struct {
	label   string
	minutes int
}{
	{"5min", 5},
	{"15min", 15},
	{"30min", 30},
}

// PredictIntraday extrapolates the recent window for the 5/15/30 minute
// horizons.
func (ie *IntradayEstimator) PredictIntraday(symbol string, recentPrices []float64, intervalSeconds int) (*models.IntradayResult, error) {
	prices := recentPrices
	n := len(prices)
	last := prices[n-1]

	slope, intercept := fitLine(prices)

	momentum := 0.0
	if n >= 5 {
		momentum = last - prices[n-5]
	}

	window := prices
	if n >= 20 {
		window = prices[n-20:]
	}
	diffs := util.Diff(window)
	avgChange := util.Mean(diffs)
	volatility := util.StdPop(diffs)

	predictions := make(map[string]models.IntradayHorizon, len(intradayHorizons))
	for _, h := range intradayHorizons {
		steps := h.minutes * 60 / intervalSeconds
		if steps < 1 {
			steps = 1
		}

		trendPred := slope*float64(n+steps) + intercept
		momentumAdj := momentum * (float64(steps) / 5)
		pred := trendPred + momentumAdj*0.3

		band := 1.5 * volatility * math.Sqrt(float64(steps))

		direction := "down"
		if pred > last {
			direction = "up"
		}

		predictions[h.label] = models.IntradayHorizon{
			Price:     util.Round2(pred),
			Upper:     util.Round2(pred + band),
			Lower:     util.Round2(pred - band),
			Direction: direction,
			ChangePct: util.Round3((pred - last) / last * 100),
		}
	}

	trend := "down"
	if avgChange > 0 {
		trend = "up"
	}

	ie.logger.Debug("intraday estimate",
		xlogger.String("symbol", symbol),
		xlogger.Int("window", n),
		xlogger.Int("interval_seconds", intervalSeconds),
	)

	return &models.IntradayResult{
		Symbol:       symbol,
		CurrentPrice: util.Round2(last),
		Predictions:  predictions,
		Momentum:     util.Round4(momentum),
		Volatility:   util.Round4(volatility),
		Trend:        trend,
	}, nil
}

// fitLine is least squares of price against step index.
func fitLine(prices []float64) (slope, intercept float64) {
	n := float64(len(prices))
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range prices {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}
