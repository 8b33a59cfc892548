package features

import (
	"fmt"
	"math"

	"StockCast/internal/domain/models"
	"StockCast/pkg/util"
)

const eps = 1e-10

// Engine turns a raw close-price series and optional side-channel signals
// into an aligned feature table. It is deterministic and stateless apart
// from the schema it was constructed with.
type Engine struct {
	schema *Schema
}

// NewEngine creates a feature engine bound to a schema.
func NewEngine(schema *Schema) *Engine {
	return &Engine{schema: schema}
}

// Schema returns the engine's column contract.
func (e *Engine) Schema() *Schema { return e.schema }

// Compute builds the feature table for a price series. Rows keep their
// original index; cells without enough history hold NaN. The target column
// is the next-step fractional return and is NaN on the last row.
func (e *Engine) Compute(prices []float64, signals models.SignalSet) (*Table, error) {
	n := len(prices)
	if n == 0 {
		return nil, fmt.Errorf("features: empty price series")
	}

	t := newTable(e.schema, n)

	// Returns over 1/5/10/20 steps.
	t.set(ColReturn1d, pctChange(prices, 1))
	t.set(ColReturn5d, pctChange(prices, 5))
	t.set(ColReturn10d, pctChange(prices, 10))
	t.set(ColReturn20d, pctChange(prices, 20))

	// Price relative to simple moving averages.
	sma5 := rollingMean(prices, 5)
	sma20 := rollingMean(prices, 20)
	sma50 := rollingMean(prices, 50)
	t.set(ColPriceToSMA5, ratioMinusOne(prices, sma5))
	t.set(ColPriceToSMA20, ratioMinusOne(prices, sma20))
	t.set(ColPriceToSMA50, ratioMinusOne(prices, sma50))

	// Volatility: rolling std of the 1-step return.
	ret1 := t.column(ColReturn1d)
	t.set(ColVolatility10d, rollingStd(ret1, 10))
	t.set(ColVolatility20d, rollingStd(ret1, 20))

	// RSI-14 from rolling means of gains and losses.
	t.set(ColRSI14, rsi(prices, 14))

	// MACD(12, 26, 9).
	macd := make([]float64, n)
	ema12 := ema(prices, 12)
	ema26 := ema(prices, 26)
	for i := 0; i < n; i++ {
		macd[i] = ema12[i] - ema26[i]
	}
	signal := ema(macd, 9)
	hist := make([]float64, n)
	for i := 0; i < n; i++ {
		hist[i] = macd[i] - signal[i]
	}
	t.set(ColMACD, macd)
	t.set(ColMACDSignal, signal)
	t.set(ColMACDHist, hist)

	// Bollinger band position.
	bbStd := rollingStd(prices, 20)
	bbPos := make([]float64, n)
	for i := 0; i < n; i++ {
		mid, sd := sma20[i], bbStd[i]
		if math.IsNaN(mid) || math.IsNaN(sd) {
			bbPos[i] = math.NaN()
			continue
		}
		upper := mid + 2*sd
		lower := mid - 2*sd
		bbPos[i] = (prices[i] - lower) / (upper - lower + eps)
	}
	t.set(ColBBPosition, bbPos)

	// ATR proxy: rolling-14 mean of the rolling-2 price range. The close
	// series is all we have, so this stands in for true range on purpose.
	t.set(ColATR14, rollingMean(rollingRange2(prices), 14))

	// Momentum.
	t.set(ColMomentum5, shiftDiff(prices, 5))
	t.set(ColMomentum10, shiftDiff(prices, 10))
	t.set(ColMomentum20, shiftDiff(prices, 20))

	// Rate of change.
	t.set(ColROC5, scale(pctChange(prices, 5), 100))
	t.set(ColROC10, scale(pctChange(prices, 10), 100))

	// Side-channel columns broadcast as constants.
	for _, col := range e.schema.columns {
		if v, ok := sideValue(col, signals); ok {
			t.setConst(col.Name, v)
		}
	}

	// Training target: next-step fractional return.
	target := make([]float64, n)
	for i := 0; i < n-1; i++ {
		target[i] = prices[i+1]/prices[i] - 1
	}
	target[n-1] = math.NaN()
	t.target = target

	return t, nil
}

// sideValue resolves a side-channel column to its broadcast value, using the
// schema default when the signal (or the individual field) is absent.
func sideValue(col Column, s models.SignalSet) (float64, bool) {
	pick := func(p *float64) float64 {
		if p != nil {
			return *p
		}
		return col.Default
	}
	switch col.Name {
	case ColPERatio:
		if s.Fundamentals != nil {
			return pick(s.Fundamentals.PERatio), true
		}
	case ColPBRatio:
		if s.Fundamentals != nil {
			return pick(s.Fundamentals.PBRatio), true
		}
	case ColROE:
		if s.Fundamentals != nil {
			return pick(s.Fundamentals.ROE), true
		}
	case ColProfitMargin:
		if s.Fundamentals != nil {
			return pick(s.Fundamentals.ProfitMargin), true
		}
	case ColSentScore:
		if s.Sentiment != nil {
			return pick(s.Sentiment.Score), true
		}
	case ColSentMagnitude:
		if s.Sentiment != nil {
			return pick(s.Sentiment.Magnitude), true
		}
	case ColDeliveryPct:
		if s.Delivery != nil {
			return pick(s.Delivery.DeliveryPct), true
		}
	case ColDeliveryAvg:
		if s.Delivery != nil {
			return pick(s.Delivery.AvgDeliveryPct), true
		}
	case ColFIIFlow:
		if s.Flows != nil {
			return pick(s.Flows.FIIFlow), true
		}
	case ColDIIFlow:
		if s.Flows != nil {
			return pick(s.Flows.DIIFlow), true
		}
	default:
		return 0, false
	}
	return col.Default, true
}

// --- windowed helpers ---
// All helpers return slices aligned to the input index, NaN where the
// window has insufficient (or NaN) history.

func pctChange(xs []float64, k int) []float64 {
	out := nanSlice(len(xs))
	for i := k; i < len(xs); i++ {
		out[i] = xs[i]/xs[i-k] - 1
	}
	return out
}

func shiftDiff(xs []float64, k int) []float64 {
	out := nanSlice(len(xs))
	for i := k; i < len(xs); i++ {
		out[i] = xs[i] - xs[i-k]
	}
	return out
}

func rollingMean(xs []float64, w int) []float64 {
	out := nanSlice(len(xs))
	for i := w - 1; i < len(xs); i++ {
		win := xs[i-w+1 : i+1]
		if hasNaN(win) {
			continue
		}
		out[i] = util.Mean(win)
	}
	return out
}

// rollingStd uses the sample (n-1) estimator.
func rollingStd(xs []float64, w int) []float64 {
	out := nanSlice(len(xs))
	for i := w - 1; i < len(xs); i++ {
		win := xs[i-w+1 : i+1]
		if hasNaN(win) {
			continue
		}
		out[i] = util.StdSample(win)
	}
	return out
}

// rollingRange2 is max-min over each 2-step window.
func rollingRange2(xs []float64) []float64 {
	out := nanSlice(len(xs))
	for i := 1; i < len(xs); i++ {
		out[i] = math.Abs(xs[i] - xs[i-1])
	}
	return out
}

// ema applies exponential weighting with alpha = 2/(span+1), seeded from the
// first observation rather than a simple-average warmup.
func ema(xs []float64, span int) []float64 {
	out := make([]float64, len(xs))
	if len(xs) == 0 {
		return out
	}
	alpha := 2.0 / (float64(span) + 1.0)
	out[0] = xs[0]
	for i := 1; i < len(xs); i++ {
		out[i] = alpha*xs[i] + (1-alpha)*out[i-1]
	}
	return out
}

func rsi(prices []float64, period int) []float64 {
	n := len(prices)
	gain := nanSlice(n)
	loss := nanSlice(n)
	for i := 1; i < n; i++ {
		d := prices[i] - prices[i-1]
		gain[i] = math.Max(d, 0)
		loss[i] = math.Max(-d, 0)
	}
	avgGain := rollingMean(gain, period)
	avgLoss := rollingMean(loss, period)
	out := nanSlice(n)
	for i := 0; i < n; i++ {
		if math.IsNaN(avgGain[i]) || math.IsNaN(avgLoss[i]) {
			continue
		}
		rs := avgGain[i] / (avgLoss[i] + eps)
		out[i] = 100 - 100/(1+rs)
	}
	return out
}

func ratioMinusOne(xs, base []float64) []float64 {
	out := nanSlice(len(xs))
	for i := range xs {
		if math.IsNaN(base[i]) {
			continue
		}
		out[i] = xs[i]/base[i] - 1
	}
	return out
}

func scale(xs []float64, f float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = x * f
	}
	return out
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

func hasNaN(xs []float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) {
			return true
		}
	}
	return false
}
