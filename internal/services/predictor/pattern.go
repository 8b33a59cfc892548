package predictor

import (
	"fmt"
	"math/rand"

	"StockCast/pkg/util"
)

// PatternModel learns sequential pattern-following behaviour from sliding
// windows of the min-max scaled price series, without true recurrence. It
// works on raw prices and never touches the engineered feature table.
type PatternModel struct {
	st       fitState
	lookback int
	scaler   minMaxScaler
	booster  *gradientBoost
}

// NewPatternModel creates an untrained pattern model. Lookback is the
// sliding-window length in steps.
func NewPatternModel(lookback int) *PatternModel {
	return &PatternModel{
		st:       stateUntrained,
		lookback: lookback,
		booster:  newGradientBoost(),
	}
}

// PatternLookback derives the window length for a series: 60 steps, or a
// third of the series when it is shorter, so short series still produce a
// usable window.
func PatternLookback(seriesLen int) int {
	lb := seriesLen / 3
	if lb > 60 {
		lb = 60
	}
	return lb
}

// Train scales the series into [0,1] and fits the booster to predict each
// scaled value from the feature vector of the window preceding it.
func (m *PatternModel) Train(prices []float64) error {
	if len(prices) <= m.lookback {
		return fmt.Errorf("pattern train: need more than %d prices, got %d", m.lookback, len(prices))
	}

	m.scaler.fit(prices)
	scaled := m.scaler.transform(prices)

	var X [][]float64
	var y []float64
	for i := m.lookback; i < len(scaled); i++ {
		X = append(X, windowFeatures(scaled[i-m.lookback:i]))
		y = append(y, scaled[i])
	}

	rng := rand.New(rand.NewSource(randSeed))
	if err := m.booster.fit(X, y, rng); err != nil {
		return fmt.Errorf("pattern train: %w", err)
	}
	m.st = stateTrained
	return nil
}

// PredictDays re-scales the series with the fitted scaler, seeds a rolling
// window from its tail and forecasts autoregressively in scaled space,
// inverting the scaling per step. Each predicted scaled value is clamped to
// ±20% of the last observed scaled value so the loop cannot diverge.
func (m *PatternModel) PredictDays(prices []float64, days int) ([]float64, error) {
	if m.st != stateTrained {
		return nil, ErrNotTrained
	}
	if len(prices) < m.lookback {
		return nil, fmt.Errorf("pattern predict: need at least %d prices, got %d", m.lookback, len(prices))
	}

	scaled := m.scaler.transform(prices)
	window := append([]float64(nil), scaled[len(scaled)-m.lookback:]...)
	lastObserved := scaled[len(scaled)-1]

	lower := lastObserved * (1 - patternClampPct)
	upper := lastObserved * (1 + patternClampPct)
	if lower > upper {
		lower, upper = upper, lower // negative scaled values flip the band
	}

	predictions := make([]float64, 0, days)
	for step := 0; step < days; step++ {
		feats := windowFeatures(window[len(window)-m.lookback:])
		pred := util.Clamp(m.booster.predict(feats), lower, upper)
		window = append(window, pred)
		predictions = append(predictions, m.scaler.inverse(pred))
	}
	return predictions, nil
}

// windowFeatures reduces a scaled price window to the fixed 12-value vector
// the booster consumes.
func windowFeatures(window []float64) []float64 {
	n := len(window)
	last := window[n-1]

	mean20 := util.Mean(window)
	if n >= 20 {
		mean20 = util.Mean(window[n-20:])
	}

	lo, hi := window[0], window[0]
	for _, v := range window[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	return []float64{
		last,
		util.Mean(tail(window, 5)),
		util.Mean(tail(window, 10)),
		mean20,
		util.StdPop(window),
		util.StdPop(tail(window, 5)),
		last - nthFromEnd(window, 5),
		last - nthFromEnd(window, 10),
		last - window[0],
		(last - lo) / (hi - lo + 1e-10),
		util.Mean(util.Diff(tail(window, 10))),
		util.Mean(util.Diff(window)),
	}
}

func tail(xs []float64, k int) []float64 {
	if len(xs) <= k {
		return xs
	}
	return xs[len(xs)-k:]
}

func nthFromEnd(xs []float64, k int) float64 {
	if len(xs) < k {
		return xs[0]
	}
	return xs[len(xs)-k]
}
