package predictor

import (
	"math"
	"math/rand"
	"testing"

	"StockCast/internal/domain/models"
	"StockCast/internal/services/features"
)

func seriesWithNoise(n int, start, drift float64) []float64 {
	rng := rand.New(rand.NewSource(7))
	prices := make([]float64, n)
	p := start
	for i := range prices {
		p += drift + rng.NormFloat64()*0.5
		prices[i] = p
	}
	return prices
}

func TestScalerRoundTrip(t *testing.T) {
	var s minMaxScaler
	xs := []float64{10, 20, 15, 30}
	s.fit(xs)
	scaled := s.transform(xs)
	if scaled[0] != 0 || scaled[3] != 1 {
		t.Fatalf("scaled extremes = %v, %v", scaled[0], scaled[3])
	}
	for i, v := range scaled {
		if got := s.inverse(v); math.Abs(got-xs[i]) > 1e-9 {
			t.Fatalf("inverse(%v) = %v, want %v", v, got, xs[i])
		}
	}
}

func TestScalerConstantSeries(t *testing.T) {
	var s minMaxScaler
	s.fit([]float64{5, 5, 5})
	scaled := s.transform([]float64{5, 5})
	if scaled[0] != 0 || scaled[1] != 0 {
		t.Fatalf("constant series should scale to 0, got %v", scaled)
	}
}

func TestPredictBeforeTrain(t *testing.T) {
	engine := features.NewEngine(features.NewSchema())
	prices := seriesWithNoise(100, 100, 0.2)

	if _, err := NewTrendModel(engine).PredictDays(prices, 5); err != ErrNotTrained {
		t.Fatalf("trend: expected ErrNotTrained, got %v", err)
	}
	if _, err := NewForestModel(engine).PredictDays(prices, 5); err != ErrNotTrained {
		t.Fatalf("forest: expected ErrNotTrained, got %v", err)
	}
	if _, err := NewPatternModel(20).PredictDays(prices, 5); err != ErrNotTrained {
		t.Fatalf("pattern: expected ErrNotTrained, got %v", err)
	}
}

func TestTrendModelStepClamp(t *testing.T) {
	engine := features.NewEngine(features.NewSchema())
	prices := seriesWithNoise(120, 100, 0.3)

	m := NewTrendModel(engine)
	if err := m.Train(prices, models.SignalSet{}); err != nil {
		t.Fatalf("train: %v", err)
	}
	preds, err := m.PredictDays(prices, 10)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if len(preds) != 10 {
		t.Fatalf("got %d predictions, want 10", len(preds))
	}

	prev := prices[len(prices)-1]
	for i, p := range preds {
		ratio := p/prev - 1
		if ratio > maxStepReturn+1e-9 || ratio < -maxStepReturn-1e-9 {
			t.Fatalf("step %d return %v outside clamp", i, ratio)
		}
		prev = p
	}
}

func TestForestModelForecast(t *testing.T) {
	engine := features.NewEngine(features.NewSchema())
	prices := seriesWithNoise(120, 100, 0.3)

	m := NewForestModel(engine)
	if err := m.Train(prices, models.SignalSet{}); err != nil {
		t.Fatalf("train: %v", err)
	}
	preds, err := m.PredictDays(prices, 5)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	for i, p := range preds {
		if p <= 0 || math.IsNaN(p) {
			t.Fatalf("prediction %d invalid: %v", i, p)
		}
	}
}

func TestPatternLookback(t *testing.T) {
	cases := []struct{ n, want int }{
		{90, 30},
		{180, 60},
		{600, 60},
	}
	for _, c := range cases {
		if got := PatternLookback(c.n); got != c.want {
			t.Fatalf("PatternLookback(%d) = %d, want %d", c.n, got, c.want)
		}
	}
}

func TestPatternModelDeterministic(t *testing.T) {
	prices := seriesWithNoise(150, 100, 0.2)
	lookback := PatternLookback(len(prices))

	run := func() []float64 {
		m := NewPatternModel(lookback)
		if err := m.Train(prices); err != nil {
			t.Fatalf("train: %v", err)
		}
		preds, err := m.PredictDays(prices, 10)
		if err != nil {
			t.Fatalf("predict: %v", err)
		}
		return preds
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("run mismatch at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestPatternModelClampBand(t *testing.T) {
	prices := seriesWithNoise(150, 100, 0.2)
	lookback := PatternLookback(len(prices))

	m := NewPatternModel(lookback)
	if err := m.Train(prices); err != nil {
		t.Fatalf("train: %v", err)
	}
	preds, err := m.PredictDays(prices, 30)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}

	// The clamp holds in scaled space around the last observed scaled value.
	scaled := m.scaler.transform(prices)
	lastObserved := scaled[len(scaled)-1]
	lo := lastObserved * (1 - patternClampPct)
	hi := lastObserved * (1 + patternClampPct)
	if lo > hi {
		lo, hi = hi, lo
	}
	for i, p := range preds {
		sv := m.scaler.transform([]float64{p})[0]
		if sv < lo-1e-9 || sv > hi+1e-9 {
			t.Fatalf("step %d scaled value %v outside [%v, %v]", i, sv, lo, hi)
		}
	}
}

func TestPatternModelTooShort(t *testing.T) {
	m := NewPatternModel(20)
	if err := m.Train(seriesWithNoise(20, 100, 0.1)); err == nil {
		t.Fatalf("expected error for series not longer than lookback")
	}
}

func TestRegressionTreeFitsStep(t *testing.T) {
	// A step function the tree should split perfectly on.
	var X [][]float64
	var y []float64
	for i := 0; i < 40; i++ {
		x := float64(i)
		X = append(X, []float64{x})
		if x < 20 {
			y = append(y, 1)
		} else {
			y = append(y, 5)
		}
	}

	rng := rand.New(rand.NewSource(randSeed))
	root := buildTree(X, y, indexRange(len(y)), 0, treeParams{maxDepth: 3, minLeaf: 1, maxFeatures: 1}, rng)
	if got := root.predict([]float64{3}); math.Abs(got-1) > 1e-9 {
		t.Fatalf("left leaf = %v, want 1", got)
	}
	if got := root.predict([]float64{33}); math.Abs(got-5) > 1e-9 {
		t.Fatalf("right leaf = %v, want 5", got)
	}
}

func indexRange(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}
