package usecase

import (
	"math"
	"testing"

	"StockCast/internal/domain/models"
	"StockCast/internal/services/features"
	xlogger "StockCast/pkg/logger"
)

func testLogger(t *testing.T) *xlogger.Logger {
	t.Helper()
	l, err := xlogger.New(&xlogger.Config{Level: "error", Format: "console", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func trendingSeries(n int) []float64 {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = 100 + float64(i)*0.4 + 3*math.Sin(float64(i)/7)
	}
	return prices
}

func TestWeightsSumToOne(t *testing.T) {
	if got := WeightPattern + WeightForest + WeightTrend; math.Abs(got-1.0) > 1e-12 {
		t.Fatalf("weights sum to %v, want 1.0", got)
	}
}

func TestPredictFullPipeline(t *testing.T) {
	engine := features.NewEngine(features.NewSchema())
	e := NewEnsemblePredictor(engine, testLogger(t))

	prices := trendingSeries(200)
	current := prices[len(prices)-1]

	result, err := e.Predict("RELIANCE", prices, current, models.SignalSet{})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}

	if result.Symbol != "RELIANCE" {
		t.Fatalf("symbol = %q", result.Symbol)
	}
	for _, key := range []string{"lstm", "rf", "lr"} {
		preds, ok := result.ModelPredictions[key]
		if !ok {
			t.Fatalf("missing model predictions for %q", key)
		}
		if len(preds) != HorizonDays {
			t.Fatalf("%s predictions = %d, want %d", key, len(preds), HorizonDays)
		}
	}
	for _, label := range []string{"next_1d", "next_5d", "next_10d", "next_30d"} {
		if _, ok := result.Predictions[label]; !ok {
			t.Fatalf("missing horizon %q", label)
		}
	}
}

func TestBlendMatchesWeights(t *testing.T) {
	engine := features.NewEngine(features.NewSchema())
	e := NewEnsemblePredictor(engine, testLogger(t))

	prices := trendingSeries(200)
	current := prices[len(prices)-1]

	result, err := e.Predict("TCS", prices, current, models.SignalSet{})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}

	// Rounded per-model forecasts reconstruct the blend to rounding error.
	p1 := result.Predictions["next_1d"].Price
	want := WeightPattern*result.ModelPredictions["lstm"][0] +
		WeightForest*result.ModelPredictions["rf"][0] +
		WeightTrend*result.ModelPredictions["lr"][0]
	if math.Abs(p1-want) > 0.05 {
		t.Fatalf("blend = %v, expected near %v", p1, want)
	}
}

func TestConfidenceBandOrdering(t *testing.T) {
	engine := features.NewEngine(features.NewSchema())
	e := NewEnsemblePredictor(engine, testLogger(t))

	prices := trendingSeries(200)
	result, err := e.Predict("INFY", prices, prices[len(prices)-1], models.SignalSet{})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}

	for label, p := range result.Predictions {
		lower, upper := p.Confidence[0], p.Confidence[1]
		if lower > p.Price || p.Price > upper {
			t.Fatalf("%s: price %v outside band [%v, %v]", label, p.Price, lower, upper)
		}
	}
}

func TestChartDataLayout(t *testing.T) {
	engine := features.NewEngine(features.NewSchema())
	e := NewEnsemblePredictor(engine, testLogger(t))

	prices := trendingSeries(200)
	current := prices[len(prices)-1]
	result, err := e.Predict("HDFC", prices, current, models.SignalSet{})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}

	chart := result.ChartData
	if len(chart) != 30+1+HorizonDays {
		t.Fatalf("chart points = %d, want %d", len(chart), 30+1+HorizonDays)
	}
	if chart[0].Day != -30 || chart[0].Type != "historical" {
		t.Fatalf("first point day=%d type=%s", chart[0].Day, chart[0].Type)
	}
	mid := chart[30]
	if mid.Day != 0 || mid.Type != "current" {
		t.Fatalf("pivot point day=%d type=%s", mid.Day, mid.Type)
	}
	last := chart[len(chart)-1]
	if last.Day != HorizonDays || last.Type != "predicted" {
		t.Fatalf("last point day=%d type=%s", last.Day, last.Type)
	}
	if last.Upper == nil || last.Lower == nil {
		t.Fatalf("predicted point missing band")
	}
	if chart[0].Upper != nil {
		t.Fatalf("historical point should have no band")
	}
}

func TestTechnicalSignalsOnRisingSeries(t *testing.T) {
	engine := features.NewEngine(features.NewSchema())
	e := NewEnsemblePredictor(engine, testLogger(t))

	prices := make([]float64, 200)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}
	result, err := e.Predict("WIPRO", prices, prices[len(prices)-1], models.SignalSet{})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}

	ts := result.TechnicalSignals
	if ts.RSISignal != "Overbought" {
		t.Fatalf("rsi signal = %q on strictly rising series", ts.RSISignal)
	}
	if ts.MACDTrend != "Bullish" {
		t.Fatalf("macd trend = %q on strictly rising series", ts.MACDTrend)
	}
}
