package features

import (
	"math"
	"testing"

	"StockCast/internal/domain/models"
)

func risingPrices(n int) []float64 {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = 100 + float64(i)*0.5
	}
	return prices
}

func TestComputeShape(t *testing.T) {
	engine := NewEngine(NewSchema())
	prices := risingPrices(80)

	table, err := engine.Compute(prices, models.SignalSet{})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if table.NumRows() != len(prices) {
		t.Fatalf("rows = %d, want %d", table.NumRows(), len(prices))
	}
	if got := table.Schema().Width(); got != 30 {
		t.Fatalf("schema width = %d, want 30", got)
	}
	vec := table.LastVector()
	if err := table.Schema().CheckWidth(len(vec)); err != nil {
		t.Fatalf("last vector: %v", err)
	}
}

func TestComputeEmptySeries(t *testing.T) {
	engine := NewEngine(NewSchema())
	if _, err := engine.Compute(nil, models.SignalSet{}); err == nil {
		t.Fatalf("expected error for empty series")
	}
}

func TestTargetIsNextReturn(t *testing.T) {
	engine := NewEngine(NewSchema())
	prices := []float64{100, 110, 99, 120, 120}

	table, err := engine.Compute(prices, models.SignalSet{})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	target := table.Target()
	if math.Abs(target[0]-0.10) > 1e-12 {
		t.Fatalf("target[0] = %v, want 0.10", target[0])
	}
	if !math.IsNaN(target[len(target)-1]) {
		t.Fatalf("last target should be NaN, got %v", target[len(target)-1])
	}
}

func TestRSIBoundsOnRisingSeries(t *testing.T) {
	engine := NewEngine(NewSchema())
	table, err := engine.Compute(risingPrices(60), models.SignalSet{})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	rsi, _, _ := table.LastIndicators()
	if rsi < 0 || rsi > 100 {
		t.Fatalf("rsi out of range: %v", rsi)
	}
	// A strictly rising series has no losses, so RSI saturates high.
	if rsi < 99 {
		t.Fatalf("rsi on strictly rising series = %v, want near 100", rsi)
	}
}

func TestSideChannelDefaults(t *testing.T) {
	engine := NewEngine(NewSchema())
	table, err := engine.Compute(risingPrices(40), models.SignalSet{})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	checks := map[string]float64{
		ColPERatio:       0,
		ColSentMagnitude: 0.5,
		ColDeliveryPct:   50,
		ColDeliveryAvg:   50,
		ColFIIFlow:       0,
	}
	for name, want := range checks {
		col, err := table.Column(name)
		if err != nil {
			t.Fatalf("column %s: %v", name, err)
		}
		if col[0] != want || col[len(col)-1] != want {
			t.Fatalf("%s default = %v, want %v", name, col[0], want)
		}
	}
}

func TestSideChannelBroadcast(t *testing.T) {
	engine := NewEngine(NewSchema())
	pe := 23.5
	score := -0.4
	signals := models.SignalSet{
		Fundamentals: &models.Fundamentals{PERatio: &pe},
		Sentiment:    &models.Sentiment{Score: &score},
	}

	table, err := engine.Compute(risingPrices(40), signals)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	peCol, _ := table.Column(ColPERatio)
	for i, v := range peCol {
		if v != pe {
			t.Fatalf("pe_ratio[%d] = %v, want %v", i, v, pe)
		}
	}
	scoreCol, _ := table.Column(ColSentScore)
	if scoreCol[0] != score {
		t.Fatalf("sentiment_score = %v, want %v", scoreCol[0], score)
	}
	// Magnitude was not supplied; its neutral default applies even when the
	// sentiment block itself is present.
	magCol, _ := table.Column(ColSentMagnitude)
	if magCol[0] != 0.5 {
		t.Fatalf("sentiment_magnitude = %v, want 0.5", magCol[0])
	}
}

func TestTrainingMatrixDropsWarmupRows(t *testing.T) {
	engine := NewEngine(NewSchema())
	prices := risingPrices(80)
	table, err := engine.Compute(prices, models.SignalSet{})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	X, y := table.TrainingMatrix()
	if len(X) != len(y) {
		t.Fatalf("X rows %d != y rows %d", len(X), len(y))
	}
	if len(X) == 0 {
		t.Fatalf("training matrix empty")
	}
	// Warmup rows (sma50 etc.) and the final row (no target) are excluded.
	if len(X) >= len(prices)-40 {
		t.Fatalf("training rows %d, expected fewer after warmup exclusion", len(X))
	}
	for i, row := range X {
		for j, v := range row {
			if math.IsNaN(v) {
				t.Fatalf("NaN at row %d col %d", i, j)
			}
		}
		if math.IsNaN(y[i]) {
			t.Fatalf("NaN target at row %d", i)
		}
	}
}
