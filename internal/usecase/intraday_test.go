package usecase

import (
	"testing"
)

func TestIntradayRisingSeries(t *testing.T) {
	ie := NewIntradayEstimator(testLogger(t))

	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = 500 + float64(i)*0.5
	}

	result, err := ie.PredictIntraday("SBIN", prices, 60)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if result.Trend != "up" {
		t.Fatalf("trend = %q on rising series", result.Trend)
	}
	if result.CurrentPrice != prices[len(prices)-1] {
		t.Fatalf("current price = %v", result.CurrentPrice)
	}

	for _, label := range []string{"5min", "15min", "30min"} {
		h, ok := result.Predictions[label]
		if !ok {
			t.Fatalf("missing horizon %q", label)
		}
		if h.Direction != "up" {
			t.Fatalf("%s direction = %q on rising series", label, h.Direction)
		}
		if h.Lower > h.Price || h.Price > h.Upper {
			t.Fatalf("%s: price %v outside band [%v, %v]", label, h.Price, h.Lower, h.Upper)
		}
		if h.ChangePct <= 0 {
			t.Fatalf("%s change_pct = %v, want positive", label, h.ChangePct)
		}
	}
}

func TestIntradayHorizonsWiden(t *testing.T) {
	ie := NewIntradayEstimator(testLogger(t))

	prices := []float64{100, 101, 100.5, 102, 101.5, 103, 102.5, 104, 103.5, 105, 104.5, 106}
	result, err := ie.PredictIntraday("ITC", prices, 60)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}

	w5 := result.Predictions["5min"].Upper - result.Predictions["5min"].Lower
	w30 := result.Predictions["30min"].Upper - result.Predictions["30min"].Lower
	if w30 <= w5 {
		t.Fatalf("30min band %v should exceed 5min band %v", w30, w5)
	}
	if result.Volatility <= 0 {
		t.Fatalf("volatility = %v, want positive", result.Volatility)
	}
}

func TestIntradayIntervalScalesSteps(t *testing.T) {
	ie := NewIntradayEstimator(testLogger(t))

	prices := make([]float64, 20)
	for i := range prices {
		prices[i] = 200 + float64(i)
	}

	// A coarser interval means fewer extrapolation steps, so the 30min
	// forecast sits closer to the last price.
	fine, err := ie.PredictIntraday("LT", prices, 60)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	coarse, err := ie.PredictIntraday("LT", prices, 300)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}

	last := prices[len(prices)-1]
	fineDist := fine.Predictions["30min"].Price - last
	coarseDist := coarse.Predictions["30min"].Price - last
	if coarseDist >= fineDist {
		t.Fatalf("coarse interval forecast %v should move less than fine %v", coarseDist, fineDist)
	}
}
