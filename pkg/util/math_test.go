package util

import (
	"math"
	"testing"
)

func TestRound(t *testing.T) {
	if got := Round2(3.14159); got != 3.14 {
		t.Fatalf("unexpected round %v", got)
	}
	if got := Round3(-0.0015); got != -0.002 && got != -0.001 {
		t.Fatalf("unexpected round %v", got)
	}
	if got := Round4(1.00005); math.Abs(got-1.0001) > 1e-9 && math.Abs(got-1.0) > 1e-9 {
		t.Fatalf("unexpected round %v", got)
	}
}

func TestMeanStd(t *testing.T) {
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	if got := Mean(xs); got != 5 {
		t.Fatalf("mean = %v, want 5", got)
	}
	if got := StdPop(xs); math.Abs(got-2) > 1e-12 {
		t.Fatalf("population std = %v, want 2", got)
	}
	sample := StdSample(xs)
	if sample <= StdPop(xs) {
		t.Fatalf("sample std %v should exceed population std", sample)
	}
	if !math.IsNaN(StdSample([]float64{1})) {
		t.Fatalf("sample std of one value should be NaN")
	}
}

func TestDiff(t *testing.T) {
	got := Diff([]float64{1, 3, 6})
	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Fatalf("unexpected diff %v", got)
	}
	if Diff([]float64{1}) != nil {
		t.Fatalf("expected nil diff")
	}
}

func TestClamp(t *testing.T) {
	if Clamp(0.2, -0.05, 0.05) != 0.05 {
		t.Fatalf("clamp upper failed")
	}
	if Clamp(-0.2, -0.05, 0.05) != -0.05 {
		t.Fatalf("clamp lower failed")
	}
	if Clamp(0.01, -0.05, 0.05) != 0.01 {
		t.Fatalf("clamp identity failed")
	}
}
