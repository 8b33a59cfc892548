package predictor

import (
	"fmt"
	"math"

	"StockCast/internal/domain/models"
	"StockCast/internal/services/features"
)

// TrendModel is the ordinary-least-squares baseline: next-step return
// regressed on the full feature vector.
type TrendModel struct {
	engine  *features.Engine
	st      fitState
	weights []float64 // intercept first, then one weight per schema column
	signals models.SignalSet
	version int
}

// NewTrendModel creates an untrained linear baseline bound to a feature
// engine.
func NewTrendModel(engine *features.Engine) *TrendModel {
	return &TrendModel{engine: engine, st: stateUntrained}
}

// Train fits the model on the series' feature table, dropping rows with
// undefined features or target.
func (m *TrendModel) Train(prices []float64, signals models.SignalSet) error {
	table, err := m.engine.Compute(prices, signals)
	if err != nil {
		return fmt.Errorf("trend train: %w", err)
	}
	X, y := table.TrainingMatrix()
	if len(X) == 0 {
		return fmt.Errorf("trend train: no rows with complete features (need more history)")
	}

	weights, err := solveOLS(X, y)
	if err != nil {
		return fmt.Errorf("trend train: %w", err)
	}

	m.weights = weights
	m.signals = signals
	m.version = m.engine.Schema().Version()
	m.st = stateTrained
	return nil
}

// PredictDays forecasts autoregressively: each step recomputes the feature
// table over the extended history, predicts the next-step return, clamps it
// and appends the implied price.
func (m *TrendModel) PredictDays(prices []float64, days int) ([]float64, error) {
	if m.st != stateTrained {
		return nil, ErrNotTrained
	}

	current := append([]float64(nil), prices...)
	predictions := make([]float64, 0, days)

	for step := 0; step < days; step++ {
		table, err := m.engine.Compute(current, m.signals)
		if err != nil {
			return nil, fmt.Errorf("trend predict: %w", err)
		}
		vec := table.LastVector()
		if err := m.engine.Schema().CheckWidth(len(vec)); err != nil {
			return nil, err
		}

		ret := m.weights[0]
		for i, v := range vec {
			ret += m.weights[i+1] * v
		}
		ret = clampReturn(ret)

		next := current[len(current)-1] * (1 + ret)
		predictions = append(predictions, next)
		current = append(current, next)
	}
	return predictions, nil
}

func clampReturn(r float64) float64 {
	if r > maxStepReturn {
		return maxStepReturn
	}
	if r < -maxStepReturn {
		return -maxStepReturn
	}
	return r
}

// solveOLS fits weights (intercept first) by the normal equations. A tiny
// ridge term keeps the system solvable when columns are collinear, which
// constant side-channel columns make likely.
func solveOLS(X [][]float64, y []float64) ([]float64, error) {
	n := len(X)
	p := len(X[0]) + 1 // intercept

	// A = Xᵀ X, b = Xᵀ y over the intercept-augmented design matrix.
	A := make([][]float64, p)
	for i := range A {
		A[i] = make([]float64, p)
	}
	b := make([]float64, p)

	xi := make([]float64, p)
	for r := 0; r < n; r++ {
		xi[0] = 1
		copy(xi[1:], X[r])
		for i := 0; i < p; i++ {
			for j := i; j < p; j++ {
				A[i][j] += xi[i] * xi[j]
			}
			b[i] += xi[i] * y[r]
		}
	}
	for i := 0; i < p; i++ {
		for j := 0; j < i; j++ {
			A[i][j] = A[j][i]
		}
		A[i][i] += 1e-8
	}

	return solveLinearSystem(A, b)
}

// solveLinearSystem solves A w = b by Gaussian elimination with partial
// pivoting. A and b are modified in place.
func solveLinearSystem(A [][]float64, b []float64) ([]float64, error) {
	p := len(A)
	for col := 0; col < p; col++ {
		pivot := col
		for r := col + 1; r < p; r++ {
			if math.Abs(A[r][col]) > math.Abs(A[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(A[pivot][col]) < 1e-12 {
			return nil, fmt.Errorf("singular design matrix at column %d", col)
		}
		A[col], A[pivot] = A[pivot], A[col]
		b[col], b[pivot] = b[pivot], b[col]

		for r := col + 1; r < p; r++ {
			factor := A[r][col] / A[col][col]
			if factor == 0 {
				continue
			}
			for c := col; c < p; c++ {
				A[r][c] -= factor * A[col][c]
			}
			b[r] -= factor * b[col]
		}
	}

	w := make([]float64, p)
	for r := p - 1; r >= 0; r-- {
		sum := b[r]
		for c := r + 1; c < p; c++ {
			sum -= A[r][c] * w[c]
		}
		w[r] = sum / A[r][r]
	}
	return w, nil
}
