package predictor

import (
	"fmt"
	"math/rand"

	"StockCast/internal/domain/models"
	"StockCast/internal/services/features"
)

// ForestModel is a bagged ensemble of regression trees over the engineered
// feature table. It shares the TrendModel's contract and autoregressive
// procedure but captures non-linear feature interactions.
type ForestModel struct {
	engine  *features.Engine
	st      fitState
	trees   []*treeNode
	signals models.SignalSet
	version int

	nTrees   int
	maxDepth int
	minLeaf  int
}

// NewForestModel creates an untrained random forest bound to a feature
// engine.
func NewForestModel(engine *features.Engine) *ForestModel {
	return &ForestModel{
		engine:   engine,
		st:       stateUntrained,
		nTrees:   300,
		maxDepth: 8,
		minLeaf:  5,
	}
}

// Train fits the forest: every tree sees a bootstrap resample of the
// training rows and considers a random feature subset at each split.
func (m *ForestModel) Train(prices []float64, signals models.SignalSet) error {
	table, err := m.engine.Compute(prices, signals)
	if err != nil {
		return fmt.Errorf("forest train: %w", err)
	}
	X, y := table.TrainingMatrix()
	if len(X) == 0 {
		return fmt.Errorf("forest train: no rows with complete features (need more history)")
	}

	rng := rand.New(rand.NewSource(randSeed))
	nFeatures := len(X[0])
	params := treeParams{
		maxDepth:    m.maxDepth,
		minLeaf:     m.minLeaf,
		maxFeatures: maxInt(1, nFeatures/3),
	}

	trees := make([]*treeNode, m.nTrees)
	for t := 0; t < m.nTrees; t++ {
		idx := make([]int, len(X))
		for i := range idx {
			idx[i] = rng.Intn(len(X))
		}
		trees[t] = buildTree(X, y, idx, 0, params, rng)
	}

	m.trees = trees
	m.signals = signals
	m.version = m.engine.Schema().Version()
	m.st = stateTrained
	return nil
}

// PredictDays forecasts autoregressively with the same per-step return
// clamp as the linear baseline.
func (m *ForestModel) PredictDays(prices []float64, days int) ([]float64, error) {
	if m.st != stateTrained {
		return nil, ErrNotTrained
	}

	current := append([]float64(nil), prices...)
	predictions := make([]float64, 0, days)

	for step := 0; step < days; step++ {
		table, err := m.engine.Compute(current, m.signals)
		if err != nil {
			return nil, fmt.Errorf("forest predict: %w", err)
		}
		vec := table.LastVector()
		if err := m.engine.Schema().CheckWidth(len(vec)); err != nil {
			return nil, err
		}

		ret := clampReturn(m.predictOne(vec))
		next := current[len(current)-1] * (1 + ret)
		predictions = append(predictions, next)
		current = append(current, next)
	}
	return predictions, nil
}

// predictOne averages the per-tree predictions.
func (m *ForestModel) predictOne(vec []float64) float64 {
	sum := 0.0
	for _, t := range m.trees {
		sum += t.predict(vec)
	}
	return sum / float64(len(m.trees))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
