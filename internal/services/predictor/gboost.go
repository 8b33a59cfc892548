package predictor

import (
	"fmt"
	"math/rand"
)

// gradientBoost is a least-squares gradient-boosted tree ensemble: shallow
// trees fitted to residuals, shrunk by a small learning rate, with row
// subsampling per round.
type gradientBoost struct {
	trees    []*treeNode
	baseline float64

	rounds       int
	maxDepth     int
	learningRate float64
	subsample    float64
}

func newGradientBoost() *gradientBoost {
	return &gradientBoost{
		rounds:       200,
		maxDepth:     4,
		learningRate: 0.05,
		subsample:    0.8,
	}
}

func (g *gradientBoost) fit(X [][]float64, y []float64, rng *rand.Rand) error {
	n := len(X)
	if n == 0 {
		return fmt.Errorf("gboost: empty training set")
	}

	g.baseline = 0
	for _, v := range y {
		g.baseline += v
	}
	g.baseline /= float64(n)

	// Current ensemble prediction per row; trees fit the residual.
	pred := make([]float64, n)
	for i := range pred {
		pred[i] = g.baseline
	}
	residual := make([]float64, n)

	params := treeParams{maxDepth: g.maxDepth, minLeaf: 1}
	sampleSize := maxInt(1, int(float64(n)*g.subsample))

	g.trees = make([]*treeNode, 0, g.rounds)
	for round := 0; round < g.rounds; round++ {
		for i := range residual {
			residual[i] = y[i] - pred[i]
		}

		idx := rng.Perm(n)[:sampleSize]
		tree := buildTree(X, residual, idx, 0, params, rng)
		g.trees = append(g.trees, tree)

		for i := range pred {
			pred[i] += g.learningRate * tree.predict(X[i])
		}
	}
	return nil
}

func (g *gradientBoost) predict(x []float64) float64 {
	out := g.baseline
	for _, t := range g.trees {
		out += g.learningRate * t.predict(x)
	}
	return out
}
