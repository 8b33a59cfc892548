package predictor

import (
	"math"
	"math/rand"
	"sort"
)

// treeParams bounds regression tree growth.
type treeParams struct {
	maxDepth    int
	minLeaf     int
	maxFeatures int // candidate features per split; 0 means all
}

// treeNode is one node of a binary regression tree. Leaves carry the mean
// target of their training rows.
type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	value     float64
	leaf      bool
}

// buildTree grows a regression tree by greedy variance reduction over the
// rows in idx.
func buildTree(X [][]float64, y []float64, idx []int, depth int, p treeParams, rng *rand.Rand) *treeNode {
	if len(idx) == 0 {
		return &treeNode{leaf: true, value: 0}
	}

	mean := meanAt(y, idx)
	if depth >= p.maxDepth || len(idx) < 2*p.minLeaf {
		return &treeNode{leaf: true, value: mean}
	}

	nFeatures := len(X[0])
	candidates := featureCandidates(nFeatures, p.maxFeatures, rng)

	bestSSE := math.Inf(1)
	bestFeature := -1
	bestThreshold := 0.0

	for _, f := range candidates {
		threshold, sse, ok := bestSplitOnFeature(X, y, idx, f, p.minLeaf)
		if ok && sse < bestSSE {
			bestSSE = sse
			bestFeature = f
			bestThreshold = threshold
		}
	}

	if bestFeature < 0 || bestSSE >= sseAt(y, idx, mean) {
		return &treeNode{leaf: true, value: mean}
	}

	var leftIdx, rightIdx []int
	for _, i := range idx {
		if X[i][bestFeature] <= bestThreshold {
			leftIdx = append(leftIdx, i)
		} else {
			rightIdx = append(rightIdx, i)
		}
	}
	if len(leftIdx) < p.minLeaf || len(rightIdx) < p.minLeaf {
		return &treeNode{leaf: true, value: mean}
	}

	return &treeNode{
		feature:   bestFeature,
		threshold: bestThreshold,
		left:      buildTree(X, y, leftIdx, depth+1, p, rng),
		right:     buildTree(X, y, rightIdx, depth+1, p, rng),
	}
}

// bestSplitOnFeature scans sorted thresholds of one feature and returns the
// split minimizing the summed squared error of the two children.
func bestSplitOnFeature(X [][]float64, y []float64, idx []int, f, minLeaf int) (threshold, sse float64, ok bool) {
	order := make([]int, len(idx))
	copy(order, idx)
	sortByFeature(X, order, f)

	n := len(order)
	// Suffix/prefix sums of y and y^2 allow O(1) SSE per split point.
	var sumL, sqL float64
	sumR, sqR := 0.0, 0.0
	for _, i := range order {
		sumR += y[i]
		sqR += y[i] * y[i]
	}

	bestSSE := math.Inf(1)
	bestThr := 0.0
	found := false

	for k := 0; k < n-1; k++ {
		i := order[k]
		sumL += y[i]
		sqL += y[i] * y[i]
		sumR -= y[i]
		sqR -= y[i] * y[i]

		// No split between equal feature values.
		if X[order[k]][f] == X[order[k+1]][f] {
			continue
		}
		nl, nr := k+1, n-k-1
		if nl < minLeaf || nr < minLeaf {
			continue
		}
		sseL := sqL - sumL*sumL/float64(nl)
		sseR := sqR - sumR*sumR/float64(nr)
		total := sseL + sseR
		if total < bestSSE {
			bestSSE = total
			bestThr = (X[order[k]][f] + X[order[k+1]][f]) / 2
			found = true
		}
	}
	return bestThr, bestSSE, found
}

// predict walks the tree for one feature vector.
func (t *treeNode) predict(x []float64) float64 {
	node := t
	for !node.leaf {
		if x[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.value
}

func featureCandidates(nFeatures, maxFeatures int, rng *rand.Rand) []int {
	if maxFeatures <= 0 || maxFeatures >= nFeatures {
		all := make([]int, nFeatures)
		for i := range all {
			all[i] = i
		}
		return all
	}
	return rng.Perm(nFeatures)[:maxFeatures]
}

func meanAt(y []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	sum := 0.0
	for _, i := range idx {
		sum += y[i]
	}
	return sum / float64(len(idx))
}

func sseAt(y []float64, idx []int, mean float64) float64 {
	sum := 0.0
	for _, i := range idx {
		d := y[i] - mean
		sum += d * d
	}
	return sum
}

func sortByFeature(X [][]float64, order []int, f int) {
	sort.Slice(order, func(a, b int) bool {
		return X[order[a]][f] < X[order[b]][f]
	})
}
