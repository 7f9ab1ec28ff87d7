package classifier

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	domsvc "StockPilot/internal/domain/service"
)

// Config holds the forest hyperparameters. The defaults mirror a
// 300-tree ensemble with a conservative split floor, which keeps the
// individual trees shallow enough to resist overfitting noisy daily data.
type Config struct {
	Trees           int
	MinSamplesSplit int
	MaxDepth        int // 0 means unbounded
	Seed            int64
}

func DefaultConfig() Config {
	return Config{Trees: 300, MinSamplesSplit: 50, Seed: 1}
}

// Forest is a bagged ensemble of binary CART trees. Each tree is grown on
// a bootstrap sample with a random sqrt-sized feature subset per split.
// PredictProba averages the leaf probabilities across trees. A fixed seed
// makes Fit fully deterministic.
type Forest struct {
	cfg   Config
	trees []*node
	dims  int
}

// Factory returns a ClassifierFactory producing independent forests, one
// per backtest window.
func Factory(cfg Config) domsvc.ClassifierFactory {
	return func() domsvc.Classifier { return New(cfg) }
}

func New(cfg Config) *Forest {
	if cfg.Trees <= 0 {
		cfg.Trees = DefaultConfig().Trees
	}
	if cfg.MinSamplesSplit < 2 {
		cfg.MinSamplesSplit = 2
	}
	return &Forest{cfg: cfg}
}

type node struct {
	feature   int
	threshold float64
	left      *node
	right     *node
	prob      float64 // positive-class probability at a leaf
	leaf      bool
}

func (f *Forest) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return fmt.Errorf("fit: empty training set")
	}
	if len(X) != len(y) {
		return fmt.Errorf("fit: %d rows vs %d labels", len(X), len(y))
	}
	f.dims = len(X[0])
	rng := rand.New(rand.NewSource(f.cfg.Seed))

	f.trees = make([]*node, f.cfg.Trees)
	for t := 0; t < f.cfg.Trees; t++ {
		sample := make([]int, len(X))
		for i := range sample {
			sample[i] = rng.Intn(len(X))
		}
		f.trees[t] = f.grow(X, y, sample, 0, rng)
	}
	return nil
}

func (f *Forest) PredictProba(X [][]float64) ([]float64, error) {
	if f.trees == nil {
		return nil, fmt.Errorf("predict: forest not fitted")
	}
	out := make([]float64, len(X))
	for i, x := range X {
		if len(x) != f.dims {
			return nil, fmt.Errorf("predict: row %d has %d features, want %d", i, len(x), f.dims)
		}
		var sum float64
		for _, t := range f.trees {
			sum += t.predict(x)
		}
		out[i] = sum / float64(len(f.trees))
	}
	return out, nil
}

func (n *node) predict(x []float64) float64 {
	for !n.leaf {
		if x[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.prob
}

func (f *Forest) grow(X [][]float64, y []int, idx []int, depth int, rng *rand.Rand) *node {
	pos := 0
	for _, i := range idx {
		pos += y[i]
	}
	prob := float64(pos) / float64(len(idx))

	if pos == 0 || pos == len(idx) ||
		len(idx) < f.cfg.MinSamplesSplit ||
		(f.cfg.MaxDepth > 0 && depth >= f.cfg.MaxDepth) {
		return &node{leaf: true, prob: prob}
	}

	feature, threshold, ok := f.bestSplit(X, y, idx, rng)
	if !ok {
		return &node{leaf: true, prob: prob}
	}

	var leftIdx, rightIdx []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			leftIdx = append(leftIdx, i)
		} else {
			rightIdx = append(rightIdx, i)
		}
	}
	if len(leftIdx) == 0 || len(rightIdx) == 0 {
		return &node{leaf: true, prob: prob}
	}

	return &node{
		feature:   feature,
		threshold: threshold,
		left:      f.grow(X, y, leftIdx, depth+1, rng),
		right:     f.grow(X, y, rightIdx, depth+1, rng),
	}
}

// bestSplit scans a random sqrt-sized feature subset for the threshold
// with the lowest weighted Gini impurity.
func (f *Forest) bestSplit(X [][]float64, y []int, idx []int, rng *rand.Rand) (int, float64, bool) {
	nFeat := len(X[idx[0]])
	m := int(math.Sqrt(float64(nFeat)))
	if m < 1 {
		m = 1
	}
	perm := rng.Perm(nFeat)

	type pair struct {
		v float64
		y int
	}
	bestGini := math.Inf(1)
	bestFeat, bestThresh := -1, 0.0

	for _, feat := range perm[:m] {
		pairs := make([]pair, len(idx))
		totalPos := 0
		for k, i := range idx {
			pairs[k] = pair{v: X[i][feat], y: y[i]}
			totalPos += y[i]
		}
		sort.Slice(pairs, func(a, b int) bool { return pairs[a].v < pairs[b].v })

		leftPos := 0
		n := len(pairs)
		for k := 0; k < n-1; k++ {
			leftPos += pairs[k].y
			if pairs[k].v == pairs[k+1].v {
				continue
			}
			nl, nr := k+1, n-k-1
			g := weightedGini(leftPos, nl, totalPos-leftPos, nr)
			if g < bestGini {
				bestGini = g
				bestFeat = feat
				bestThresh = (pairs[k].v + pairs[k+1].v) / 2
			}
		}
	}
	return bestFeat, bestThresh, bestFeat >= 0
}

func weightedGini(leftPos, nl, rightPos, nr int) float64 {
	gini := func(pos, n int) float64 {
		p := float64(pos) / float64(n)
		return 2 * p * (1 - p)
	}
	total := float64(nl + nr)
	return float64(nl)/total*gini(leftPos, nl) + float64(nr)/total*gini(rightPos, nr)
}
