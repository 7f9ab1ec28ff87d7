package classifier

import (
	"math/rand"
	"testing"
)

// separable builds a dataset where the label depends only on feature 0.
func separable(n int, seed int64) ([][]float64, []int) {
	rng := rand.New(rand.NewSource(seed))
	X := make([][]float64, n)
	y := make([]int, n)
	for i := range X {
		x0 := rng.Float64()
		x1 := rng.Float64() // noise
		X[i] = []float64{x0, x1}
		if x0 > 0.5 {
			y[i] = 1
		}
	}
	return X, y
}

func TestForestSeparates(t *testing.T) {
	X, y := separable(500, 7)
	f := New(Config{Trees: 50, MinSamplesSplit: 5, Seed: 1})
	if err := f.Fit(X, y); err != nil {
		t.Fatalf("fit: %v", err)
	}

	probs, err := f.PredictProba([][]float64{{0.95, 0.2}, {0.05, 0.8}})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if probs[0] < 0.8 {
		t.Fatalf("deep positive region scored %v, want > 0.8", probs[0])
	}
	if probs[1] > 0.2 {
		t.Fatalf("deep negative region scored %v, want < 0.2", probs[1])
	}
}

func TestForestDeterministic(t *testing.T) {
	X, y := separable(300, 3)

	a := New(Config{Trees: 20, MinSamplesSplit: 5, Seed: 42})
	b := New(Config{Trees: 20, MinSamplesSplit: 5, Seed: 42})
	if err := a.Fit(X, y); err != nil {
		t.Fatalf("fit a: %v", err)
	}
	if err := b.Fit(X, y); err != nil {
		t.Fatalf("fit b: %v", err)
	}

	probe, _ := separable(50, 99)
	pa, err := a.PredictProba(probe)
	if err != nil {
		t.Fatalf("predict a: %v", err)
	}
	pb, err := b.PredictProba(probe)
	if err != nil {
		t.Fatalf("predict b: %v", err)
	}
	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatalf("probe %d differs: %v vs %v", i, pa[i], pb[i])
		}
	}
}

func TestForestErrors(t *testing.T) {
	f := New(Config{Trees: 5, Seed: 1})
	if _, err := f.PredictProba([][]float64{{1}}); err == nil {
		t.Fatalf("expected error before fit")
	}
	if err := f.Fit(nil, nil); err == nil {
		t.Fatalf("expected error on empty training set")
	}
	if err := f.Fit([][]float64{{1}}, []int{1, 0}); err == nil {
		t.Fatalf("expected error on row/label mismatch")
	}

	X, y := separable(50, 1)
	if err := f.Fit(X, y); err != nil {
		t.Fatalf("fit: %v", err)
	}
	if _, err := f.PredictProba([][]float64{{1, 2, 3}}); err == nil {
		t.Fatalf("expected error on dimension mismatch")
	}
}

func TestForestPureLeaf(t *testing.T) {
	// All-positive labels collapse every tree to a single pure leaf.
	X := [][]float64{{1}, {2}, {3}, {4}}
	y := []int{1, 1, 1, 1}
	f := New(Config{Trees: 10, MinSamplesSplit: 2, Seed: 1})
	if err := f.Fit(X, y); err != nil {
		t.Fatalf("fit: %v", err)
	}
	probs, err := f.PredictProba([][]float64{{2.5}})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if probs[0] != 1 {
		t.Fatalf("pure positive forest scored %v, want 1", probs[0])
	}
}
