package smpso

import (
	"math/rand"
	"testing"
)

func TestPolynomialMutationBounds(t *testing.T) {
	low := []float64{0, -5, 10}
	up := []float64{1, 5, 20}
	m := NewPolynomialMutation(low, up)
	m.P = 1 // force every variable to mutate
	m.Rng = rand.New(rand.NewSource(17))

	for i := 0; i < 1000; i++ {
		pos := make([]float64, len(low))
		for j := range pos {
			pos[j] = low[j] + m.Rng.Float64()*(up[j]-low[j])
		}
		s := NewSolution(pos, 2)
		m.Mutate(&s)
		for j, x := range s.Var {
			if x < low[j] || x > up[j] {
				t.Fatalf("trial %v: variable %v mutated out of bounds: %v not in [%v, %v]",
					i, j, x, low[j], up[j])
			}
		}
	}
}

func TestPolynomialMutationZeroProb(t *testing.T) {
	m := NewPolynomialMutation([]float64{0, 0}, []float64{1, 1})
	m.P = 0
	m.Rng = rand.New(rand.NewSource(17))

	s := NewSolution([]float64{0.25, 0.75}, 2)
	m.Mutate(&s)
	if s.Var[0] != 0.25 || s.Var[1] != 0.75 {
		t.Errorf("zero probability still perturbed variables: %v", s.Var)
	}
}

func TestPolynomialMutationDefaults(t *testing.T) {
	m := NewPolynomialMutation(make([]float64, 4), []float64{1, 1, 1, 1})
	if m.P != 0.25 {
		t.Errorf("default probability = %v, want 1/nvar = 0.25", m.P)
	}
	if m.DistIdx != DefaultDistIdx {
		t.Errorf("default distribution index = %v, want %v", m.DistIdx, DefaultDistIdx)
	}
}

func TestPolynomialMutationDeterminism(t *testing.T) {
	run := func() []float64 {
		m := NewPolynomialMutation([]float64{0, 0}, []float64{1, 1})
		m.Rng = rand.New(rand.NewSource(5))
		s := NewSolution([]float64{0.5, 0.5}, 2)
		for i := 0; i < 10; i++ {
			m.Mutate(&s)
		}
		return s.Var
	}

	a, b := run(), run()
	if a[0] != b[0] || a[1] != b[1] {
		t.Errorf("identical seeds produced different mutations: %v vs %v", a, b)
	}
}

func TestPolynomialMutationBadBounds(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("mismatched bound lengths did not panic")
		}
	}()
	NewPolynomialMutation([]float64{0}, []float64{1, 2})
}
