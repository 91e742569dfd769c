package smpso

import (
	"errors"
	"math"
	"testing"
)

const errcount = 3

type ErrObj struct {
	count int
}

func (o *ErrObj) Objective(x []float64) ([]float64, error) {
	o.count++
	if o.count >= errcount {
		return []float64{math.Inf(1), math.Inf(1)}, errors.New("fake error")
	}
	return []float64{0, 0}, nil
}

func newsols(n, nvar int) []*Solution {
	sols := make([]*Solution, n)
	for i := range sols {
		pos := make([]float64, nvar)
		for j := range pos {
			pos[j] = float64(i*nvar + j)
		}
		s := NewSolution(pos, 2)
		sols[i] = &s
	}
	return sols
}

func TestSerialEvalerErr(t *testing.T) {
	obj := &ErrObj{}
	ev := SerialEvaler{}

	n, err := ev.Eval(obj, newsols(5, 2)...)
	if n != errcount {
		t.Errorf("returned wrong evaluation count: expected %v, got %v", errcount, n)
	}
	if err == nil {
		t.Errorf("did not propogate error through return")
	}
}

func TestSerialEvalerContinueOnErr(t *testing.T) {
	obj := &ErrObj{}
	ev := SerialEvaler{ContinueOnErr: true}

	sols := newsols(5, 2)
	n, err := ev.Eval(obj, sols...)
	if n != len(sols) {
		t.Errorf("returned wrong evaluation count: expected %v, got %v", len(sols), n)
	}
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParallelEvaler(t *testing.T) {
	obj := Func(func(v []float64) []float64 {
		return []float64{v[0] + v[1], v[0] * v[1]}
	})

	sols := newsols(17, 2)
	ev := ParallelEvaler{NWorkers: 4}
	n, err := ev.Eval(obj, sols...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != len(sols) {
		t.Errorf("returned wrong evaluation count: expected %v, got %v", len(sols), n)
	}

	for i, s := range sols {
		want := []float64{s.Var[0] + s.Var[1], s.Var[0] * s.Var[1]}
		if s.Obj[0] != want[0] || s.Obj[1] != want[1] {
			t.Errorf("sol %v: objectives = %v, want %v", i, s.Obj, want)
		}
	}
}

func TestParallelEvalerErr(t *testing.T) {
	failing := objFunc(func(v []float64) ([]float64, error) {
		if v[0] == 2 {
			return []float64{math.Inf(1), math.Inf(1)}, errors.New("fake error")
		}
		return []float64{0, 0}, nil
	})

	sols := newsols(5, 2)
	n, err := ParallelEvaler{NWorkers: 2}.Eval(failing, sols...)
	if n != len(sols) {
		t.Errorf("returned wrong evaluation count: expected %v, got %v", len(sols), n)
	}
	if err == nil {
		t.Errorf("did not propogate error through return")
	}
}

type objFunc func(v []float64) ([]float64, error)

func (f objFunc) Objective(v []float64) ([]float64, error) { return f(v) }

func TestCacheEvaler(t *testing.T) {
	ncall := 0
	obj := objFunc(func(v []float64) ([]float64, error) {
		ncall++
		return []float64{v[0], -v[0]}, nil
	})

	ev := NewCacheEvaler(SerialEvaler{})

	s1 := NewSolution([]float64{1, 2}, 2)
	s2 := NewSolution([]float64{3, 4}, 2)
	n, err := ev.Eval(obj, &s1, &s2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 || ncall != 2 {
		t.Errorf("first pass: n = %v, calls = %v, want 2 and 2", n, ncall)
	}

	// same positions again: both served from cache
	s3 := NewSolution([]float64{1, 2}, 2)
	s4 := NewSolution([]float64{3, 4}, 2)
	n, err = ev.Eval(obj, &s3, &s4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 || ncall != 2 {
		t.Errorf("second pass: n = %v, calls = %v, want 0 and 2", n, ncall)
	}
	if s3.Obj[0] != 1 || s4.Obj[0] != 3 {
		t.Errorf("cached objectives are wrong: %v, %v", s3.Obj, s4.Obj)
	}
}

func TestSolutionClone(t *testing.T) {
	s := NewSolution([]float64{1, 2}, 2)
	s.Obj[0], s.Obj[1] = 3, 4

	c := s.Clone()
	c.Var[0] = 99
	c.Obj[0] = 99
	if s.Var[0] != 1 || s.Obj[0] != 3 {
		t.Errorf("mutating clone changed the original: %v %v", s.Var, s.Obj)
	}
}

type fakeIter struct {
	nper  int
	calls int
}

func (it *fakeIter) Iterate(obj Objectiver) ([]Solution, int, error) {
	it.calls++
	return []Solution{{Obj: []float64{0, 0}}}, it.nper, nil
}

func TestSolverMaxEval(t *testing.T) {
	it := &fakeIter{nper: 10}
	solv := &Solver{Iter: it, MaxEval: 95}
	if err := solv.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if solv.Neval() < 95 || solv.Neval() > 100 {
		t.Errorf("neval = %v, want termination at 100", solv.Neval())
	}
	if it.calls != 10 {
		t.Errorf("iterations = %v, want 10", it.calls)
	}
}

func TestSolverMaxIter(t *testing.T) {
	it := &fakeIter{nper: 1}
	solv := &Solver{Iter: it, MaxIter: 7}
	if err := solv.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if solv.Niter() != 7 {
		t.Errorf("niter = %v, want 7", solv.Niter())
	}
	if len(solv.Front()) == 0 {
		t.Errorf("solver dropped the final front")
	}
}
