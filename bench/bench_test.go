package bench_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/KalenGit/smpso"
	"github.com/KalenGit/smpso/archive"
	"github.com/KalenGit/smpso/bench"
	"github.com/KalenGit/smpso/pop"
	"github.com/KalenGit/smpso/swarm"
)

const (
	maxeval = 20000
	npar    = 50
	archcap = 100
)

const seed = 7

func seedrng(s int64) {
	smpso.Rand = rand.New(rand.NewSource(s))
}

func smpsosolver(fn bench.Func) *smpso.Solver {
	low, up := fn.Bounds()
	sols := pop.New(npar, fn.Nobj(), low, up)
	it := swarm.NewIterator(nil, swarm.NewPopulation(sols), archive.New(archcap), low, up,
		swarm.Mutate(smpso.NewPolynomialMutation(low, up)),
	)
	return &smpso.Solver{
		Iter:    it,
		Obj:     smpso.Func(fn.Eval),
		MaxEval: maxeval,
	}
}

func TestSMPSO(t *testing.T) {
	for _, fn := range bench.AllFuncs {
		seedrng(seed)
		front, neval, err := bench.Benchmark(smpsosolver(fn))
		if err != nil {
			t.Errorf("[%v] run failed: %v", fn.Name(), err)
			continue
		}
		if len(front) == 0 {
			t.Errorf("[%v] empty final front", fn.Name())
			continue
		}

		for i := range front {
			if !bench.InsideBounds(front[i].Var, fn) {
				t.Errorf("[%v] front member %v out of bounds: %v", fn.Name(), i, front[i].Var)
			}
			for j := range front {
				if i != j && smpso.Dominance(front[i], front[j]) == -1 {
					t.Errorf("[%v] front member %v dominates member %v", fn.Name(), i, j)
				}
			}
		}

		igd := bench.IGD(front, fn.TrueFront(500))
		t.Logf("[%v] %v evals, front size %v, igd %v", fn.Name(), neval, len(front), igd)
	}
}

func TestFuncValues(t *testing.T) {
	tests := []struct {
		fn   bench.Func
		v    []float64
		want []float64
	}{
		{bench.Schaffer{}, []float64{0}, []float64{0, 4}},
		{bench.Schaffer{}, []float64{2}, []float64{4, 0}},
		{bench.ZDT1{NVar: 3}, []float64{0.25, 0, 0}, []float64{0.25, 0.5}},
		{bench.ZDT1{NVar: 2}, []float64{0, 1}, []float64{0, 10}},
		{bench.ZDT2{NVar: 3}, []float64{0.5, 0, 0}, []float64{0.5, 0.75}},
		{bench.ZDT3{NVar: 2}, []float64{0, 0}, []float64{0, 1}},
		{bench.ZDT4{NVar: 2}, []float64{0, 0}, []float64{0, 1}},
		{bench.ZDT6{NVar: 2}, []float64{0, 0}, []float64{1, 0}},
	}

	for _, test := range tests {
		got := test.fn.Eval(test.v)
		for k := range got {
			if math.Abs(got[k]-test.want[k]) > 1e-12 {
				t.Errorf("[%v] Eval(%v) = %v, want %v", test.fn.Name(), test.v, got, test.want)
				break
			}
		}
	}
}

func TestZDT4Bounds(t *testing.T) {
	low, up := bench.ZDT4{}.Bounds()
	if low[0] != 0 || up[0] != 1 {
		t.Errorf("x0 bounds are [%v, %v], want [0, 1]", low[0], up[0])
	}
	for i := 1; i < len(low); i++ {
		if low[i] != -5 || up[i] != 5 {
			t.Errorf("x%v bounds are [%v, %v], want [-5, 5]", i, low[i], up[i])
		}
	}
}

func TestDTLZ1(t *testing.T) {
	fn := bench.DTLZ1{}
	if fn.Nobj() != 3 {
		t.Fatalf("default objectives = %v, want 3", fn.Nobj())
	}
	low, _ := fn.Bounds()
	if len(low) != 7 {
		t.Fatalf("default variables = %v, want 7", len(low))
	}

	// with the distance variables at 0.5 the penalty g vanishes and the
	// objectives land on the simplex summing to 0.5
	v := []float64{0.3, 0.8, 0.5, 0.5, 0.5, 0.5, 0.5}
	objs := fn.Eval(v)
	tot := 0.0
	for _, f := range objs {
		tot += f
	}
	if math.Abs(tot-0.5) > 1e-9 {
		t.Errorf("optimal objectives sum to %v, want 0.5: %v", tot, objs)
	}
}

func TestTrueFronts(t *testing.T) {
	for _, fn := range bench.AllFuncs {
		pts := fn.TrueFront(200)
		if len(pts) == 0 {
			t.Errorf("[%v] empty reference front", fn.Name())
			continue
		}
		for i, p := range pts {
			if len(p) != fn.Nobj() {
				t.Fatalf("[%v] reference point %v has %v objectives, want %v",
					fn.Name(), i, len(p), fn.Nobj())
			}
		}
		// a reference front must itself be mutually non-dominated
		for i := range pts {
			for j := range pts {
				if i != j && dominates(pts[i], pts[j]) {
					t.Errorf("[%v] reference point %v dominates point %v: %v vs %v",
						fn.Name(), i, j, pts[i], pts[j])
				}
			}
		}
	}
}

func dominates(a, b []float64) bool {
	strict := false
	for k := range a {
		if a[k] > b[k] {
			return false
		}
		if a[k] < b[k] {
			strict = true
		}
	}
	return strict
}

func TestIGD(t *testing.T) {
	ref := [][]float64{{0, 1}, {0.5, 0.5}, {1, 0}}

	exact := []smpso.Solution{
		{Obj: []float64{0, 1}},
		{Obj: []float64{0.5, 0.5}},
		{Obj: []float64{1, 0}},
	}
	if igd := bench.IGD(exact, ref); igd != 0 {
		t.Errorf("exact cover: igd = %v, want 0", igd)
	}

	offset := []smpso.Solution{
		{Obj: []float64{0.1, 1}},
		{Obj: []float64{0.6, 0.5}},
		{Obj: []float64{1.1, 0}},
	}
	if igd := bench.IGD(offset, ref); math.Abs(igd-0.1) > 1e-12 {
		t.Errorf("uniform 0.1 offset: igd = %v, want 0.1", igd)
	}

	if igd := bench.IGD(nil, ref); !math.IsInf(igd, 1) {
		t.Errorf("empty approximation: igd = %v, want +Inf", igd)
	}
}
