// Package bench provides multi-objective benchmark problems for
// testing the optimizer: the ZDT family from
//
//     Zitzler, E., Deb, K., Thiele, L.  Comparison of multiobjective
//     evolutionary algorithms: Empirical results.  Evolutionary
//     Computation 8(2), pp. 173-195. 2000
//
// plus DTLZ1 and two small bi-objective classics, together with
// true-front generators and an inverted-generational-distance quality
// metric.
package bench

import (
	"math"

	"github.com/KalenGit/smpso"
)

var (
	sin  = math.Sin
	cos  = math.Cos
	exp  = math.Exp
	sqrt = math.Sqrt
	pow  = math.Pow
)

var AllFuncs = []Func{
	Schaffer{},
	Fonseca{},
	ZDT1{},
	ZDT2{},
	ZDT3{},
	ZDT4{},
	ZDT6{},
	DTLZ1{},
}

type Func interface {
	// Eval returns the objective vector for v; lower is better for
	// every objective.
	Eval(v []float64) []float64
	Bounds() (low, up []float64)
	Nobj() int
	// TrueFront returns roughly n objective-space points sampled from
	// the known Pareto-optimal front.
	TrueFront(n int) [][]float64
	Name() string
}

// Schaffer is the single-variable problem f1 = x^2, f2 = (x-2)^2 with a
// convex front traced by x in [0, 2].
type Schaffer struct{}

func (fn Schaffer) Name() string { return "Schaffer" }

func (fn Schaffer) Nobj() int { return 2 }

func (fn Schaffer) Bounds() (low, up []float64) {
	return []float64{-10}, []float64{10}
}

func (fn Schaffer) Eval(v []float64) []float64 {
	x := v[0]
	return []float64{x * x, (x - 2) * (x - 2)}
}

func (fn Schaffer) TrueFront(n int) [][]float64 {
	pts := make([][]float64, n)
	for i := range pts {
		x := 2 * float64(i) / float64(n-1)
		pts[i] = []float64{x * x, (x - 2) * (x - 2)}
	}
	return pts
}

// Fonseca is the Fonseca-Fleming problem over three variables in
// [-4, 4] with a concave front traced on the diagonal x1 = x2 = x3.
type Fonseca struct{}

func (fn Fonseca) Name() string { return "Fonseca" }

func (fn Fonseca) Nobj() int { return 2 }

func (fn Fonseca) Bounds() (low, up []float64) {
	return []float64{-4, -4, -4}, []float64{4, 4, 4}
}

func (fn Fonseca) Eval(v []float64) []float64 {
	c := 1 / sqrt(3)
	s1, s2 := 0.0, 0.0
	for _, x := range v {
		s1 += (x - c) * (x - c)
		s2 += (x + c) * (x + c)
	}
	return []float64{1 - exp(-s1), 1 - exp(-s2)}
}

func (fn Fonseca) TrueFront(n int) [][]float64 {
	c := 1 / sqrt(3)
	pts := make([][]float64, n)
	for i := range pts {
		x := -c + 2*c*float64(i)/float64(n-1)
		pts[i] = fn.Eval([]float64{x, x, x})
	}
	return pts
}

// ZDT1 has a convex front; 30 variables in [0,1] by default.
type ZDT1 struct {
	NVar int
}

func (fn ZDT1) Name() string { return "ZDT1" }

func (fn ZDT1) Nobj() int { return 2 }

func (fn ZDT1) nvar() int { return defdim(fn.NVar, 30) }

func (fn ZDT1) Bounds() (low, up []float64) { return unitBounds(fn.nvar()) }

func (fn ZDT1) Eval(v []float64) []float64 {
	f1 := v[0]
	g := zdtG(v)
	return []float64{f1, g * (1 - sqrt(f1/g))}
}

func (fn ZDT1) TrueFront(n int) [][]float64 {
	return frontCurve(n, func(x float64) float64 { return 1 - sqrt(x) })
}

// ZDT2 has a non-convex front; 30 variables in [0,1] by default.
type ZDT2 struct {
	NVar int
}

func (fn ZDT2) Name() string { return "ZDT2" }

func (fn ZDT2) Nobj() int { return 2 }

func (fn ZDT2) nvar() int { return defdim(fn.NVar, 30) }

func (fn ZDT2) Bounds() (low, up []float64) { return unitBounds(fn.nvar()) }

func (fn ZDT2) Eval(v []float64) []float64 {
	f1 := v[0]
	g := zdtG(v)
	return []float64{f1, g * (1 - pow(f1/g, 2))}
}

func (fn ZDT2) TrueFront(n int) [][]float64 {
	return frontCurve(n, func(x float64) float64 { return 1 - x*x })
}

// ZDT3 has a disconnected front; 30 variables in [0,1] by default.
type ZDT3 struct {
	NVar int
}

func (fn ZDT3) Name() string { return "ZDT3" }

func (fn ZDT3) Nobj() int { return 2 }

func (fn ZDT3) nvar() int { return defdim(fn.NVar, 30) }

func (fn ZDT3) Bounds() (low, up []float64) { return unitBounds(fn.nvar()) }

func (fn ZDT3) Eval(v []float64) []float64 {
	f1 := v[0]
	g := zdtG(v)
	h := 1 - sqrt(f1/g) - (f1/g)*sin(10*math.Pi*f1)
	return []float64{f1, g * h}
}

func (fn ZDT3) TrueFront(n int) [][]float64 {
	// the optimal front is the non-dominated subset of the g=1 curve
	pts := frontCurve(5*n, func(x float64) float64 {
		return 1 - sqrt(x) - x*sin(10*math.Pi*x)
	})
	return nondominated(pts)
}

// ZDT4 is multi-modal with a convex front; x1 in [0,1] and nine
// Rastrigin-style variables in [-5,5] by default.
type ZDT4 struct {
	NVar int
}

func (fn ZDT4) Name() string { return "ZDT4" }

func (fn ZDT4) Nobj() int { return 2 }

func (fn ZDT4) nvar() int { return defdim(fn.NVar, 10) }

func (fn ZDT4) Bounds() (low, up []float64) {
	n := fn.nvar()
	low = make([]float64, n)
	up = make([]float64, n)
	up[0] = 1
	for i := 1; i < n; i++ {
		low[i] = -5
		up[i] = 5
	}
	return low, up
}

func (fn ZDT4) Eval(v []float64) []float64 {
	f1 := v[0]
	g := 1 + 10*float64(len(v)-1)
	for _, x := range v[1:] {
		g += x*x - 10*cos(4*math.Pi*x)
	}
	return []float64{f1, g * (1 - sqrt(f1/g))}
}

func (fn ZDT4) TrueFront(n int) [][]float64 {
	return frontCurve(n, func(x float64) float64 { return 1 - sqrt(x) })
}

// ZDT6 has a non-convex front with a non-uniform solution density; 10
// variables in [0,1] by default.
type ZDT6 struct {
	NVar int
}

func (fn ZDT6) Name() string { return "ZDT6" }

func (fn ZDT6) Nobj() int { return 2 }

func (fn ZDT6) nvar() int { return defdim(fn.NVar, 10) }

func (fn ZDT6) Bounds() (low, up []float64) { return unitBounds(fn.nvar()) }

func (fn ZDT6) Eval(v []float64) []float64 {
	f1 := 1 - exp(-4*v[0])*pow(sin(6*math.Pi*v[0]), 6)
	s := 0.0
	for _, x := range v[1:] {
		s += x
	}
	g := 1 + 9*pow(s/float64(len(v)-1), 0.25)
	return []float64{f1, g * (1 - pow(f1/g, 2))}
}

func (fn ZDT6) TrueFront(n int) [][]float64 {
	// trace f1 over x1 at g=1, then strip the dominated samples caused
	// by f1's non-monotonicity in x1
	pts := make([][]float64, 5*n)
	for i := range pts {
		x := float64(i) / float64(len(pts)-1)
		f1 := 1 - exp(-4*x)*pow(sin(6*math.Pi*x), 6)
		pts[i] = []float64{f1, 1 - f1*f1}
	}
	return nondominated(pts)
}

// DTLZ1 is scalable in objectives; 7 variables in [0,1] and 3
// objectives by default.  The optimal front is the simplex where the
// objectives sum to 0.5.
type DTLZ1 struct {
	NVar int
	NObj int
}

func (fn DTLZ1) Name() string { return "DTLZ1" }

func (fn DTLZ1) Nobj() int { return defdim(fn.NObj, 3) }

func (fn DTLZ1) nvar() int { return defdim(fn.NVar, 7) }

func (fn DTLZ1) Bounds() (low, up []float64) { return unitBounds(fn.nvar()) }

func (fn DTLZ1) Eval(v []float64) []float64 {
	nobj := fn.Nobj()
	k := len(v) - nobj + 1

	g := 0.0
	for _, x := range v[len(v)-k:] {
		g += (x-0.5)*(x-0.5) - cos(20*math.Pi*(x-0.5))
	}
	g = 100 * (float64(k) + g)

	objs := make([]float64, nobj)
	for i := range objs {
		f := (1 + g) * 0.5
		for j := 0; j < nobj-(i+1); j++ {
			f *= v[j]
		}
		if i != 0 {
			f *= 1 - v[nobj-(i+1)]
		}
		objs[i] = f
	}
	return objs
}

func (fn DTLZ1) TrueFront(n int) [][]float64 {
	nobj := fn.Nobj()
	if nobj == 2 {
		pts := make([][]float64, n)
		for i := range pts {
			x := 0.5 * float64(i) / float64(n-1)
			pts[i] = []float64{x, 0.5 - x}
		}
		return pts
	}

	// uniform random barycentric samples of the 0.5-simplex
	pts := make([][]float64, n)
	for i := range pts {
		w := make([]float64, nobj)
		tot := 0.0
		for j := range w {
			w[j] = -math.Log(1 - smpso.RandFloat())
			tot += w[j]
		}
		for j := range w {
			w[j] *= 0.5 / tot
		}
		pts[i] = w
	}
	return pts
}

// IGD computes the inverted generational distance from the reference
// front ref to the front approximation: the mean euclidean distance
// from each reference point to its nearest approximation point.  Lower
// is better; zero means ref is covered exactly.
func IGD(approx []smpso.Solution, ref [][]float64) float64 {
	if len(approx) == 0 {
		return math.Inf(1)
	}

	tot := 0.0
	for _, r := range ref {
		min := math.Inf(1)
		for _, s := range approx {
			d := 0.0
			for k := range r {
				diff := s.Obj[k] - r[k]
				d += diff * diff
			}
			if d < min {
				min = d
			}
		}
		tot += sqrt(min)
	}
	return tot / float64(len(ref))
}

// Benchmark runs solv until its stopping conditions trigger and returns
// the final front approximation together with the evaluation count.
func Benchmark(solv *smpso.Solver) ([]smpso.Solution, int, error) {
	for solv.Next() {
	}
	return solv.Front(), solv.Neval(), solv.Err()
}

// InsideBounds reports whether every variable of p lies inside fn's box
// bounds.
func InsideBounds(p []float64, fn Func) bool {
	low, up := fn.Bounds()
	for i := range p {
		if p[i] < low[i] || p[i] > up[i] {
			return false
		}
	}
	return true
}

func defdim(n, def int) int {
	if n == 0 {
		return def
	}
	return n
}

func unitBounds(n int) (low, up []float64) {
	low = make([]float64, n)
	up = make([]float64, n)
	for i := range up {
		up[i] = 1
	}
	return low, up
}

func zdtG(v []float64) float64 {
	s := 0.0
	for _, x := range v[1:] {
		s += x
	}
	return 1 + 9*s/float64(len(v)-1)
}

func frontCurve(n int, f2 func(f1 float64) float64) [][]float64 {
	pts := make([][]float64, n)
	for i := range pts {
		x := float64(i) / float64(n-1)
		pts[i] = []float64{x, f2(x)}
	}
	return pts
}

// nondominated strips dominated points from an objective-space point
// set.
func nondominated(pts [][]float64) [][]float64 {
	out := [][]float64{}
	for i, p := range pts {
		dominated := false
		for j, q := range pts {
			if i != j && dominatesVec(q, p) {
				dominated = true
				break
			}
		}
		if !dominated {
			out = append(out, p)
		}
	}
	return out
}

func dominatesVec(a, b []float64) bool {
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
