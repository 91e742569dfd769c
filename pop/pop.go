// Package pop generates initial solution populations for the swarm.
package pop

import (
	"math"

	"github.com/gonum/matrix/mat64"
	"github.com/petar/GoLLRB/llrb"

	"github.com/KalenGit/smpso"
)

// New generates n random solutions uniformly distributed inside the box
// bounds low and up, each with nobj unevaluated objectives.
// smpso.Rand supplies the random numbers.
func New(n, nobj int, low, up []float64) []smpso.Solution {
	if n < 1 {
		panic("pop: population size must be at least 1")
	}
	if len(low) != len(up) {
		panic("pop: low and up vectors are not same length")
	}
	for i := range low {
		if low[i] > up[i] {
			panic("pop: lower bound exceeds upper bound")
		}
	}

	sols := make([]smpso.Solution, n)
	for i := range sols {
		pos := make([]float64, len(low))
		for j := range pos {
			pos[j] = low[j] + smpso.RandFloat()*(up[j]-low[j])
		}
		sols[i] = smpso.NewSolution(pos, nobj)
	}
	return sols
}

type item struct {
	smpso.Solution
	howbad float64
}

func (p1 item) Less(than llrb.Item) bool {
	return p1.howbad < than.(item).howbad
}

// NewConstr tries to generate a random population of n feasible
// solutions satisfying the linear constraints "low <= Ax <= up".  lb
// and ub define lower and upper box bounds for the variables.
// NewConstr generates random solutions within the box bounds and keeps
// all feasible ones.  It queues up the least unfavorable infeasible
// solutions in case n feasible ones cannot be found within maxiter.
func NewConstr(n, nobj, maxiter int, lb, ub []float64, low, A, up *mat64.Dense) (sols []smpso.Solution, nbad, iter int) {
	stackA, b, ranges := stackConstr(low, A, up)
	_, ndims := A.Dims()

	violaters := llrb.New()
	sols = make([]smpso.Solution, 0, n)
	for i := 0; i < maxiter; i++ {
		pos := make([]float64, ndims)
		for j := range pos {
			pos[j] = lb[j] + smpso.RandFloat()*(ub[j]-lb[j])
		}
		s := smpso.NewSolution(pos, nobj)

		// check for constraint violations
		ax := &mat64.Dense{}
		ax.Mul(stackA, mat64.NewDense(ndims, 1, pos))
		m, _ := ax.Dims()
		howbad := 0.0
		for r := 0; r < m; r++ {
			if diff := ax.At(r, 0) - b.At(r, 0); diff > 0 {
				howbad += diff / ranges[r]
			}
		}

		if howbad == 0 {
			sols = append(sols, s)
			if len(sols) == n {
				return sols, 0, i
			}
		} else {
			violaters.InsertNoReplace(item{s, howbad})
			for violaters.Len() > n-len(sols) {
				violaters.DeleteMax()
			}
		}
	}

	nbad = n - len(sols)
	for len(sols) < n {
		sols = append(sols, violaters.DeleteMin().(item).Solution)
	}
	return sols, nbad, maxiter
}

// stackConstr converts the two-sided constraint "low <= Ax <= up" into
// the single-sided form "Ax <= b" by stacking A over -A.  ranges holds
// the constraint interval width for each stacked row and is used to
// normalize violation magnitudes.
func stackConstr(low, A, up *mat64.Dense) (stackA, b *mat64.Dense, ranges []float64) {
	m, n := A.Dims()
	stackA = mat64.NewDense(2*m, n, nil)
	b = mat64.NewDense(2*m, 1, nil)
	ranges = make([]float64, 2*m)

	row := make([]float64, n)
	for i := 0; i < m; i++ {
		mat64.Row(row, i, A)
		stackA.SetRow(i, row)
		for j := range row {
			row[j] = -row[j]
		}
		stackA.SetRow(m+i, row)

		b.Set(i, 0, up.At(i, 0))
		b.Set(m+i, 0, -low.At(i, 0))

		rng := up.At(i, 0) - low.At(i, 0)
		if rng == 0 || math.IsInf(rng, 0) {
			rng = 1
		}
		ranges[i] = rng
		ranges[m+i] = rng
	}
	return stackA, b, ranges
}
