package archive

import (
	"math"
	"sort"

	"github.com/gonum/matrix/mat64"

	"github.com/KalenGit/smpso"
)

// CrowdingDistance computes the NSGA-II crowding distance for each
// solution: per objective, the normalized gap between a member's
// neighbors along that objective, summed over objectives.  Extreme
// solutions along any objective get +Inf so capacity pressure never
// evicts the boundary of the front.  Sets of one or two solutions are
// all boundary.
func CrowdingDistance(sols []smpso.Solution) []float64 {
	n := len(sols)
	dist := make([]float64, n)
	if n == 0 {
		return dist
	}
	if n <= 2 {
		for i := range dist {
			dist[i] = math.Inf(1)
		}
		return dist
	}

	nobj := sols[0].Nobj()
	objs := mat64.NewDense(n, nobj, nil)
	for i, s := range sols {
		objs.SetRow(i, s.Obj)
	}

	idx := make([]int, n)
	col := make([]float64, n)
	for j := 0; j < nobj; j++ {
		mat64.Col(col, j, objs)
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(p, q int) bool { return col[idx[p]] < col[idx[q]] })

		lo, hi := col[idx[0]], col[idx[n-1]]
		dist[idx[0]] = math.Inf(1)
		dist[idx[n-1]] = math.Inf(1)
		if hi == lo {
			continue
		}
		for k := 1; k < n-1; k++ {
			dist[idx[k]] += (col[idx[k+1]] - col[idx[k-1]]) / (hi - lo)
		}
	}
	return dist
}
