// Package archive provides a capacity-bounded archive of mutually
// non-dominated solutions with crowding-distance based eviction.  The
// archive is the leader set consulted by the swarm's velocity updates
// and holds the Pareto-front approximation at the end of a run.
package archive

import (
	"github.com/KalenGit/smpso"
)

// Archive is a bounded non-dominated set.  Dominance decides
// membership; under capacity pressure the most crowded member is
// evicted so the survivors stay spread across the front.
type Archive struct {
	cap   int
	sols  []smpso.Solution
	dist  []float64
	stale bool
}

// New creates an empty archive holding at most capacity solutions.
func New(capacity int) *Archive {
	if capacity < 1 {
		panic("archive: capacity must be at least 1")
	}
	return &Archive{cap: capacity}
}

func (a *Archive) Len() int { return len(a.sols) }

func (a *Archive) Cap() int { return a.cap }

// Add considers s for membership and reports whether it was inserted.
// The archive stores a deep copy, so later mutation of s by the caller
// cannot corrupt the front.  If any current member dominates s the
// archive is left untouched; members dominated by s are removed.  When
// an insert pushes the archive over capacity, densities are refreshed
// and the member with the lowest crowding score is evicted (first
// encountered on ties).
func (a *Archive) Add(s smpso.Solution) bool {
	for _, m := range a.sols {
		if smpso.Dominance(m, s) == -1 {
			return false
		}
	}

	kept := a.sols[:0]
	for _, m := range a.sols {
		if smpso.Dominance(s, m) != -1 {
			kept = append(kept, m)
		}
	}
	a.sols = append(kept, s.Clone())
	a.stale = true

	if len(a.sols) > a.cap {
		a.ComputeDensity()
		a.evict()
	}
	return true
}

func (a *Archive) evict() {
	worst := 0
	for i, d := range a.dist {
		if d < a.dist[worst] {
			worst = i
		}
	}
	a.sols = append(a.sols[:worst], a.sols[worst+1:]...)
	a.dist = append(a.dist[:worst], a.dist[worst+1:]...)
	// remaining scores were computed against the evicted member
	a.stale = true
}

// ComputeDensity refreshes every member's crowding score.  It must be
// called after membership changes and before Dist or Tournament are
// used; the swarm loop calls it once per generation.
func (a *Archive) ComputeDensity() {
	a.dist = CrowdingDistance(a.sols)
	a.stale = false
}

// Dist returns the crowding score of member i as of the last
// ComputeDensity call.  Reading a stale score is a bug, so Dist panics
// if the membership has changed since the scores were computed.
func (a *Archive) Dist(i int) float64 {
	if a.stale || a.dist == nil {
		panic("archive: density read before ComputeDensity")
	}
	return a.dist[i]
}

// Sample2 draws two distinct member indices uniformly at random.  With
// a single member both draws return it; sampling an empty archive
// panics.
func (a *Archive) Sample2(rng smpso.Rng) (i, j int) {
	n := len(a.sols)
	if n == 0 {
		panic("archive: sample from empty archive")
	}
	if n == 1 {
		return 0, 0
	}
	i = rng.Intn(n)
	j = rng.Intn(n - 1)
	if j >= i {
		j++
	}
	return i, j
}

// Tournament returns a copy of the preferred of two randomly drawn
// members: the one in the sparser region of objective space (higher
// crowding score).  The first draw wins ties.
func (a *Archive) Tournament(rng smpso.Rng) smpso.Solution {
	i, j := a.Sample2(rng)
	if a.Dist(j) > a.Dist(i) {
		return a.sols[j].Clone()
	}
	return a.sols[i].Clone()
}

// Solutions returns a deep copy of the current membership.
func (a *Archive) Solutions() []smpso.Solution {
	out := make([]smpso.Solution, len(a.sols))
	for i, s := range a.sols {
		out[i] = s.Clone()
	}
	return out
}
