// Package smpso implements speed-constrained multi-objective particle
// swarm optimization (SMPSO).  The root package holds the solution
// entity, the Pareto-dominance test, and the collaborator interfaces
// consumed by the generation loop in the swarm subpackage; the leader
// archive lives in the archive subpackage and benchmark problems in
// bench.
package smpso

import (
	"crypto/sha1"
	"encoding/binary"
	"math"
	"math/rand"
	"runtime"
	"sync"
	"time"
)

// Rng is the source of uniform random numbers used throughout the
// package.  Components take an explicit Rng so runs can be reproduced;
// *rand.Rand satisfies it.
type Rng interface {
	Float64() float64
	Intn(n int) int
}

// Rand is the default random source.  Tests and binaries reseed it for
// reproducible runs.
var Rand Rng = rand.New(rand.NewSource(1))

// RandFloat returns a uniform number in [0, 1) from the default source.
func RandFloat() float64 { return Rand.Float64() }

// Solution is a single point in decision space together with its
// evaluated objective values.  All objectives follow a lower-is-better
// convention.
type Solution struct {
	Var []float64
	Obj []float64
}

// NewSolution returns a solution holding a copy of pos with nobj
// objectives initialized to +Inf (i.e. not yet evaluated).
func NewSolution(pos []float64, nobj int) Solution {
	s := Solution{
		Var: append([]float64{}, pos...),
		Obj: make([]float64, nobj),
	}
	for i := range s.Obj {
		s.Obj[i] = math.Inf(1)
	}
	return s
}

// Clone returns a deep copy of s; mutating the copy never affects s.
func (s Solution) Clone() Solution {
	return Solution{
		Var: append([]float64{}, s.Var...),
		Obj: append([]float64{}, s.Obj...),
	}
}

func (s Solution) Nvar() int { return len(s.Var) }

func (s Solution) Nobj() int { return len(s.Obj) }

// Objectiver is a multi-objective function.
type Objectiver interface {
	// Objective evaluates the variables in v and returns one value per
	// objective, framed so that lower values are better.  If the
	// evaluation fails, positive infinities should be returned along
	// with an error.
	Objective(v []float64) ([]float64, error)
}

// Func makes a plain function usable as an Objectiver.
type Func func([]float64) []float64

func (f Func) Objective(v []float64) ([]float64, error) { return f(v), nil }

// Evaler evaluates batches of solutions, filling in their objective
// vectors.  Implementations may parallelize internally but must not
// return until every solution passed to them has been evaluated - the
// caller never observes a partially evaluated swarm.
type Evaler interface {
	// Eval evaluates each solution using obj and returns the number of
	// objective evaluations performed n.
	Eval(obj Objectiver, sols ...*Solution) (n int, err error)
}

// Mutator perturbs a solution's decision variables in place, respecting
// whatever bounds the operator was constructed with.
type Mutator interface {
	Mutate(s *Solution)
}

// Observer receives progress notifications from a running solver.
// Notification is fire-and-forget: implementations should not block,
// and panics are swallowed by the caller.
type Observer interface {
	Update(neval int, pop []Solution, elapsed time.Duration)
}

// Iterator runs a single generation of a population-based solver and
// reports the current non-dominated front approximation along with the
// number of objective evaluations performed.
type Iterator interface {
	Iterate(obj Objectiver) (front []Solution, n int, err error)
}

// SerialEvaler evaluates solutions one at a time in order.
type SerialEvaler struct {
	ContinueOnErr bool
}

func (ev SerialEvaler) Eval(obj Objectiver, sols ...*Solution) (n int, err error) {
	for _, s := range sols {
		s.Obj, err = obj.Objective(s.Var)
		n++
		if err != nil && !ev.ContinueOnErr {
			return n, err
		}
	}
	return n, nil
}

// ParallelEvaler evaluates solutions concurrently with a fixed worker
// pool.  Eval blocks until the whole batch is done, so from the swarm
// loop's perspective evaluation remains a synchronous call.
type ParallelEvaler struct {
	// NWorkers is the number of concurrent evaluations.  If zero,
	// runtime.NumCPU() is used.
	NWorkers int
}

func (ev ParallelEvaler) Eval(obj Objectiver, sols ...*Solution) (int, error) {
	nw := ev.NWorkers
	if nw <= 0 {
		nw = runtime.NumCPU()
	}
	if nw > len(sols) {
		nw = len(sols)
	}
	if len(sols) == 0 {
		return 0, nil
	}

	ch := make(chan *Solution, len(sols))
	for _, s := range sols {
		ch <- s
	}
	close(ch)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firsterr error
	wg.Add(nw)
	for i := 0; i < nw; i++ {
		go func() {
			defer wg.Done()
			for s := range ch {
				objs, err := obj.Objective(s.Var)
				s.Obj = objs
				if err != nil {
					mu.Lock()
					if firsterr == nil {
						firsterr = err
					}
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()
	return len(sols), firsterr
}

// CacheEvaler wraps another Evaler and caches objective vectors keyed
// by a hash of the decision variables, eliding repeat evaluations of
// identical positions.  Cache hits do not count as objective
// evaluations.
type CacheEvaler struct {
	ev    Evaler
	cache map[[sha1.Size]byte][]float64
}

func NewCacheEvaler(ev Evaler) *CacheEvaler {
	return &CacheEvaler{
		ev:    ev,
		cache: map[[sha1.Size]byte][]float64{},
	}
}

func (ev *CacheEvaler) Eval(obj Objectiver, sols ...*Solution) (n int, err error) {
	misses := make([]*Solution, 0, len(sols))
	for _, s := range sols {
		if objs, ok := ev.cache[hashVars(s.Var)]; ok {
			s.Obj = append([]float64{}, objs...)
		} else {
			misses = append(misses, s)
		}
	}

	n, err = ev.ev.Eval(obj, misses...)

	// only cache solutions the inner evaler actually got to
	evaluated := misses
	if n < len(misses) {
		evaluated = misses[:n]
	}
	for _, s := range evaluated {
		ev.cache[hashVars(s.Var)] = append([]float64{}, s.Obj...)
	}
	return n, err
}

func hashVars(v []float64) [sha1.Size]byte {
	data := make([]byte, len(v)*8)
	for i, x := range v {
		binary.BigEndian.PutUint64(data[i*8:], math.Float64bits(x))
	}
	return sha1.Sum(data)
}
