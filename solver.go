package smpso

// Solver drives an Iterator until one of its stopping conditions
// triggers.  MaxEval and MaxIter are independent predicates; a
// zero-valued limit is ignored.  The front reported by the final
// iteration is the result of the run.
type Solver struct {
	Iter    Iterator
	Obj     Objectiver
	MaxEval int
	MaxIter int

	neval int
	niter int
	front []Solution
	err   error
}

// Next runs a single iteration and reports whether the solver may
// continue.  It returns false on iterator error or when a stopping
// condition has been reached.
func (s *Solver) Next() bool {
	var n int
	s.front, n, s.err = s.Iter.Iterate(s.Obj)
	s.neval += n
	s.niter++
	if s.err != nil {
		return false
	}
	if s.MaxEval > 0 && s.neval >= s.MaxEval {
		return false
	}
	if s.MaxIter > 0 && s.niter >= s.MaxIter {
		return false
	}
	return true
}

// Run iterates until completion and returns the first error
// encountered, if any.
func (s *Solver) Run() error {
	for s.Next() {
	}
	return s.err
}

// Front returns the current Pareto-front approximation.
func (s *Solver) Front() []Solution { return s.front }

// Neval returns the cumulative number of objective evaluations.
func (s *Solver) Neval() int { return s.neval }

// Niter returns the number of iterations run so far.
func (s *Solver) Niter() int { return s.niter }

func (s *Solver) Err() error { return s.err }
