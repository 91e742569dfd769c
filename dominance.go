package smpso

// Dominance reports the Pareto-dominance relation between the objective
// vectors of a and b: -1 if a dominates b (no objective worse, at least
// one strictly better), 1 if b dominates a, and 0 if neither dominates
// the other, including the case of identical objective vectors.  Both
// solutions must already be evaluated; decision variables play no part
// in the comparison.
func Dominance(a, b Solution) int {
	abetter, bbetter := false, false
	for i := range a.Obj {
		switch {
		case a.Obj[i] < b.Obj[i]:
			abetter = true
		case b.Obj[i] < a.Obj[i]:
			bbetter = true
		}
	}

	switch {
	case abetter && !bbetter:
		return -1
	case bbetter && !abetter:
		return 1
	}
	return 0
}
