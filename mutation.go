package smpso

import "math"

// DefaultDistIdx is the conventional distribution index for polynomial
// mutation.
const DefaultDistIdx = 20.0

// PolynomialMutation is the polynomial mutation operator from:
//
//     Deb and Goyal. "A combined genetic adaptive search (GeneAS) for
//     engineering design", Computer Science and Informatics 26(4),
//     pp. 30-45, 1996
//
// the perturbation operator SMPSO is conventionally paired with.  P is
// the per-variable mutation probability and DistIdx the distribution
// index: larger values keep perturbations closer to the parent value.
type PolynomialMutation struct {
	P       float64
	DistIdx float64
	Low, Up []float64
	// Rng overrides the package-level random source when non-nil.
	Rng Rng
}

// NewPolynomialMutation returns the operator with the conventional
// defaults: mutation probability 1/nvar and distribution index 20.
func NewPolynomialMutation(low, up []float64) *PolynomialMutation {
	if len(low) != len(up) {
		panic("smpso: mutation bound vectors have different lengths")
	}
	return &PolynomialMutation{
		P:       1 / float64(len(low)),
		DistIdx: DefaultDistIdx,
		Low:     append([]float64{}, low...),
		Up:      append([]float64{}, up...),
	}
}

// Mutate perturbs each variable with probability P.  Results always
// stay inside the operator's bounds.
func (m *PolynomialMutation) Mutate(s *Solution) {
	rng := m.Rng
	if rng == nil {
		rng = Rand
	}

	for j := range s.Var {
		if rng.Float64() > m.P {
			continue
		}
		lo, hi := m.Low[j], m.Up[j]
		if hi <= lo {
			continue
		}

		x := s.Var[j]
		d1 := (x - lo) / (hi - lo)
		d2 := (hi - x) / (hi - lo)
		u := rng.Float64()
		pw := 1 / (m.DistIdx + 1)

		var dq float64
		if u < 0.5 {
			v := 2*u + (1-2*u)*math.Pow(1-d1, m.DistIdx+1)
			dq = math.Pow(v, pw) - 1
		} else {
			v := 2*(1-u) + 2*(u-0.5)*math.Pow(1-d2, m.DistIdx+1)
			dq = 1 - math.Pow(v, pw)
		}

		x += dq * (hi - lo)
		if x < lo {
			x = lo
		} else if x > hi {
			x = hi
		}
		s.Var[j] = x
	}
}
