// Package swarm implements the SMPSO generation cycle: constricted,
// speed-limited velocity updates pulled toward personal bests and
// leaders drawn from a bounded archive, bounce-at-bounds position
// updates, and polynomial perturbation of the swarm between
// evaluations.
package swarm

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/KalenGit/smpso"
	"github.com/KalenGit/smpso/archive"
)

// Default acceleration coefficient ranges and inertia weight follow:
//
//     Nebro, Durillo, Garcia-Nieto, Coello Coello, Luna and Alba.
//     "SMPSO: A new PSO-based metaheuristic for multi-objective
//     optimization", IEEE MCDM, pp. 66-73, 2009
//
// c1 and c2 are redrawn uniformly from their ranges for every particle
// every generation; whenever c1+c2 exceeds 4 the velocity update is
// damped by the Clerc-Kennedy constriction coefficient.
const (
	DefaultC1Min = 1.5
	DefaultC1Max = 2.5
	DefaultC2Min = 1.5
	DefaultC2Max = 2.5

	DefaultWeight = 0.1
)

const (
	// TblParticles is the name of the sql database table that contains
	// positions and objective values for particles for each generation.
	TblParticles = "swarmparticles"
	// TblBests is the name of the sql database table that contains each
	// particle's personal best at each generation.
	TblBests = "swarmbests"
	// TblFront is the name of the sql database table that contains the
	// leader archive membership at each generation.
	TblFront = "swarmfront"
)

// Constriction calculates the Clerc-Kennedy constriction coefficient
// for acceleration coefficients c1 and c2:
//
//     Clerc and Kennedy. "The particle swarm - explosion, stability,
//     and convergence in a multidimensional complex space", IEEE
//     Trans. Evol. Comput. 6(1), pp. 58-73, 2002
//
// For rho = c1+c2 <= 4 no damping is applied and the coefficient is 1.
// The square root is only ever taken for rho > 4, where rho^2-4*rho is
// strictly positive.
func Constriction(c1, c2 float64) float64 {
	rho := c1 + c2
	if rho <= 4 {
		return 1
	}
	return 2 / (2 - rho - math.Sqrt(rho*rho-4*rho))
}

// Particle pairs a solution with the velocity row that persists across
// generations and the particle's own memory of the best solution it
// has visited, by dominance.
type Particle struct {
	Id int
	smpso.Solution
	Vel  []float64
	Best smpso.Solution
}

type Population []*Particle

// NewPopulation wraps sols as particles with zero-initialized
// velocities.
func NewPopulation(sols []smpso.Solution) Population {
	pop := make(Population, len(sols))
	for i, s := range sols {
		pop[i] = &Particle{
			Id:       i,
			Solution: s,
			Vel:      make([]float64, s.Nvar()),
		}
	}
	return pop
}

// Solutions returns a deep-copied snapshot of the particles' current
// solutions.
func (pop Population) Solutions() []smpso.Solution {
	sols := make([]smpso.Solution, len(pop))
	for i, p := range pop {
		sols[i] = p.Solution.Clone()
	}
	return sols
}

type Option func(*Iterator)

func C1(min, max float64) Option {
	return func(it *Iterator) { it.C1Min, it.C1Max = min, max }
}

func C2(min, max float64) Option {
	return func(it *Iterator) { it.C2Min, it.C2Max = min, max }
}

// Weight fixes the inertia weight for every generation.
func Weight(w float64) Option {
	return func(it *Iterator) {
		it.WeightFn = func(gen int) float64 { return w }
	}
}

// LinWeight varies the inertia weight linearly from start to end over
// maxgen generations.  The reference SMPSO configuration collapses the
// weight range to a constant; this exposes the schedule instead.
func LinWeight(start, end float64, maxgen int) Option {
	return func(it *Iterator) {
		it.WeightFn = func(gen int) float64 {
			return start - (start-end)*float64(gen)/float64(maxgen)
		}
	}
}

// Bounce sets the factors applied to a velocity component when the
// position update is clamped at the lower (v1) and upper (v2) bound.
// The defaults of -1 invert the component; magnitudes below 1 also
// dampen it.
func Bounce(v1, v2 float64) Option {
	return func(it *Iterator) { it.ChangeVel1, it.ChangeVel2 = v1, v2 }
}

// Mutate sets the perturbation operator applied to every particle each
// generation before re-evaluation.
func Mutate(m smpso.Mutator) Option {
	return func(it *Iterator) { it.Mutator = m }
}

// Rng replaces the default random source for coefficient draws and
// leader tournaments.
func Rng(r smpso.Rng) Option {
	return func(it *Iterator) { it.Rand = r }
}

// Observe registers progress observers notified after every
// generation.
func Observe(obs ...smpso.Observer) Option {
	return func(it *Iterator) { it.obs = append(it.obs, obs...) }
}

func DB(db *sql.DB) Option {
	return func(it *Iterator) { it.Db = db }
}

// Iterator holds the state of an SMPSO run: the fixed-size swarm, its
// velocity rows, and the leader archive.  It implements
// smpso.Iterator; the first Iterate call evaluates and seeds the
// initial swarm, subsequent calls each advance one generation.
type Iterator struct {
	Pop     Population
	Leaders *archive.Archive
	smpso.Evaler
	Mutator smpso.Mutator

	C1Min, C1Max float64
	C2Min, C2Max float64
	WeightFn     func(gen int) float64
	// ChangeVel1 and ChangeVel2 scale a particle's velocity component
	// when its position is clamped at the lower and upper bound.
	ChangeVel1, ChangeVel2 float64

	Rand smpso.Rng
	Db   *sql.DB

	low, up  []float64
	deltamax []float64
	obs      []smpso.Observer

	initialized bool
	count       int
	neval       int
	start       time.Time
}

// NewIterator creates an SMPSO iterator over the given initial swarm.
// leaders receives the evolving non-dominated front; low and up are the
// per-variable box bounds the problem's solutions must stay inside.  If
// e is nil, a SerialEvaler is used.  Configuration is validated here so
// a bad setup fails before the run starts rather than mid-flight.
func NewIterator(e smpso.Evaler, pop Population, leaders *archive.Archive, low, up []float64, opts ...Option) *Iterator {
	if e == nil {
		e = smpso.SerialEvaler{}
	}
	if len(pop) == 0 {
		panic("swarm: swarm size must be at least 1")
	}
	if leaders == nil {
		panic("swarm: nil leader archive")
	}
	if len(low) != len(up) || len(low) != pop[0].Nvar() {
		panic("swarm: bound vectors do not match problem dimensions")
	}

	deltamax := make([]float64, len(low))
	for i := range low {
		if low[i] > up[i] {
			panic(fmt.Sprintf("swarm: lower bound exceeds upper bound at index %v", i))
		}
		deltamax[i] = (up[i] - low[i]) / 2
	}

	it := &Iterator{
		Pop:        pop,
		Leaders:    leaders,
		Evaler:     e,
		C1Min:      DefaultC1Min,
		C1Max:      DefaultC1Max,
		C2Min:      DefaultC2Min,
		C2Max:      DefaultC2Max,
		WeightFn:   func(gen int) float64 { return DefaultWeight },
		ChangeVel1: -1,
		ChangeVel2: -1,
		Rand:       smpso.Rand,
		low:        append([]float64{}, low...),
		up:         append([]float64{}, up...),
		deltamax:   deltamax,
	}

	for _, opt := range opts {
		opt(it)
	}

	it.initdb()
	return it
}

// Neval returns the number of objective evaluations performed so far.
func (it *Iterator) Neval() int { return it.neval }

// Iterate advances the swarm by one generation and returns a copy of
// the current leader archive membership.  The first call evaluates the
// initial swarm, seeds the leaders and personal bests, and computes
// the initial density estimates instead of moving particles.
func (it *Iterator) Iterate(obj smpso.Objectiver) (front []smpso.Solution, n int, err error) {
	if !it.initialized {
		return it.init(obj)
	}
	it.count++

	it.move()

	if it.Mutator != nil {
		for _, p := range it.Pop {
			it.Mutator.Mutate(&p.Solution)
		}
	}

	n, err = it.eval(obj)
	if err != nil {
		return nil, n, err
	}

	for _, p := range it.Pop {
		// Ties (mutual non-dominance) favor the newer solution: the
		// memory only rejects a move when the stored best strictly
		// dominates it.
		if smpso.Dominance(p.Solution, p.Best) != 1 {
			p.Best = p.Solution.Clone()
		}
	}

	for _, p := range it.Pop {
		it.Leaders.Add(p.Solution)
	}
	it.Leaders.ComputeDensity()

	it.updateDb()
	it.notify()
	return it.Leaders.Solutions(), n, nil
}

func (it *Iterator) init(obj smpso.Objectiver) ([]smpso.Solution, int, error) {
	it.start = time.Now()

	n, err := it.eval(obj)
	if err != nil {
		return nil, n, err
	}

	for _, p := range it.Pop {
		p.Best = p.Solution.Clone()
		it.Leaders.Add(p.Solution)
	}
	it.Leaders.ComputeDensity()
	it.initialized = true

	it.updateDb()
	it.notify()
	return it.Leaders.Solutions(), n, nil
}

func (it *Iterator) eval(obj smpso.Objectiver) (int, error) {
	sols := make([]*smpso.Solution, len(it.Pop))
	for i, p := range it.Pop {
		sols[i] = &p.Solution
	}
	n, err := it.Evaler.Eval(obj, sols...)
	it.neval += n
	return n, err
}

// move applies the velocity and position engines for one generation.
func (it *Iterator) move() {
	w := it.WeightFn(it.count)
	for _, p := range it.Pop {
		// r1, r2, c1 and c2 are drawn once per particle and shared
		// across its dimensions, coupling the update of all coordinates
		// within a generation.
		r1 := it.Rand.Float64()
		r2 := it.Rand.Float64()
		c1 := it.C1Min + it.Rand.Float64()*(it.C1Max-it.C1Min)
		c2 := it.C2Min + it.Rand.Float64()*(it.C2Max-it.C2Min)
		chi := Constriction(c1, c2)
		gbest := it.Leaders.Tournament(it.Rand)

		for j, currv := range p.Vel {
			v := chi * (w*currv +
				c1*r1*(p.Best.Var[j]-p.Var[j]) +
				c2*r2*(gbest.Var[j]-p.Var[j]))
			if v > it.deltamax[j] {
				v = it.deltamax[j]
			} else if v < -it.deltamax[j] {
				v = -it.deltamax[j]
			}
			p.Vel[j] = v
		}

		for j := range p.Var {
			p.Var[j] += p.Vel[j]
			if p.Var[j] < it.low[j] {
				p.Var[j] = it.low[j]
				p.Vel[j] *= it.ChangeVel1
			} else if p.Var[j] > it.up[j] {
				p.Var[j] = it.up[j]
				p.Vel[j] *= it.ChangeVel2
			}
		}
	}
}

// notify fans progress out to the observers.  Observer panics are
// contained here so a broken listener cannot abort an optimization
// run.
func (it *Iterator) notify() {
	if len(it.obs) == 0 {
		return
	}
	snap := it.Pop.Solutions()
	elapsed := time.Since(it.start)
	for _, o := range it.obs {
		func() {
			defer func() { recover() }()
			o.Update(it.neval, snap, elapsed)
		}()
	}
}

func (it *Iterator) initdb() {
	if it.Db == nil {
		return
	}

	s := "CREATE TABLE IF NOT EXISTS " + TblParticles + " (particle INTEGER, gen INTEGER" + it.xdbsql("define") + ");"
	_, err := it.Db.Exec(s)
	panicif(err)

	s = "CREATE TABLE IF NOT EXISTS " + TblBests + " (particle INTEGER, gen INTEGER" + it.xdbsql("define") + ");"
	_, err = it.Db.Exec(s)
	panicif(err)

	s = "CREATE TABLE IF NOT EXISTS " + TblFront + " (gen INTEGER" + it.xdbsql("define") + ");"
	_, err = it.Db.Exec(s)
	panicif(err)
}

func (it *Iterator) xdbsql(op string) string {
	s := ""
	ncol := len(it.low) + it.Pop[0].Nobj()
	for i := 0; i < ncol; i++ {
		name := fmt.Sprintf("x%v", i)
		if i >= len(it.low) {
			name = fmt.Sprintf("f%v", i-len(it.low))
		}
		switch op {
		case "?":
			s += ",?"
		case "define":
			s += "," + name + " REAL"
		case "name":
			s += "," + name
		default:
			panic("invalid db op " + op)
		}
	}
	return s
}

func (it *Iterator) updateDb() {
	if it.Db == nil {
		return
	}

	tx, err := it.Db.Begin()
	if err != nil {
		panic(err.Error())
	}
	defer tx.Commit()

	s0 := "INSERT INTO " + TblParticles + " (particle,gen" + it.xdbsql("name") + ") VALUES (?,?" + it.xdbsql("?") + ");"
	s1 := "INSERT INTO " + TblBests + " (particle,gen" + it.xdbsql("name") + ") VALUES (?,?" + it.xdbsql("?") + ");"
	for _, p := range it.Pop {
		args := []interface{}{p.Id, it.count}
		args = append(args, sol2iface(p.Solution)...)
		_, err := tx.Exec(s0, args...)
		panicif(err)

		args = []interface{}{p.Id, it.count}
		args = append(args, sol2iface(p.Best)...)
		_, err = tx.Exec(s1, args...)
		panicif(err)
	}

	s2 := "INSERT INTO " + TblFront + " (gen" + it.xdbsql("name") + ") VALUES (?" + it.xdbsql("?") + ");"
	for _, s := range it.Leaders.Solutions() {
		args := []interface{}{it.count}
		args = append(args, sol2iface(s)...)
		_, err := tx.Exec(s2, args...)
		panicif(err)
	}
}

func sol2iface(s smpso.Solution) []interface{} {
	iface := []interface{}{}
	for _, v := range s.Var {
		iface = append(iface, v)
	}
	for _, v := range s.Obj {
		iface = append(iface, v)
	}
	return iface
}

// TODO: thread db errors through Iterate's error return instead
func panicif(err error) {
	if err != nil {
		panic(err.Error())
	}
}
