package methods

import (
	"fmt"

	"github.com/cwbudde/natureopt/internal/rng"
	"github.com/cwbudde/natureopt/internal/solver"
)

// DEStrategy selects the trial-vector formula and crossover scheme.
//
// Variable formulas, where v0..v4 are mutually distinct random individuals:
//
//	f1: best + F*(v0 - v1)
//	f2: v0 + F*(v1 - v2)
//	f3: self + F*(best - self + v0 - v1)
//	f4: best + F*(v0 + v1 - v2 - v3)
//	f5: v4 + F*(v0 + v1 - v2 - v3)
//
// S1..S5 pair the formulas with sequential crossover (crossing continues from
// a random start gene until the first probability failure); S6..S10 pair them
// with independent per-gene crossover.
type DEStrategy int

const (
	S1 DEStrategy = iota + 1
	S2
	S3
	S4
	S5
	S6
	S7
	S8
	S9
	S10
)

// DEConfig holds the Differential Evolution settings.
type DEConfig struct {
	Strategy DEStrategy `json:"strategy"`
	// F scales the difference vectors.
	F float64 `json:"f"`
	// CR is the per-gene crossover rate.
	CR float64 `json:"cr"`
}

// DefaultDEConfig returns the stock settings: S1, F 0.6, CR 0.9.
func DefaultDEConfig() DEConfig {
	return DEConfig{Strategy: S1, F: 0.6, CR: 0.9}
}

// Validate reports construction errors in the settings.
func (c DEConfig) Validate() error {
	if c.Strategy < S1 || c.Strategy > S10 {
		return fmt.Errorf("methods: unknown DE strategy %d", c.Strategy)
	}
	if c.F <= 0 || c.F > 2 {
		return fmt.Errorf("methods: DE difference factor must lie in (0, 2], got %v", c.F)
	}
	return checkProbability("DE crossover rate", c.CR)
}

// DE is the Differential Evolution strategy.
type DE struct {
	cfg DEConfig
}

// NewDE validates the settings and returns the strategy.
func NewDE(cfg DEConfig) (*DE, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &DE{cfg: cfg}, nil
}

func (d *DE) Init(*solver.Ctx, *rng.Rng) {}

func (d *DE) Generation(c *solver.Ctx, _ *rng.Rng) {
	pool, poolY := c.ClonePool()
	c.ForEach(func(i int, g *rng.Rng) {
		formula := d.formula(c, g, i)
		trial := append([]float64(nil), c.Pool[i]...)
		if d.cfg.Strategy <= S5 {
			d.crossSequential(c, g, trial, formula)
		} else {
			d.crossIndependent(c, g, trial, formula)
		}
		ys := c.Fitness(trial)
		if ys.Dominates(poolY[i]) {
			pool[i] = trial
			poolY[i] = ys
		}
	})
	c.Pool, c.PoolY = pool, poolY
}

// formula builds the per-gene trial value function for target i. The random
// indices and the best sample are fixed per target, matching one mutation
// vector per trial.
func (d *DE) formula(c *solver.Ctx, g *rng.Rng, i int) func(s int) float64 {
	f := d.cfg.F
	pool := c.Pool
	switch d.cfg.Strategy {
	case S1, S6:
		v := g.Distinct(2, c.PopSize())
		best := sampleBest(c, g)
		return func(s int) float64 {
			return best[s] + f*(pool[v[0]][s]-pool[v[1]][s])
		}
	case S2, S7:
		v := g.Distinct(3, c.PopSize())
		return func(s int) float64 {
			return pool[v[0]][s] + f*(pool[v[1]][s]-pool[v[2]][s])
		}
	case S3, S8:
		v := g.Distinct(2, c.PopSize())
		best := sampleBest(c, g)
		self := pool[i]
		return func(s int) float64 {
			return self[s] + f*(best[s]-self[s]+pool[v[0]][s]-pool[v[1]][s])
		}
	case S4, S9:
		v := g.Distinct(4, c.PopSize())
		best := sampleBest(c, g)
		return func(s int) float64 {
			return best[s] + f*(pool[v[0]][s]+pool[v[1]][s]-pool[v[2]][s]-pool[v[3]][s])
		}
	default: // S5, S10
		v := g.Distinct(5, c.PopSize())
		return func(s int) float64 {
			return pool[v[4]][s] + f*(pool[v[0]][s]+pool[v[1]][s]-pool[v[2]][s]-pool[v[3]][s])
		}
	}
}

// crossSequential walks the genes from a random start and keeps crossing
// until the first probability failure.
func (d *DE) crossSequential(c *solver.Ctx, g *rng.Rng, trial []float64, formula func(int) float64) {
	dim := c.Dim()
	start := g.Intn(dim)
	for k := 0; k < dim; k++ {
		if !g.Maybe(d.cfg.CR) {
			break
		}
		s := (start + k) % dim
		trial[s] = g.Within(formula(s), c.LB(s), c.UB(s))
	}
}

// crossIndependent gives every gene an independent crossing probability.
func (d *DE) crossIndependent(c *solver.Ctx, g *rng.Rng, trial []float64, formula func(int) float64) {
	for s := 0; s < c.Dim(); s++ {
		if g.Maybe(d.cfg.CR) {
			trial[s] = g.Within(formula(s), c.LB(s), c.UB(s))
		}
	}
}

// sampleBest returns a copy of one best-container member's parameters: the
// best element in single-objective mode, a random front member otherwise.
func sampleBest(c *solver.Ctx, g *rng.Rng) []float64 {
	xs, _ := c.Best.Sample(g)
	return append([]float64(nil), xs...)
}

var _ solver.Algorithm = (*DE)(nil)
