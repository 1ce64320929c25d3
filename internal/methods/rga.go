package methods

import (
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/natureopt/internal/objective"
	"github.com/cwbudde/natureopt/internal/rng"
	"github.com/cwbudde/natureopt/internal/solver"
)

// RGAConfig holds the real-coded genetic search settings.
type RGAConfig struct {
	// Cross is the per-pair crossover probability.
	Cross float64 `json:"cross"`
	// Mutate is the per-individual mutation probability.
	Mutate float64 `json:"mutate"`
	// Win is the probability that the fitter tournament contestant wins.
	Win float64 `json:"win"`
	// Delta shapes how quickly the mutation step shrinks over the run.
	Delta float64 `json:"delta"`
	// Budget is the expected generation budget used to anneal the mutation
	// step. 0 disables annealing and keeps the step at full strength.
	Budget int `json:"budget,omitempty"`
}

// DefaultRGAConfig returns the stock settings: cross 0.95, mutate 0.05,
// win 0.95, delta 5.
func DefaultRGAConfig() RGAConfig {
	return RGAConfig{Cross: 0.95, Mutate: 0.05, Win: 0.95, Delta: 5}
}

// Validate reports construction errors in the settings.
func (c RGAConfig) Validate() error {
	if err := checkProbability("RGA crossover probability", c.Cross); err != nil {
		return err
	}
	if err := checkProbability("RGA mutation probability", c.Mutate); err != nil {
		return err
	}
	if err := checkProbability("RGA winning probability", c.Win); err != nil {
		return err
	}
	if c.Delta <= 0 {
		return fmt.Errorf("methods: RGA delta factor must be positive, got %v", c.Delta)
	}
	if c.Budget < 0 {
		return fmt.Errorf("methods: RGA generation budget must not be negative, got %d", c.Budget)
	}
	return nil
}

// RGA is the real-coded genetic strategy: tournament selection, blend
// crossover producing three candidates per pair, and an annealed boundary
// mutation, with the best-known solution re-inserted each generation.
type RGA struct {
	cfg      RGAConfig
	newPool  [][]float64
	newPoolY []objective.Fitness
}

// NewRGA validates the settings and returns the strategy.
func NewRGA(cfg RGAConfig) (*RGA, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &RGA{cfg: cfg}, nil
}

func (r *RGA) Init(c *solver.Ctx, _ *rng.Rng) {
	r.newPool, r.newPoolY = c.ClonePool()
}

func (r *RGA) Generation(c *solver.Ctx, g *rng.Rng) {
	r.selection(c, g)
	r.crossover(c, g)
	r.mutation(c, g)
}

// selection fills the next pool with tournament winners and re-inserts the
// best-known solution at a random slot (elitism).
func (r *RGA) selection(c *solver.Ctx, g *rng.Rng) {
	for i := range r.newPool {
		j := g.Intn(c.PopSize())
		k := g.Intn(c.PopSize())
		winner := j
		if c.PoolY[k].Dominates(c.PoolY[j]) && g.Maybe(r.cfg.Win) {
			winner = k
		}
		copy(r.newPool[i], c.Pool[winner])
		r.newPoolY[i] = c.PoolY[winner].Clone()
	}
	for i := range c.Pool {
		copy(c.Pool[i], r.newPool[i])
		c.PoolY[i] = r.newPoolY[i]
	}
	elite := g.Intn(c.PopSize())
	xs, ys := c.Best.Sample(g)
	copy(c.Pool[elite], xs)
	c.PoolY[elite] = ys.Clone()
}

// crossover blends adjacent pairs into three candidates (average, and the two
// 1.5/-0.5 extrapolations repaired into bounds), then keeps the two fittest.
func (r *RGA) crossover(c *solver.Ctx, g *rng.Rng) {
	dim := c.Dim()
	for i := 0; i+1 < c.PopSize(); i += 2 {
		if !g.Maybe(r.cfg.Cross) {
			continue
		}
		cands := make([][]float64, 3)
		for k := range cands {
			cands[k] = make([]float64, dim)
		}
		for s := 0; s < dim; s++ {
			a, b := c.Pool[i][s], c.Pool[i+1][s]
			cands[0][s] = 0.5*a + 0.5*b
			cands[1][s] = g.Within(1.5*a-0.5*b, c.LB(s), c.UB(s))
			cands[2][s] = g.Within(-0.5*a+1.5*b, c.LB(s), c.UB(s))
		}
		ys := make([]objective.Fitness, 3)
		for k := range cands {
			ys[k] = c.Fitness(cands[k])
		}
		order := []int{0, 1, 2}
		sort.Slice(order, func(a, b int) bool {
			return ys[order[a]].Eval() < ys[order[b]].Eval()
		})
		c.SetFrom(i, cands[order[0]], ys[order[0]])
		c.SetFrom(i+1, cands[order[1]], ys[order[1]])
	}
}

// mutation nudges one random gene per selected individual toward a bound,
// with the step annealed toward zero as the run approaches its budget.
func (r *RGA) mutation(c *solver.Ctx, g *rng.Rng) {
	for i := range c.Pool {
		if !g.Maybe(r.cfg.Mutate) {
			continue
		}
		s := g.Intn(c.Dim())
		x := c.Pool[i][s]
		if g.Maybe(0.5) {
			c.Pool[i][s] = x + r.step(c, g, c.UB(s)-x)
		} else {
			c.Pool[i][s] = x - r.step(c, g, x-c.LB(s))
		}
		c.PoolY[i] = c.Fitness(c.Pool[i])
	}
}

func (r *RGA) step(c *solver.Ctx, g *rng.Rng, span float64) float64 {
	progress := 0.0
	if r.cfg.Budget > 0 {
		progress = math.Min(1, float64(c.Gen)/float64(r.cfg.Budget))
	}
	return span * g.Float() * math.Pow(1-progress, r.cfg.Delta)
}

var _ solver.Algorithm = (*RGA)(nil)
