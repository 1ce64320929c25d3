package methods

import (
	"math"

	"github.com/cwbudde/natureopt/internal/rng"
	"github.com/cwbudde/natureopt/internal/solver"
)

// TLBO is the teaching-learning-based strategy. It has no tunable settings:
// each generation runs a teaching phase that pulls learners toward the
// best-known solution and away from the class mean, then a learning phase
// where each learner moves relative to a random classmate.
type TLBO struct{}

// NewTLBO returns the strategy.
func NewTLBO() *TLBO { return &TLBO{} }

func (t *TLBO) Init(*solver.Ctx, *rng.Rng) {}

func (t *TLBO) Generation(c *solver.Ctx, g *rng.Rng) {
	for i := range c.Pool {
		t.teach(c, g, i)
		t.learn(c, g, i)
	}
}

// teach moves learner i toward the teacher and away from the mean of the
// class, scaled by a teaching factor of 1 or 2.
func (t *TLBO) teach(c *solver.Ctx, g *rng.Rng, i int) {
	tf := math.Round(g.Uniform(1, 2))
	teacher, _ := c.Best.Sample(g)
	xs := make([]float64, c.Dim())
	for s := range xs {
		mean := 0.0
		for _, ind := range c.Pool {
			mean += ind[s]
		}
		mean /= float64(c.PopSize())
		xs[s] = c.Clamp(s, c.Pool[i][s]+g.Float()*(teacher[s]-tf*mean))
	}
	t.register(c, i, xs)
}

// learn moves learner i toward a random classmate that outperforms it, or
// away from one it outperforms.
func (t *TLBO) learn(c *solver.Ctx, g *rng.Rng, i int) {
	j := i
	for j == i {
		j = g.Intn(c.PopSize())
	}
	xs := make([]float64, c.Dim())
	for s := range xs {
		diff := c.Pool[i][s] - c.Pool[j][s]
		if c.PoolY[j].Dominates(c.PoolY[i]) {
			diff = -diff
		}
		xs[s] = c.Clamp(s, c.Pool[i][s]+g.Float()*diff)
	}
	t.register(c, i, xs)
}

// register accepts the move only when it improves learner i.
func (t *TLBO) register(c *solver.Ctx, i int, xs []float64) {
	ys := c.Fitness(xs)
	if ys.Dominates(c.PoolY[i]) {
		c.SetFrom(i, xs, ys)
	}
}

var _ solver.Algorithm = (*TLBO)(nil)
