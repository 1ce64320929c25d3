package solver

import (
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"github.com/cwbudde/natureopt/internal/objective"
	"github.com/cwbudde/natureopt/internal/pareto"
	"github.com/cwbudde/natureopt/internal/rng"
)

// Ctx is the mutable state threaded through the generation loop: bounds, the
// population pool and its fitness values, the generation counter, the best
// container, and the run-scoped RNG root. One Ctx exists per solve.
//
// Within a generation, strategies may write distinct individuals concurrently
// through ForEach; only the sequential driver mutates the pool structure
// between generations.
type Ctx struct {
	Bounds []objective.Bound
	Pool   [][]float64
	PoolY  []objective.Fitness
	Gen    int
	Best   pareto.Best

	obj     objective.Objective
	seed    uint64
	workers int
	numObj  int
}

// PoolInit generates one initial parameter value for dimension s.
type PoolInit func(s int, b objective.Bound, g *rng.Rng) float64

// UniformInit draws every initial parameter uniformly within its bound.
func UniformInit() PoolInit {
	return func(_ int, b objective.Bound, g *rng.Rng) float64 {
		return g.Uniform(b.Low, b.High)
	}
}

// GaussianInit draws initial parameters from per-dimension Gaussians, clamped
// to the bounds. Used to warm-start a run around a known good point, e.g. a
// checkpointed best.
func GaussianInit(mean, std []float64) PoolInit {
	return func(s int, b objective.Bound, g *rng.Rng) float64 {
		return b.Clamp(g.Normal(mean[s], std[s]))
	}
}

func newCtx(obj objective.Objective, popSize, workers, paretoLimit int, init PoolInit, root *rng.Rng) (*Ctx, error) {
	bounds := obj.Bounds()
	if err := objective.ValidateBounds(bounds); err != nil {
		return nil, err
	}

	c := &Ctx{
		Bounds:  bounds,
		Pool:    make([][]float64, popSize),
		PoolY:   make([]objective.Fitness, popSize),
		obj:     obj,
		seed:    root.Seed(),
		workers: workers,
	}
	// Pool generation consumes the root stream sequentially; the expensive
	// part, evaluation, is parallelized below.
	for i := range c.Pool {
		xs := make([]float64, len(bounds))
		for s, b := range bounds {
			xs[s] = b.Clamp(init(s, b, root))
		}
		c.Pool[i] = xs
	}
	c.EvaluateAll()

	c.numObj = len(c.PoolY[0])
	if c.numObj == 0 {
		return nil, fmt.Errorf("solver: objective returned an empty fitness vector")
	}
	c.Best = pareto.New(c.numObj, paretoLimit)
	c.UpdateBest()
	return c, nil
}

// Dim returns the number of parameter dimensions.
func (c *Ctx) Dim() int { return len(c.Bounds) }

// PopSize returns the population size.
func (c *Ctx) PopSize() int { return len(c.Pool) }

// NumObjectives returns the fitness vector length (1 = single objective).
func (c *Ctx) NumObjectives() int { return c.numObj }

// Fitness evaluates the objective at xs and sanitizes non-finite values. It
// is pure and safe to call concurrently with disjoint inputs.
func (c *Ctx) Fitness(xs []float64) objective.Fitness {
	return c.obj.Evaluate(xs).Sanitize()
}

// Stream derives the RNG stream for individual i in the current generation.
// The stream id is a pure function of (seed, generation, index), so parallel
// and sequential execution draw identical values.
func (c *Ctx) Stream(i int) *rng.Rng {
	id := 1 + uint64(c.Gen)*uint64(len(c.Pool)) + uint64(i)
	return rng.New(c.seed).Stream(id)
}

// ForEach runs fn once per individual, each with its own derived RNG stream.
// With more than one configured worker the calls run on a bounded goroutine
// pool; fn must confine its writes to individual i.
func (c *Ctx) ForEach(fn func(i int, g *rng.Rng)) {
	if c.workers <= 1 {
		for i := range c.Pool {
			fn(i, c.Stream(i))
		}
		return
	}
	p := pool.New().WithMaxGoroutines(c.workers)
	for i := range c.Pool {
		i := i
		p.Go(func() {
			fn(i, c.Stream(i))
		})
	}
	p.Wait()
}

// EvaluateAll recomputes the fitness of every individual from its current
// parameters. Each task reads one individual and writes only that
// individual's fitness, so the parallel mode needs no locking.
func (c *Ctx) EvaluateAll() {
	c.ForEach(func(i int, _ *rng.Rng) {
		c.PoolY[i] = c.Fitness(c.Pool[i])
	})
}

// UpdateBest folds the whole pool into the best container in index order.
func (c *Ctx) UpdateBest() {
	for i := range c.Pool {
		c.Best.Offer(c.Pool[i], c.PoolY[i])
	}
}

// SetFrom replaces individual i with the given parameters and fitness.
func (c *Ctx) SetFrom(i int, xs []float64, ys objective.Fitness) {
	c.Pool[i] = xs
	c.PoolY[i] = ys
}

// LB returns the lower bound of dimension s.
func (c *Ctx) LB(s int) float64 { return c.Bounds[s].Low }

// UB returns the upper bound of dimension s.
func (c *Ctx) UB(s int) float64 { return c.Bounds[s].High }

// Clamp snaps v into the bound of dimension s.
func (c *Ctx) Clamp(s int, v float64) float64 { return c.Bounds[s].Clamp(v) }

// BestResult returns the representative best parameters and fitness.
func (c *Ctx) BestResult() ([]float64, objective.Fitness) {
	return c.Best.Result()
}

// ClonePool returns deep copies of the pool and its fitness values, used by
// strategies that build the next generation from a snapshot of the current
// one.
func (c *Ctx) ClonePool() ([][]float64, []objective.Fitness) {
	xs := make([][]float64, len(c.Pool))
	ys := make([]objective.Fitness, len(c.PoolY))
	for i := range c.Pool {
		xs[i] = append([]float64(nil), c.Pool[i]...)
		ys[i] = c.PoolY[i].Clone()
	}
	return xs, ys
}
