package methods

import (
	"fmt"

	"github.com/cwbudde/natureopt/internal/objective"
	"github.com/cwbudde/natureopt/internal/rng"
	"github.com/cwbudde/natureopt/internal/solver"
)

// PSOConfig holds the Particle Swarm settings.
type PSOConfig struct {
	// Cognition caps the random pull toward a particle's own historical best.
	Cognition float64 `json:"cognition"`
	// Social caps the random pull toward the population best.
	Social float64 `json:"social"`
	// Inertia damps the carried-over velocity.
	Inertia float64 `json:"inertia"`
}

// DefaultPSOConfig returns the stock settings: cognition 2.05, social 2.05,
// inertia 0.729 (the standard constriction value).
func DefaultPSOConfig() PSOConfig {
	return PSOConfig{Cognition: 2.05, Social: 2.05, Inertia: 0.729}
}

// Validate reports construction errors in the settings.
func (c PSOConfig) Validate() error {
	if c.Cognition <= 0 {
		return fmt.Errorf("methods: PSO cognition factor must be positive, got %v", c.Cognition)
	}
	if c.Social <= 0 {
		return fmt.Errorf("methods: PSO social factor must be positive, got %v", c.Social)
	}
	if c.Inertia <= 0 || c.Inertia >= 1 {
		return fmt.Errorf("methods: PSO inertia must lie in (0, 1), got %v", c.Inertia)
	}
	return nil
}

// PSO is the particle swarm strategy. Each particle carries a velocity vector
// and its own historical best alongside the shared population best.
type PSO struct {
	cfg   PSOConfig
	vel   [][]float64
	past  [][]float64
	pastY []objective.Fitness
}

// NewPSO validates the settings and returns the strategy.
func NewPSO(cfg PSOConfig) (*PSO, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &PSO{cfg: cfg}, nil
}

func (p *PSO) Init(c *solver.Ctx, _ *rng.Rng) {
	p.past, p.pastY = c.ClonePool()
	p.vel = make([][]float64, c.PopSize())
	for i := range p.vel {
		p.vel[i] = make([]float64, c.Dim())
	}
}

func (p *PSO) Generation(c *solver.Ctx, _ *rng.Rng) {
	c.ForEach(func(i int, g *rng.Rng) {
		alpha := g.Uniform(0, p.cfg.Cognition)
		beta := g.Uniform(0, p.cfg.Social)
		best := sampleBest(c, g)
		xs := c.Pool[i]
		for s := 0; s < c.Dim(); s++ {
			v := p.cfg.Inertia*p.vel[i][s] + alpha*(p.past[i][s]-xs[s]) + beta*(best[s]-xs[s])
			p.vel[i][s] = v
			xs[s] = c.Clamp(s, xs[s]+v)
		}
		ys := c.Fitness(xs)
		c.PoolY[i] = ys
		if ys.Dominates(p.pastY[i]) {
			copy(p.past[i], xs)
			p.pastY[i] = ys.Clone()
		}
	})
}

var _ solver.Algorithm = (*PSO)(nil)
