package methods

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/natureopt/internal/objective"
	"github.com/cwbudde/natureopt/internal/rng"
	"github.com/cwbudde/natureopt/internal/solver"
)

// FAConfig holds the Firefly settings.
type FAConfig struct {
	// Alpha scales the random jitter; it decays by AlphaDecay per generation.
	Alpha float64 `json:"alpha"`
	// AlphaDecay is the per-generation attenuation of Alpha.
	AlphaDecay float64 `json:"alphaDecay"`
	// BetaMin is the attraction strength at distance zero.
	BetaMin float64 `json:"betaMin"`
	// Gamma is the light-intensity decay with squared distance.
	Gamma float64 `json:"gamma"`
}

// DefaultFAConfig returns the stock settings: alpha 1.0 decaying by 0.95,
// betaMin 1.0, gamma 0.01.
func DefaultFAConfig() FAConfig {
	return FAConfig{Alpha: 1, AlphaDecay: 0.95, BetaMin: 1, Gamma: 0.01}
}

// Validate reports construction errors in the settings.
func (c FAConfig) Validate() error {
	if c.Alpha <= 0 {
		return fmt.Errorf("methods: FA alpha must be positive, got %v", c.Alpha)
	}
	if c.AlphaDecay <= 0 || c.AlphaDecay > 1 {
		return fmt.Errorf("methods: FA alpha decay must lie in (0, 1], got %v", c.AlphaDecay)
	}
	if c.BetaMin <= 0 {
		return fmt.Errorf("methods: FA beta min must be positive, got %v", c.BetaMin)
	}
	if c.Gamma <= 0 {
		return fmt.Errorf("methods: FA gamma must be positive, got %v", c.Gamma)
	}
	return nil
}

// FA is the firefly strategy: every individual is pulled toward each
// better-ranked individual, with attraction attenuated by distance and
// perturbed by a decaying random step.
type FA struct {
	cfg   FAConfig
	alpha float64
}

// NewFA validates the settings and returns the strategy.
func NewFA(cfg FAConfig) (*FA, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &FA{cfg: cfg, alpha: cfg.Alpha}, nil
}

func (f *FA) Init(*solver.Ctx, *rng.Rng) {}

func (f *FA) Generation(c *solver.Ctx, _ *rng.Rng) {
	pool, poolY := c.ClonePool()
	alpha := f.alpha
	c.ForEach(func(i int, g *rng.Rng) {
		for j := i + 1; j < c.PopSize(); j++ {
			cand, candY := f.moveFirefly(c, g, alpha, i, j)
			if candY.Dominates(poolY[i]) {
				pool[i] = cand
				poolY[i] = candY
			}
		}
	})
	c.Pool, c.PoolY = pool, poolY
	f.alpha *= f.cfg.AlphaDecay
}

// moveFirefly moves the dimmer of the pair (i, j) toward the brighter one and
// evaluates the resulting candidate. Both positions are read from the
// generation-start pool, so the all-pairs sweep is order-independent.
func (f *FA) moveFirefly(c *solver.Ctx, g *rng.Rng, alpha float64, i, j int) ([]float64, objective.Fitness) {
	a, b := c.Pool[i], c.Pool[j]
	if !c.PoolY[j].Dominates(c.PoolY[i]) {
		a, b = b, a
	}
	d := floats.Distance(a, b, 2)
	beta := f.cfg.BetaMin * math.Exp(-f.cfg.Gamma*d*d)

	xs := make([]float64, c.Dim())
	for s := range xs {
		step := alpha * c.Bounds[s].Width() * g.Uniform(-0.5, 0.5)
		xs[s] = c.Clamp(s, a[s]+beta*(b[s]-a[s])+step)
	}
	return xs, c.Fitness(xs)
}

var _ solver.Algorithm = (*FA)(nil)
