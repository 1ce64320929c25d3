// Package solver drives the generation loop of a population-based
// metaheuristic: it owns the run context, the termination policy, the
// per-generation history, and the reproducible RNG root, while the concrete
// search strategy stays behind the Algorithm interface.
package solver

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/natureopt/internal/objective"
	"github.com/cwbudde/natureopt/internal/pareto"
	"github.com/cwbudde/natureopt/internal/rng"
)

// Algorithm is the capability set a search strategy must provide. Init may
// capture per-strategy state from the freshly seeded context; Generation
// performs exactly one generation's worth of transformation. The driver never
// inspects which concrete strategy it holds.
type Algorithm interface {
	Init(c *Ctx, g *rng.Rng)
	Generation(c *Ctx, g *rng.Rng)
}

// ErrSolved is returned when Solve is invoked a second time on one Solver.
var ErrSolved = errors.New("solver: Solve may only be called once per instance")

// Config collects the run options that are not part of the strategy itself.
type Config struct {
	// PopSize is the population size; must be > 1. 0 selects the default.
	PopSize int
	// Seed is the run seed. Seed 0 is valid and reproducible like any other.
	Seed uint64
	// Workers bounds the goroutine pool for fitness evaluation.
	// 0 or 1 means fully sequential. Results are identical either way.
	Workers int
	// ParetoLimit caps the multi-objective front size (0 = unbounded).
	ParetoLimit int
	// Init generates the starting population; nil means uniform within bounds.
	Init PoolInit
	// Callback is invoked once per generation with a read-only view of the
	// context, after the history snapshot is recorded.
	Callback func(c *Ctx)
}

// DefaultPopSize is used when Config.PopSize is zero.
const DefaultPopSize = 200

// Snapshot is one per-generation history entry.
type Snapshot struct {
	Gen         int               `json:"gen"`
	BestFitness objective.Fitness `json:"bestFitness"`
	Mean        float64           `json:"mean"`
	FrontSize   int               `json:"frontSize,omitempty"`
	Elapsed     time.Duration     `json:"elapsed"`
}

// FrontEntry pairs one Pareto-front member's parameters with its fitness.
type FrontEntry struct {
	Params  []float64         `json:"params"`
	Fitness objective.Fitness `json:"fitness"`
}

// Result is the immutable outcome of a completed solve.
type Result struct {
	BestParams  []float64         `json:"bestParams"`
	BestFitness objective.Fitness `json:"bestFitness"`
	// Front holds the full Pareto set for multi-objective runs, nil otherwise.
	Front       []FrontEntry  `json:"front,omitempty"`
	History     []Snapshot    `json:"history"`
	Generations int           `json:"generations"`
	Seed        uint64        `json:"seed"`
	Elapsed     time.Duration `json:"elapsed"`
}

// Solver binds an algorithm, an objective, and a termination policy into a
// single-use run. Build it with New, run it with Solve.
type Solver struct {
	alg    Algorithm
	obj    objective.Objective
	term   Termination
	cfg    Config
	solved bool
}

// New validates the configuration eagerly and returns a ready Solver. All
// construction errors surface here, before any generation runs.
func New(alg Algorithm, obj objective.Objective, term Termination, cfg Config) (*Solver, error) {
	if alg == nil {
		return nil, fmt.Errorf("solver: algorithm must not be nil")
	}
	if obj == nil {
		return nil, fmt.Errorf("solver: objective must not be nil")
	}
	if term == nil {
		return nil, fmt.Errorf("solver: termination policy must not be nil")
	}
	if err := objective.ValidateBounds(obj.Bounds()); err != nil {
		return nil, err
	}
	if cfg.PopSize == 0 {
		cfg.PopSize = DefaultPopSize
	}
	if cfg.PopSize <= 1 {
		return nil, fmt.Errorf("solver: population size must be > 1, got %d", cfg.PopSize)
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("solver: worker count must not be negative, got %d", cfg.Workers)
	}
	if cfg.Init == nil {
		cfg.Init = UniformInit()
	}
	return &Solver{alg: alg, obj: obj, term: term, cfg: cfg}, nil
}

// Solve runs the generation loop to termination and returns the result.
// A second invocation returns ErrSolved.
func (s *Solver) Solve() (*Result, error) {
	if s.solved {
		return nil, ErrSolved
	}
	s.solved = true

	start := time.Now()
	root := rng.New(s.cfg.Seed)
	ctx, err := newCtx(s.obj, s.cfg.PopSize, s.cfg.Workers, s.cfg.ParetoLimit, s.cfg.Init, root)
	if err != nil {
		return nil, err
	}
	s.alg.Init(ctx, root)

	slog.Debug("Population initialized",
		"pop", ctx.PopSize(), "dim", ctx.Dim(), "objectives", ctx.NumObjectives(), "seed", s.cfg.Seed)

	var history []Snapshot
	for {
		ctx.Gen++
		s.alg.Generation(ctx, root)
		ctx.UpdateBest()
		history = append(history, s.snapshot(ctx, start))
		if s.cfg.Callback != nil {
			s.cfg.Callback(ctx)
		}
		if s.term(ctx) {
			break
		}
	}

	xs, ys := ctx.BestResult()
	res := &Result{
		BestParams:  append([]float64(nil), xs...),
		BestFitness: ys.Clone(),
		History:     history,
		Generations: ctx.Gen,
		Seed:        s.cfg.Seed,
		Elapsed:     time.Since(start),
	}
	if front, ok := ctx.Best.(*pareto.Front); ok {
		fxs, fys := front.Entries()
		res.Front = make([]FrontEntry, len(fxs))
		for i := range fxs {
			res.Front[i] = FrontEntry{Params: fxs[i], Fitness: fys[i]}
		}
	}

	slog.Info("Solve complete",
		"generations", res.Generations,
		"best", res.BestFitness.Eval(),
		"front_size", len(res.Front),
		"elapsed", res.Elapsed)
	return res, nil
}

// snapshot records the per-generation history entry. The mean covers only
// feasible individuals so one +Inf sentinel does not wipe the statistic.
func (s *Solver) snapshot(ctx *Ctx, start time.Time) Snapshot {
	_, ys := ctx.BestResult()
	finite := make([]float64, 0, len(ctx.PoolY))
	for _, y := range ctx.PoolY {
		if y.Feasible() {
			finite = append(finite, y.Eval())
		}
	}
	var mean float64
	if len(finite) > 0 {
		mean = stat.Mean(finite, nil)
	}
	snap := Snapshot{
		Gen:         ctx.Gen,
		BestFitness: ys.Clone(),
		Mean:        mean,
		Elapsed:     time.Since(start),
	}
	if ctx.NumObjectives() > 1 {
		snap.FrontSize = ctx.Best.Len()
	}
	return snap
}
