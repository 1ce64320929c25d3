// Package pareto holds the best-solution containers: a single-best tracker for
// scalar fitness and a non-dominated front for multi-objective runs. Both sit
// behind the Best interface so the solver never branches on the mode.
package pareto

import (
	"math"
	"sort"

	"github.com/cwbudde/natureopt/internal/objective"
	"github.com/cwbudde/natureopt/internal/rng"
)

// Best is a container for the best solutions seen so far. Offer folds a newly
// evaluated individual in; membership can only be lost by being dominated,
// never by aging out.
type Best interface {
	// Offer attempts to record the individual. The container copies xs and ys.
	Offer(xs []float64, ys objective.Fitness)
	// Result returns the representative best element.
	// Calling it on an empty container is a contract violation.
	Result() ([]float64, objective.Fitness)
	// Sample returns a uniformly chosen member. For a single-best container
	// this is the best element itself.
	Sample(g *rng.Rng) ([]float64, objective.Fitness)
	// Len is the number of stored members.
	Len() int
}

// New returns the container matching the number of objectives: a SingleBest
// for one objective, otherwise a Front capped at limit (0 = unbounded).
func New(numObjectives, limit int) Best {
	if numObjectives <= 1 {
		return &SingleBest{}
	}
	return &Front{limit: limit}
}

// SingleBest tracks the single lowest-fitness solution.
type SingleBest struct {
	xs []float64
	ys objective.Fitness
}

func (b *SingleBest) Offer(xs []float64, ys objective.Fitness) {
	if b.xs == nil || ys.Dominates(b.ys) {
		b.xs = append([]float64(nil), xs...)
		b.ys = ys.Clone()
	}
}

func (b *SingleBest) Result() ([]float64, objective.Fitness) {
	if b.xs == nil {
		panic("pareto: no best element available")
	}
	return b.xs, b.ys
}

func (b *SingleBest) Sample(_ *rng.Rng) ([]float64, objective.Fitness) {
	return b.Result()
}

func (b *SingleBest) Len() int {
	if b.xs == nil {
		return 0
	}
	return 1
}

// Front is the maximal mutually non-dominated set of all offered individuals.
// When limit > 0 and an insertion would exceed it, the most crowded member is
// pruned so the front keeps its spread.
type Front struct {
	xs    [][]float64
	ys    []objective.Fitness
	limit int
}

// NewFront returns an empty front capped at limit members (0 = unbounded).
func NewFront(limit int) *Front {
	return &Front{limit: limit}
}

func (f *Front) Offer(xs []float64, ys objective.Fitness) {
	for _, member := range f.ys {
		if member.Dominates(ys) || equal(member, ys) {
			return
		}
	}
	// Drop every member the candidate dominates.
	keepXs := f.xs[:0]
	keepYs := f.ys[:0]
	for i, member := range f.ys {
		if !ys.Dominates(member) {
			keepXs = append(keepXs, f.xs[i])
			keepYs = append(keepYs, member)
		}
	}
	f.xs = append(keepXs, append([]float64(nil), xs...))
	f.ys = append(keepYs, ys.Clone())

	if f.limit > 0 && len(f.xs) > f.limit {
		f.pruneMostCrowded()
	}
}

func (f *Front) Result() ([]float64, objective.Fitness) {
	if len(f.xs) == 0 {
		panic("pareto: no best element available")
	}
	best := 0
	for i := 1; i < len(f.ys); i++ {
		if f.ys[i].Eval() < f.ys[best].Eval() {
			best = i
		}
	}
	return f.xs[best], f.ys[best]
}

func (f *Front) Sample(g *rng.Rng) ([]float64, objective.Fitness) {
	if len(f.xs) == 0 {
		panic("pareto: no best element available")
	}
	i := g.Intn(len(f.xs))
	return f.xs[i], f.ys[i]
}

func (f *Front) Len() int { return len(f.xs) }

// Entries returns copies of all front members, parameters paired with fitness.
func (f *Front) Entries() ([][]float64, []objective.Fitness) {
	xs := make([][]float64, len(f.xs))
	ys := make([]objective.Fitness, len(f.ys))
	for i := range f.xs {
		xs[i] = append([]float64(nil), f.xs[i]...)
		ys[i] = f.ys[i].Clone()
	}
	return xs, ys
}

// pruneMostCrowded removes the member with the smallest crowding distance.
// Boundary members per objective carry infinite distance and are never pruned.
func (f *Front) pruneMostCrowded() {
	n := len(f.ys)
	dist := make([]float64, n)
	order := make([]int, n)
	numObj := len(f.ys[0])

	for m := 0; m < numObj; m++ {
		for i := range order {
			order[i] = i
		}
		sort.Slice(order, func(a, b int) bool {
			return f.ys[order[a]][m] < f.ys[order[b]][m]
		})
		span := f.ys[order[n-1]][m] - f.ys[order[0]][m]
		dist[order[0]] = math.Inf(1)
		dist[order[n-1]] = math.Inf(1)
		if span == 0 {
			continue
		}
		for i := 1; i < n-1; i++ {
			gap := (f.ys[order[i+1]][m] - f.ys[order[i-1]][m]) / span
			if !math.IsInf(dist[order[i]], 1) {
				dist[order[i]] += gap
			}
		}
	}

	victim := 0
	for i := 1; i < n; i++ {
		if dist[i] < dist[victim] {
			victim = i
		}
	}
	f.xs = append(f.xs[:victim], f.xs[victim+1:]...)
	f.ys = append(f.ys[:victim], f.ys[victim+1:]...)
}

func equal(a, b objective.Fitness) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
