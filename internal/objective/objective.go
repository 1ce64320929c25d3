// Package objective defines the contract between the solver and user-supplied
// objective functions, plus the fitness value type shared by every search
// strategy.
package objective

import (
	"math"
	"strconv"
)

// Bound is the inclusive box constraint for one parameter dimension.
type Bound struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Width returns the size of the interval.
func (b Bound) Width() float64 { return b.High - b.Low }

// Clamp snaps v into [Low, High].
func (b Bound) Clamp(v float64) float64 {
	if v < b.Low {
		return b.Low
	}
	if v > b.High {
		return b.High
	}
	return v
}

// Contains reports whether v lies inside [Low, High].
func (b Bound) Contains(v float64) bool {
	return v >= b.Low && v <= b.High
}

// Objective is the user-supplied function to minimize. Evaluate must be pure
// and callable concurrently with disjoint inputs; it returns one value per
// objective (length 1 for single-objective problems). +Inf marks an infeasible
// point.
type Objective interface {
	Bounds() []Bound
	Evaluate(xs []float64) Fitness
}

// Func adapts a plain function and a bounds slice into an Objective.
type Func struct {
	B    []Bound
	Eval func(xs []float64) Fitness
}

func (f Func) Bounds() []Bound { return f.B }

func (f Func) Evaluate(xs []float64) Fitness { return f.Eval(xs) }

// Scalar wraps a single-valued function into an Objective.
func Scalar(bounds []Bound, eval func(xs []float64) float64) Objective {
	return Func{B: bounds, Eval: func(xs []float64) Fitness {
		return Fitness{eval(xs)}
	}}
}

// UniformBounds returns dim copies of the same interval.
func UniformBounds(dim int, low, high float64) []Bound {
	bs := make([]Bound, dim)
	for i := range bs {
		bs[i] = Bound{Low: low, High: high}
	}
	return bs
}

// ValidateBounds checks low <= high for every dimension and a non-zero
// dimension count. Returned errors are construction errors, surfaced before
// any generation runs.
func ValidateBounds(bs []Bound) error {
	if len(bs) == 0 {
		return errEmptyBounds
	}
	for i, b := range bs {
		if b.Low > b.High || math.IsNaN(b.Low) || math.IsNaN(b.High) {
			return &BoundError{Dim: i, Bound: b}
		}
	}
	return nil
}

var errEmptyBounds = &BoundError{Dim: -1}

// BoundError reports an invalid bound at construction time.
type BoundError struct {
	Dim   int
	Bound Bound
}

func (e *BoundError) Error() string {
	if e.Dim < 0 {
		return "objective: bounds must have at least one dimension"
	}
	return "objective: invalid bound at dimension " + strconv.Itoa(e.Dim)
}
