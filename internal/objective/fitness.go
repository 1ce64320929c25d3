package objective

import "math"

// Fitness is an ordered vector of objective values, all minimized. Length 1
// for single-objective problems.
type Fitness []float64

// Clone returns an independent copy.
func (f Fitness) Clone() Fitness {
	out := make(Fitness, len(f))
	copy(out, f)
	return out
}

// Dominates reports whether f is no worse than o in every objective and
// strictly better in at least one. For scalar fitness this reduces to f < o.
func (f Fitness) Dominates(o Fitness) bool {
	if len(f) != len(o) {
		return false
	}
	strict := false
	for i := range f {
		if f[i] > o[i] {
			return false
		}
		if f[i] < o[i] {
			strict = true
		}
	}
	return strict
}

// Eval folds the vector into one scalar used for ordering front members when
// a single representative is needed. Scalar fitness is returned as-is.
func (f Fitness) Eval() float64 {
	if len(f) == 1 {
		return f[0]
	}
	var sum float64
	for _, v := range f {
		sum += v
	}
	return sum
}

// Sanitize maps NaN and -Inf to +Inf in place and returns f. A non-finite
// value other than the +Inf infeasibility sentinel is a bug in the objective
// function; the search treats it as worse than any finite fitness instead of
// crashing.
func (f Fitness) Sanitize() Fitness {
	for i, v := range f {
		if math.IsNaN(v) || math.IsInf(v, -1) {
			f[i] = math.Inf(1)
		}
	}
	return f
}

// Feasible reports whether every objective value is finite.
func (f Fitness) Feasible() bool {
	for _, v := range f {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}
