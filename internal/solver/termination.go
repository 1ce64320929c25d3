package solver

import (
	"math"
	"time"
)

// Termination decides, once per generation after the snapshot is recorded,
// whether the loop stops. Exactly one policy is active per solve.
type Termination func(c *Ctx) bool

// MaxGenerations stops after n completed generations. The history will hold
// exactly n snapshots.
func MaxGenerations(n int) Termination {
	return func(c *Ctx) bool {
		return c.Gen >= n
	}
}

// TargetFitness stops once the representative best fitness reaches target,
// with maxGen as the safety bound against objectives that never get there.
func TargetFitness(target float64, maxGen int) Termination {
	return func(c *Ctx) bool {
		if c.Gen >= maxGen {
			return true
		}
		_, ys := c.Best.Result()
		return ys.Eval() <= target
	}
}

// Predicate wraps an arbitrary stopping condition over the context, e.g.
// "no improvement for N generations".
func Predicate(f func(c *Ctx) bool) Termination {
	return Termination(f)
}

// MaxDuration stops once the wall clock budget is spent. The clock starts on
// the first generation, so cancellation stays cooperative and is only
// observed at generation boundaries.
func MaxDuration(d time.Duration) Termination {
	var deadline time.Time
	return func(c *Ctx) bool {
		if deadline.IsZero() {
			deadline = time.Now().Add(d)
			return false
		}
		return !time.Now().Before(deadline)
	}
}

// Stall stops after patience consecutive generations without at least
// threshold relative improvement of the best fitness.
func Stall(patience int, threshold float64) Termination {
	var last float64
	stale := 0
	primed := false
	return func(c *Ctx) bool {
		_, ys := c.Best.Result()
		cur := ys.Eval()
		if !primed {
			primed = true
			last = cur
			return false
		}
		// Normalize by |last| so improvement keeps its sign for negative
		// baselines. Sanitized fitness leaves +Inf as the only non-finite
		// baseline; a zero baseline falls back to absolute improvement.
		var improved bool
		switch {
		case math.IsInf(last, 1):
			improved = !math.IsInf(cur, 1)
		case last == 0:
			improved = -cur >= threshold
		default:
			improved = (last-cur)/math.Abs(last) >= threshold
		}
		if improved {
			last = cur
			stale = 0
			return false
		}
		stale++
		return stale >= patience
	}
}
