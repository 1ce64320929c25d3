// Package rng provides the deterministic random number subsystem used by the
// solver. A root generator is created from a 64-bit seed; independent
// sub-streams are derived as a pure function of (seed, stream id), so the
// values drawn from stream k never depend on which other streams exist, in
// which order they are consumed, or on which goroutine they run.
package rng

import (
	exprand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// SplitMix64 constants (Vigna 2014). They give strong bit diffusion so that
// nearby (seed, id) pairs produce uncorrelated stream seeds. Seed 0 is as good
// as any other seed after mixing.
const (
	goldenGamma = 0x9e3779b97f4a7c15
	mixMul1     = 0xbf58476d1ce4e5b9
	mixMul2     = 0x94d049bb133111eb
)

// mix applies a SplitMix64-style finalizer to (seed, id).
func mix(seed, id uint64) uint64 {
	x := seed ^ (id + goldenGamma)
	x += goldenGamma
	x = (x ^ (x >> 30)) * mixMul1
	x = (x ^ (x >> 27)) * mixMul2
	x ^= x >> 31
	return x
}

// Rng is one deterministic random stream. It is not safe for concurrent use;
// derive one stream per goroutine instead of sharing.
type Rng struct {
	seed uint64
	id   uint64
	src  exprand.Source
	r    *exprand.Rand
}

// New returns the root stream (stream id 0) for the given run seed.
func New(seed uint64) *Rng {
	return newStream(seed, 0)
}

func newStream(seed, id uint64) *Rng {
	src := exprand.NewSource(mix(seed, id))
	return &Rng{seed: seed, id: id, src: src, r: exprand.New(src)}
}

// Stream derives the sub-stream with the given id from the run seed. Calling
// Stream with the same id always yields a generator producing the identical
// sequence, regardless of how much the receiver has been consumed.
func (g *Rng) Stream(id uint64) *Rng {
	return newStream(g.seed, id)
}

// Seed returns the run seed this stream was derived from.
func (g *Rng) Seed() uint64 { return g.seed }

// Float returns a value uniformly distributed in [0, 1).
func (g *Rng) Float() float64 {
	return g.r.Float64()
}

// Uniform returns a value uniformly distributed in [low, high).
// low > high is a caller contract violation.
func (g *Rng) Uniform(low, high float64) float64 {
	if low > high {
		panic("rng: inverted range")
	}
	return low + g.r.Float64()*(high-low)
}

// Normal samples a Gaussian with the given mean and standard deviation.
func (g *Rng) Normal(mean, std float64) float64 {
	return distuv.Normal{Mu: mean, Sigma: std, Src: g.src}.Rand()
}

// Intn returns a value uniformly distributed in [0, n).
func (g *Rng) Intn(n int) int {
	return g.r.Intn(n)
}

// Maybe returns true with probability p.
func (g *Rng) Maybe(p float64) bool {
	return g.r.Float64() < p
}

// Shuffle randomizes the order of n elements through the swap function.
func (g *Rng) Shuffle(n int, swap func(i, j int)) {
	g.r.Shuffle(n, swap)
}

// Distinct returns k distinct indices drawn uniformly from [0, n).
// k > n is a caller contract violation.
func (g *Rng) Distinct(k, n int) []int {
	if k > n {
		panic("rng: cannot draw more distinct indices than the range holds")
	}
	out := make([]int, 0, k)
	for len(out) < k {
		v := g.r.Intn(n)
		dup := false
		for _, o := range out {
			if o == v {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, v)
		}
	}
	return out
}

// Within keeps v when it already lies inside [low, high] and resamples
// uniformly from the range otherwise. Used by repair steps that must replace
// out-of-bound candidates without biasing toward the boundary.
func (g *Rng) Within(v, low, high float64) float64 {
	if v >= low && v <= high {
		return v
	}
	return g.Uniform(low, high)
}
