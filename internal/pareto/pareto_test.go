package pareto

import (
	"testing"

	"github.com/cwbudde/natureopt/internal/objective"
	"github.com/cwbudde/natureopt/internal/rng"
)

func TestSingleBestMonotone(t *testing.T) {
	b := New(1, 0)
	values := []float64{5, 3, 4, 2, 2, 7, 1}
	best := values[0]
	for _, v := range values {
		b.Offer([]float64{v}, objective.Fitness{v})
		if v < best {
			best = v
		}
		_, ys := b.Result()
		if ys[0] != best {
			t.Fatalf("best = %v after offering %v, want %v", ys[0], v, best)
		}
	}
}

func TestSingleBestCopiesInput(t *testing.T) {
	b := &SingleBest{}
	xs := []float64{1, 2}
	b.Offer(xs, objective.Fitness{1})
	xs[0] = 99
	got, _ := b.Result()
	if got[0] != 1 {
		t.Error("container must copy parameters, not alias them")
	}
}

func TestFrontMutualNonDomination(t *testing.T) {
	f := NewFront(0)
	g := rng.New(0)
	for i := 0; i < 200; i++ {
		a := g.Uniform(0, 1)
		f.Offer([]float64{a}, objective.Fitness{a, 1 - a})
	}
	_, ys := f.Entries()
	for i := range ys {
		for j := range ys {
			if i != j && ys[i].Dominates(ys[j]) {
				t.Fatalf("front member %v dominates member %v", ys[i], ys[j])
			}
		}
	}
	if f.Len() <= 1 {
		t.Fatalf("trade-off front collapsed to %d members", f.Len())
	}
}

func TestFrontMembershipSoundness(t *testing.T) {
	f := NewFront(0)
	offered := []objective.Fitness{
		{1, 4}, {2, 3}, {3, 2}, {4, 1},
		{2, 2}, // dominates {2,3} and {3,2}
		{5, 5}, // dominated by everything kept
	}
	for _, ys := range offered {
		f.Offer([]float64{ys[0]}, ys)
	}
	_, members := f.Entries()
	for _, ys := range offered {
		inFront := false
		for _, m := range members {
			if m[0] == ys[0] && m[1] == ys[1] {
				inFront = true
			}
		}
		if inFront {
			continue
		}
		dominated := false
		for _, m := range members {
			if m.Dominates(ys) {
				dominated = true
			}
		}
		if !dominated {
			t.Errorf("offered %v is neither in the front nor dominated by a member", ys)
		}
	}
}

func TestFrontRemovesDominated(t *testing.T) {
	f := NewFront(0)
	f.Offer([]float64{0}, objective.Fitness{3, 3})
	f.Offer([]float64{1}, objective.Fitness{1, 1})
	if f.Len() != 1 {
		t.Fatalf("dominating candidate should evict the member, len = %d", f.Len())
	}
	_, ys := f.Result()
	if ys[0] != 1 || ys[1] != 1 {
		t.Errorf("surviving member is %v, want {1 1}", ys)
	}
}

func TestFrontRejectsDominatedCandidate(t *testing.T) {
	f := NewFront(0)
	f.Offer([]float64{0}, objective.Fitness{1, 1})
	f.Offer([]float64{1}, objective.Fitness{2, 2})
	if f.Len() != 1 {
		t.Fatalf("dominated candidate must be rejected, len = %d", f.Len())
	}
}

func TestFrontDeduplicates(t *testing.T) {
	f := NewFront(0)
	f.Offer([]float64{0}, objective.Fitness{1, 2})
	f.Offer([]float64{0}, objective.Fitness{1, 2})
	if f.Len() != 1 {
		t.Fatalf("identical fitness offered twice should keep one member, len = %d", f.Len())
	}
}

func TestFrontLimitKeepsBoundaries(t *testing.T) {
	f := NewFront(5)
	for i := 0; i < 100; i++ {
		a := float64(i) / 99
		f.Offer([]float64{a}, objective.Fitness{a, 1 - a})
	}
	if f.Len() != 5 {
		t.Fatalf("front size = %d, want limit 5", f.Len())
	}
	_, ys := f.Entries()
	minA, maxA := 2.0, -1.0
	for _, m := range ys {
		if m[0] < minA {
			minA = m[0]
		}
		if m[0] > maxA {
			maxA = m[0]
		}
	}
	// Crowding pruning must retain the extreme trade-off points.
	if minA != 0 || maxA != 1 {
		t.Errorf("boundary members pruned: min %v max %v", minA, maxA)
	}
}

func TestFrontSample(t *testing.T) {
	f := NewFront(0)
	f.Offer([]float64{0}, objective.Fitness{0, 1})
	f.Offer([]float64{1}, objective.Fitness{1, 0})
	g := rng.New(4)
	seen := make(map[float64]bool)
	for i := 0; i < 50; i++ {
		xs, _ := f.Sample(g)
		seen[xs[0]] = true
	}
	if len(seen) != 2 {
		t.Errorf("sampling should eventually visit both members, saw %d", len(seen))
	}
}
