// Package methods implements the built-in search strategies behind the
// solver.Algorithm interface: real-coded genetic search, differential
// evolution, particle swarm, firefly, and teaching-learning optimization.
// Each strategy validates its settings eagerly at construction.
package methods

import (
	"fmt"
	"strings"

	"github.com/cwbudde/natureopt/internal/solver"
)

// New constructs a strategy by name with its default settings.
func New(name string) (solver.Algorithm, error) {
	switch strings.ToLower(name) {
	case "rga":
		return NewRGA(DefaultRGAConfig())
	case "de":
		return NewDE(DefaultDEConfig())
	case "pso":
		return NewPSO(DefaultPSOConfig())
	case "fa":
		return NewFA(DefaultFAConfig())
	case "tlbo":
		return NewTLBO(), nil
	default:
		return nil, fmt.Errorf("methods: unknown strategy %q (have %s)", name, strings.Join(Names(), ", "))
	}
}

// Names lists the available strategy names.
func Names() []string {
	return []string{"rga", "de", "pso", "fa", "tlbo"}
}

// DefaultPopSize returns the population size a strategy was tuned for, used
// when the caller does not pin one.
func DefaultPopSize(name string) int {
	switch strings.ToLower(name) {
	case "rga":
		return 500
	case "de":
		return 400
	case "fa":
		return 80
	default:
		return solver.DefaultPopSize
	}
}

func checkProbability(name string, v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("methods: %s must lie in [0, 1], got %v", name, v)
	}
	return nil
}
