// Package bench provides the built-in benchmark objectives used by the CLI
// and the job server. Each function is registered under a short name and
// instantiated at a caller-chosen dimension.
package bench

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/cwbudde/natureopt/internal/objective"
)

// Function describes one registered benchmark.
type Function struct {
	// Name is the registry key.
	Name string
	// Description is a one-line summary for help output.
	Description string
	// Objectives is the number of objective values the function returns.
	Objectives int
	// FixedDim pins the dimensionality; 0 means any dimension >= 1.
	FixedDim int
	// Optimum is the known global minimum of the scalar value, when one
	// exists independent of dimension.
	Optimum float64

	build func(dim int) objective.Objective
}

var registry = map[string]Function{}

func register(f Function) { registry[f.Name] = f }

// Lookup instantiates a registered benchmark at the given dimension. A zero
// dim selects the function's fixed or smallest sensible dimension.
func Lookup(name string, dim int) (objective.Objective, error) {
	f, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("bench: unknown function %q (have %s)", name, strings.Join(Names(), ", "))
	}
	if f.FixedDim > 0 {
		if dim != 0 && dim != f.FixedDim {
			return nil, fmt.Errorf("bench: %s is fixed at dimension %d, got %d", f.Name, f.FixedDim, dim)
		}
		dim = f.FixedDim
	}
	if dim == 0 {
		dim = 2
	}
	if dim < 1 {
		return nil, fmt.Errorf("bench: dimension must be positive, got %d", dim)
	}
	return f.build(dim), nil
}

// Describe returns the registry entry for a name.
func Describe(name string) (Function, bool) {
	f, ok := registry[strings.ToLower(name)]
	return f, ok
}

// Names lists the registered benchmark names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	register(Function{
		Name:        "sphere",
		Description: "sum of squares, unimodal, minimum 0 at the origin",
		Objectives:  1,
		build: func(dim int) objective.Objective {
			return objective.Scalar(objective.UniformBounds(dim, -5.12, 5.12), func(xs []float64) float64 {
				sum := 0.0
				for _, x := range xs {
					sum += x * x
				}
				return sum
			})
		},
	})
	register(Function{
		Name:        "rosenbrock",
		Description: "banana valley, minimum 0 at (1, ..., 1)",
		Objectives:  1,
		build: func(dim int) objective.Objective {
			return objective.Scalar(objective.UniformBounds(dim, -5, 10), func(xs []float64) float64 {
				sum := 0.0
				for i := 0; i+1 < len(xs); i++ {
					a := xs[i+1] - xs[i]*xs[i]
					b := 1 - xs[i]
					sum += 100*a*a + b*b
				}
				return sum
			})
		},
	})
	register(Function{
		Name:        "rastrigin",
		Description: "highly multimodal, minimum 0 at the origin",
		Objectives:  1,
		build: func(dim int) objective.Objective {
			return objective.Scalar(objective.UniformBounds(dim, -5.12, 5.12), func(xs []float64) float64 {
				sum := 10 * float64(len(xs))
				for _, x := range xs {
					sum += x*x - 10*math.Cos(2*math.Pi*x)
				}
				return sum
			})
		},
	})
	register(Function{
		Name:        "eggholder",
		Description: "deceptive 2D landscape, minimum -959.6407 at (512, 404.2319)",
		Objectives:  1,
		FixedDim:    2,
		Optimum:     -959.6407,
		build: func(int) objective.Objective {
			return objective.Scalar(objective.UniformBounds(2, -512, 512), func(xs []float64) float64 {
				x, y := xs[0], xs[1]
				a := -(y + 47) * math.Sin(math.Sqrt(math.Abs(x/2+y+47)))
				b := -x * math.Sin(math.Sqrt(math.Abs(x-(y+47))))
				return a + b
			})
		},
	})
	register(Function{
		Name:        "himmelblau",
		Description: "four equal minima of 0, 2D",
		Objectives:  1,
		FixedDim:    2,
		build: func(int) objective.Objective {
			return objective.Scalar(objective.UniformBounds(2, -5, 5), func(xs []float64) float64 {
				x, y := xs[0], xs[1]
				a := x*x + y - 11
				b := x + y*y - 7
				return a*a + b*b
			})
		},
	})
	register(Function{
		Name:        "schaffer",
		Description: "two-objective Schaffer N.1, front over x in [0, 2]",
		Objectives:  2,
		FixedDim:    1,
		build: func(int) objective.Objective {
			return objective.Func{
				B: []objective.Bound{{Low: -10, High: 10}},
				Eval: func(xs []float64) objective.Fitness {
					x := xs[0]
					return objective.Fitness{x * x, (x - 2) * (x - 2)}
				},
			}
		},
	})
	register(Function{
		Name:        "zdt1",
		Description: "two-objective ZDT1 with a convex front",
		Objectives:  2,
		build: func(dim int) objective.Objective {
			if dim < 2 {
				dim = 2
			}
			return objective.Func{
				B: objective.UniformBounds(dim, 0, 1),
				Eval: func(xs []float64) objective.Fitness {
					f1 := xs[0]
					g := 1.0
					for _, x := range xs[1:] {
						g += 9 * x / float64(len(xs)-1)
					}
					f2 := g * (1 - math.Sqrt(f1/g))
					return objective.Fitness{f1, f2}
				},
			}
		},
	})
}
