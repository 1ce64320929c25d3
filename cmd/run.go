package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cwbudde/natureopt/internal/bench"
	"github.com/cwbudde/natureopt/internal/methods"
	"github.com/cwbudde/natureopt/internal/report"
	"github.com/cwbudde/natureopt/internal/solver"
	"github.com/cwbudde/natureopt/internal/store"
)

var (
	function    string
	method      string
	dim         int
	popSize     int
	generations int
	seed        uint64
	workers     int
	target      float64
	paretoLimit int
	plotPath    string
	frontPath   string
	saveDataDir string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run single-shot optimization",
	Long:  `Runs one optimization locally and prints the best result found.`,
	RunE:  runOptimization,
}

func init() {
	runCmd.Flags().StringVar(&function, "function", "", "Objective function name (required, see 'functions')")
	runCmd.Flags().StringVar(&method, "method", "de", "Search strategy: rga, de, pso, fa, tlbo")
	runCmd.Flags().IntVar(&dim, "dim", 0, "Problem dimension (0 = function default)")
	runCmd.Flags().IntVar(&popSize, "pop", 0, "Population size (0 = strategy default)")
	runCmd.Flags().IntVar(&generations, "gen", 200, "Max generations")
	runCmd.Flags().Uint64Var(&seed, "seed", 42, "Random seed")
	runCmd.Flags().IntVar(&workers, "workers", 0, "Parallel evaluation workers (0 = sequential)")
	runCmd.Flags().Float64Var(&target, "target", 0, "Stop once the best fitness drops below this value")
	runCmd.Flags().IntVar(&paretoLimit, "pareto-limit", 0, "Max Pareto front size for multi-objective runs (0 = unbounded)")
	runCmd.Flags().StringVar(&plotPath, "plot", "", "Write convergence chart to this HTML file")
	runCmd.Flags().StringVar(&frontPath, "front", "", "Write Pareto front chart to this HTML file")
	runCmd.Flags().StringVar(&saveDataDir, "data-dir", "", "Save a resumable checkpoint under this directory")

	runCmd.MarkFlagRequired("function")
	rootCmd.AddCommand(runCmd)
}

func runOptimization(cmd *cobra.Command, args []string) error {
	obj, err := bench.Lookup(function, dim)
	if err != nil {
		return err
	}
	alg, err := methods.New(method)
	if err != nil {
		return err
	}

	pop := popSize
	if pop == 0 {
		pop = methods.DefaultPopSize(method)
	}

	term := solver.MaxGenerations(generations)
	if cmd.Flags().Changed("target") {
		term = solver.TargetFitness(target, generations)
	}

	slog.Info("Starting optimization",
		"function", function, "method", method,
		"dim", len(obj.Bounds()), "pop", pop, "gen", generations, "seed", seed,
	)

	s, err := solver.New(alg, obj, term, solver.Config{
		PopSize:     pop,
		Seed:        seed,
		Workers:     workers,
		ParetoLimit: paretoLimit,
	})
	if err != nil {
		return err
	}

	start := time.Now()
	result, err := s.Solve()
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	// Throughput in fitness evaluations per second.
	eps := float64(result.Generations*pop) / elapsed.Seconds()

	slog.Info("Optimization complete",
		"elapsed", elapsed,
		"generations", result.Generations,
		"best_fitness", result.BestFitness,
		"evals_per_second", fmt.Sprintf("%.0f", eps),
	)

	if plotPath != "" {
		title := fmt.Sprintf("%s on %s", method, function)
		if err := report.SaveConvergence(plotPath, title, result.History); err != nil {
			return fmt.Errorf("failed to write convergence chart: %w", err)
		}
		fmt.Printf("Wrote %s\n", plotPath)
	}

	if frontPath != "" {
		title := fmt.Sprintf("Pareto front: %s on %s", method, function)
		if err := report.SaveFront(frontPath, title, result.Front); err != nil {
			return fmt.Errorf("failed to write front chart: %w", err)
		}
		fmt.Printf("Wrote %s\n", frontPath)
	}

	if saveDataDir != "" {
		jobID, err := saveRunCheckpoint(result)
		if err != nil {
			return err
		}
		fmt.Printf("Saved checkpoint %s (resume with 'natureopt resume %s')\n", jobID, jobID)
	}

	fmt.Printf("Best %v at %v after %d generations (%.0f evals/sec)\n",
		result.BestFitness, result.BestParams, result.Generations, eps)

	return nil
}

func saveRunCheckpoint(result *solver.Result) (string, error) {
	checkpointStore, err := store.NewFSStore(saveDataDir)
	if err != nil {
		return "", fmt.Errorf("failed to create checkpoint store: %w", err)
	}

	jobID := uuid.New().String()
	config := store.JobConfig{
		Function:    function,
		Method:      method,
		Dim:         len(result.BestParams),
		PopSize:     popSize,
		Generations: generations,
		Seed:        seed,
		Workers:     workers,
		ParetoLimit: paretoLimit,
	}
	if config.PopSize == 0 {
		config.PopSize = methods.DefaultPopSize(method)
	}

	checkpoint := store.NewCheckpoint(jobID, result.BestParams, result.BestFitness, result.Generations, config)
	if err := checkpointStore.SaveCheckpoint(jobID, checkpoint); err != nil {
		return "", fmt.Errorf("failed to save checkpoint: %w", err)
	}

	if err := writeRunTrace(jobID, result); err != nil {
		slog.Warn("Failed to write trace", "job_id", jobID, "error", err)
	}
	return jobID, nil
}

func writeRunTrace(jobID string, result *solver.Result) error {
	tw, err := store.NewTraceWriter(saveDataDir, jobID, false)
	if err != nil {
		return err
	}
	defer tw.Close()

	for _, snap := range result.History {
		entry := store.TraceEntry{
			Generation:  snap.Gen,
			BestFitness: snap.BestFitness,
			Mean:        snap.Mean,
			FrontSize:   snap.FrontSize,
			Timestamp:   time.Now(),
		}
		if err := tw.Write(entry); err != nil {
			return err
		}
	}
	return tw.Flush()
}
