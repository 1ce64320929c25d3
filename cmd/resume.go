package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/natureopt/internal/bench"
	"github.com/cwbudde/natureopt/internal/methods"
	"github.com/cwbudde/natureopt/internal/objective"
	"github.com/cwbudde/natureopt/internal/solver"
	"github.com/cwbudde/natureopt/internal/store"
)

var (
	resumeDataDir string
	resumeGen     int
	resumeSeed    uint64
	resumeWorkers int
	resumeMethod  string
	resumeSpread  float64
)

var resumeCmd = &cobra.Command{
	Use:   "resume [job-id]",
	Short: "Resume optimization from a checkpoint",
	Long: `Loads a saved checkpoint and continues the search. The new population is
drawn from Gaussians centered on the checkpointed best parameters, so the run
picks up near the point the previous run reached.`,
	Args: cobra.ExactArgs(1),
	RunE: runResume,
}

func init() {
	resumeCmd.Flags().StringVar(&resumeDataDir, "data-dir", "./data", "Base directory for checkpoint storage")
	resumeCmd.Flags().IntVar(&resumeGen, "gen", 200, "Additional generations to run")
	resumeCmd.Flags().Uint64Var(&resumeSeed, "seed", 0, "Random seed (default: derived from checkpoint)")
	resumeCmd.Flags().IntVar(&resumeWorkers, "workers", 0, "Parallel evaluation workers (0 = sequential)")
	resumeCmd.Flags().StringVar(&resumeMethod, "method", "", "Override the search strategy (default: checkpoint's)")
	resumeCmd.Flags().Float64Var(&resumeSpread, "spread", 0.05, "Initial population spread as a fraction of each bound's width")
	rootCmd.AddCommand(resumeCmd)
}

func runResume(cmd *cobra.Command, args []string) error {
	jobID := args[0]

	checkpointStore, err := store.NewFSStore(resumeDataDir)
	if err != nil {
		return fmt.Errorf("failed to create checkpoint store: %w", err)
	}

	checkpoint, err := checkpointStore.LoadCheckpoint(jobID)
	if err != nil {
		return fmt.Errorf("failed to load checkpoint: %w", err)
	}
	if err := checkpoint.Validate(); err != nil {
		return fmt.Errorf("checkpoint is not usable: %w", err)
	}

	config := checkpoint.Config
	if resumeMethod != "" {
		config.Method = resumeMethod
	}
	config.Workers = resumeWorkers
	if cmd.Flags().Changed("seed") {
		config.Seed = resumeSeed
	} else {
		// A fresh stream per resume, reproducible from the checkpoint alone.
		config.Seed = checkpoint.Config.Seed + uint64(checkpoint.Generation) + 1
	}

	if err := checkpoint.IsCompatible(config); err != nil {
		return fmt.Errorf("checkpoint incompatible with requested run: %w", err)
	}

	obj, err := bench.Lookup(config.Function, config.Dim)
	if err != nil {
		return err
	}
	alg, err := methods.New(config.Method)
	if err != nil {
		return err
	}

	bounds := obj.Bounds()
	std := make([]float64, len(bounds))
	for s, b := range bounds {
		std[s] = resumeSpread * b.Width()
	}

	slog.Info("Resuming optimization",
		"job_id", jobID,
		"function", config.Function, "method", config.Method,
		"from_generation", checkpoint.Generation, "gen", resumeGen, "seed", config.Seed,
	)

	s, err := solver.New(alg, obj, solver.MaxGenerations(resumeGen), solver.Config{
		PopSize:     config.PopSize,
		Seed:        config.Seed,
		Workers:     config.Workers,
		ParetoLimit: config.ParetoLimit,
		Init:        solver.GaussianInit(checkpoint.BestParams, std),
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

	bestParams := result.BestParams
	bestFitness := []float64(result.BestFitness)
	if objective.Fitness(checkpoint.BestFitness).Eval() < result.BestFitness.Eval() {
		// The warm start does not carry velocity or pool diversity, so a
		// short resume can end below the checkpointed best. Keep the better.
		bestParams = checkpoint.BestParams
		bestFitness = checkpoint.BestFitness
	}

	totalGen := checkpoint.Generation + result.Generations
	updated := store.NewCheckpoint(jobID, bestParams, bestFitness, totalGen, config)
	if err := checkpointStore.SaveCheckpoint(jobID, updated); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}

	if err := appendResumeTrace(jobID, checkpoint.Generation, result); err != nil {
		slog.Warn("Failed to append trace", "job_id", jobID, "error", err)
	}

	slog.Info("Resume complete",
		"elapsed", elapsed,
		"total_generations", totalGen,
		"best_fitness", bestFitness,
	)

	fmt.Printf("Resumed %s: best %v after %d total generations\n", jobID, bestFitness, totalGen)
	return nil
}

func appendResumeTrace(jobID string, genOffset int, result *solver.Result) error {
	tw, err := store.NewTraceWriter(resumeDataDir, jobID, true)
	if err != nil {
		return err
	}
	defer tw.Close()

	for _, snap := range result.History {
		entry := store.TraceEntry{
			Generation:  genOffset + snap.Gen,
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
