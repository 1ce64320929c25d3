package server

import (
	"fmt"

	"github.com/cwbudde/natureopt/internal/bench"
	"github.com/cwbudde/natureopt/internal/methods"
)

// applyDefaults fills the optional fields of a job config.
func applyDefaults(config *JobConfig) {
	if config.Method == "" {
		config.Method = "de"
	}
	if config.PopSize <= 0 {
		config.PopSize = methods.DefaultPopSize(config.Method)
	}
	if config.Generations <= 0 {
		config.Generations = 200
	}
	if config.Dim == 0 {
		if f, ok := bench.Describe(config.Function); ok && f.FixedDim > 0 {
			config.Dim = f.FixedDim
		} else {
			config.Dim = 2
		}
	}
}

// validateJobConfig rejects configs the worker would fail on, so the error
// surfaces at job creation instead of inside the job.
func validateJobConfig(config JobConfig) error {
	if config.Function == "" {
		return fmt.Errorf("function is required")
	}
	if _, err := bench.Lookup(config.Function, config.Dim); err != nil {
		return err
	}
	if _, err := methods.New(config.Method); err != nil {
		return err
	}
	if config.PopSize <= 1 {
		return fmt.Errorf("popSize must be greater than one")
	}
	if config.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	if config.CheckpointInterval < 0 {
		return fmt.Errorf("checkpointInterval must not be negative")
	}
	return nil
}
