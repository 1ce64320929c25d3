package store

import (
	"fmt"
	"time"
)

// JobConfig holds the configuration of an optimization job. It is embedded in
// checkpoints so a resume can verify it targets the same problem.
type JobConfig struct {
	Function           string `json:"function"`
	Method             string `json:"method"`
	Dim                int    `json:"dim"`
	PopSize            int    `json:"popSize"`
	Generations        int    `json:"generations"`
	Seed               uint64 `json:"seed"`
	Workers            int    `json:"workers,omitempty"`
	ParetoLimit        int    `json:"paretoLimit,omitempty"`
	CheckpointInterval int    `json:"checkpointInterval,omitempty"` // seconds between checkpoints (0 = disabled)
}

// Checkpoint is a saved optimization state that can be resumed later.
//
// It records the best parameters and fitness found so far, not the full
// population or any strategy-internal state (velocities, personal bests).
// A resume therefore restarts with a fresh population seeded around
// BestParams; the best fitness never regresses but the run is not a
// bit-exact continuation. Serializing strategy internals would tie the
// checkpoint format to each strategy, which is not worth the coupling.
type Checkpoint struct {
	JobID string `json:"jobId"`

	// BestParams are the best parameters found so far.
	BestParams []float64 `json:"bestParams"`

	// BestFitness is the fitness vector of BestParams; one element for
	// single-objective jobs.
	BestFitness []float64 `json:"bestFitness"`

	// Generation is the generation count when the checkpoint was written.
	Generation int `json:"generation"`

	Timestamp time.Time `json:"timestamp"`

	Config JobConfig `json:"config"`
}

// CheckpointInfo is checkpoint metadata without the parameter payload, used
// for listings.
type CheckpointInfo struct {
	JobID       string    `json:"jobId"`
	BestFitness []float64 `json:"bestFitness"`
	Generation  int       `json:"generation"`
	Timestamp   time.Time `json:"timestamp"`
	Function    string    `json:"function"`
	Method      string    `json:"method"`
	Dim         int       `json:"dim"`
}

// NewCheckpoint creates a checkpoint from runtime job state.
func NewCheckpoint(jobID string, bestParams, bestFitness []float64, generation int, config JobConfig) *Checkpoint {
	return &Checkpoint{
		JobID:       jobID,
		BestParams:  bestParams,
		BestFitness: bestFitness,
		Generation:  generation,
		Timestamp:   time.Now(),
		Config:      config,
	}
}

// ToInfo strips the checkpoint down to its listing metadata.
func (c *Checkpoint) ToInfo() CheckpointInfo {
	return CheckpointInfo{
		JobID:       c.JobID,
		BestFitness: c.BestFitness,
		Generation:  c.Generation,
		Timestamp:   c.Timestamp,
		Function:    c.Config.Function,
		Method:      c.Config.Method,
		Dim:         c.Config.Dim,
	}
}

// Validate checks that the checkpoint is internally consistent.
func (c *Checkpoint) Validate() error {
	if c.JobID == "" {
		return &ValidationError{Field: "JobID", Reason: "cannot be empty"}
	}
	if len(c.BestParams) == 0 {
		return &ValidationError{Field: "BestParams", Reason: "cannot be empty"}
	}
	if len(c.BestFitness) == 0 {
		return &ValidationError{Field: "BestFitness", Reason: "cannot be empty"}
	}
	if c.Generation < 0 {
		return &ValidationError{Field: "Generation", Reason: "cannot be negative"}
	}
	if c.Timestamp.IsZero() {
		return &ValidationError{Field: "Timestamp", Reason: "cannot be zero"}
	}
	if c.Config.Function == "" {
		return &ValidationError{Field: "Config.Function", Reason: "cannot be empty"}
	}
	if c.Config.Method == "" {
		return &ValidationError{Field: "Config.Method", Reason: "cannot be empty"}
	}
	if c.Config.Dim <= 0 {
		return &ValidationError{Field: "Config.Dim", Reason: "must be positive"}
	}
	if c.Config.PopSize <= 1 {
		return &ValidationError{Field: "Config.PopSize", Reason: "must be greater than one"}
	}
	if c.Config.Generations <= 0 {
		return &ValidationError{Field: "Config.Generations", Reason: "must be positive"}
	}
	if len(c.BestParams) != c.Config.Dim {
		return &ValidationError{
			Field:  "BestParams",
			Reason: fmt.Sprintf("length mismatch: got %d params for dimension %d", len(c.BestParams), c.Config.Dim),
		}
	}
	return nil
}

// ValidationError reports an inconsistent checkpoint field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + " " + e.Reason
}

// IsCompatible checks that a resume config targets the same problem as the
// checkpoint. Run settings like pop size or worker counts may differ freely.
func (c *Checkpoint) IsCompatible(config JobConfig) error {
	if c.Config.Function != config.Function {
		return &CompatibilityError{Field: "Function", Expected: c.Config.Function, Actual: config.Function}
	}
	if c.Config.Dim != config.Dim {
		return &CompatibilityError{
			Field:    "Dim",
			Expected: fmt.Sprintf("%d", c.Config.Dim),
			Actual:   fmt.Sprintf("%d", config.Dim),
		}
	}
	return nil
}

// CompatibilityError reports a checkpoint/config mismatch on resume.
type CompatibilityError struct {
	Field    string
	Expected string
	Actual   string
}

func (e *CompatibilityError) Error() string {
	return "compatibility error: " + e.Field + " mismatch (expected " + e.Expected + ", got " + e.Actual + ")"
}
