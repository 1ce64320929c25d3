package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cwbudde/natureopt/internal/bench"
	"github.com/cwbudde/natureopt/internal/methods"
	"github.com/cwbudde/natureopt/internal/solver"
	"github.com/cwbudde/natureopt/internal/store"
)

// runJob executes an optimization job in the background. If checkpointStore is
// not nil, the job writes a trace and, with CheckpointInterval > 0, periodic
// checkpoints.
func runJob(ctx context.Context, jm *JobManager, checkpointStore store.Store, traceDir, jobID string) error {
	job, exists := jm.GetJob(jobID)
	if !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}

	if err := jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateRunning
	}); err != nil {
		return err
	}

	slog.Info("Starting job", "job_id", jobID, "function", job.Config.Function, "method", job.Config.Method)

	obj, err := bench.Lookup(job.Config.Function, job.Config.Dim)
	if err != nil {
		markJobFailed(jm, jobID, err)
		return err
	}

	alg, err := methods.New(job.Config.Method)
	if err != nil {
		markJobFailed(jm, jobID, err)
		return err
	}

	var trace *store.TraceWriter
	if checkpointStore != nil {
		trace, err = store.NewTraceWriter(traceDir, jobID, false)
		if err != nil {
			slog.Warn("Failed to open trace, continuing without it", "job_id", jobID, "error", err)
			trace = nil
		} else {
			defer trace.Close()
		}
	}

	start := time.Now()
	interval := time.Duration(job.Config.CheckpointInterval) * time.Second
	lastCheckpoint := start

	// Everything per-generation happens in the callback: job state, SSE
	// broadcast, trace line, and interval checkpoints.
	callback := func(c *solver.Ctx) {
		xs, ys := c.BestResult()

		jm.UpdateJob(jobID, func(j *Job) {
			j.BestParams = xs
			j.BestFitness = ys
			j.Generation = c.Gen
			j.FrontSize = c.Best.Len()
		})

		elapsed := time.Since(start).Seconds()
		var gps float64
		if elapsed > 0 {
			gps = float64(c.Gen) / elapsed
		}

		jm.broadcaster.Broadcast(ProgressEvent{
			JobID:       jobID,
			State:       StateRunning,
			Generation:  c.Gen,
			BestFitness: ys,
			FrontSize:   c.Best.Len(),
			GPS:         gps,
			Timestamp:   time.Now(),
		})

		if trace != nil {
			if err := trace.Write(store.TraceEntry{
				Generation:  c.Gen,
				BestFitness: ys,
				FrontSize:   c.Best.Len(),
				Timestamp:   time.Now(),
			}); err != nil {
				slog.Warn("Failed to write trace entry", "job_id", jobID, "error", err)
			}
		}

		if checkpointStore != nil && interval > 0 && time.Since(lastCheckpoint) >= interval {
			lastCheckpoint = time.Now()
			cp := store.NewCheckpoint(jobID, xs, ys, c.Gen, job.Config)
			if err := checkpointStore.SaveCheckpoint(jobID, cp); err != nil {
				slog.Error("Failed to save checkpoint", "job_id", jobID, "error", err)
			} else {
				slog.Info("Checkpoint saved", "job_id", jobID, "generation", c.Gen, "best", ys)
			}
		}
	}

	// The job's context is folded into the termination policy so cancel
	// takes effect at the next generation boundary.
	term := solver.Predicate(func(c *solver.Ctx) bool {
		select {
		case <-ctx.Done():
			return true
		default:
		}
		return c.Gen >= job.Config.Generations
	})

	s, err := solver.New(alg, obj, term, solver.Config{
		PopSize:     job.Config.PopSize,
		Seed:        job.Config.Seed,
		Workers:     job.Config.Workers,
		ParetoLimit: job.Config.ParetoLimit,
		Callback:    callback,
	})
	if err != nil {
		markJobFailed(jm, jobID, err)
		return err
	}

	result, err := s.Solve()
	if err != nil {
		markJobFailed(jm, jobID, err)
		return err
	}

	if trace != nil {
		if err := trace.Flush(); err != nil {
			slog.Warn("Failed to flush trace", "job_id", jobID, "error", err)
		}
	}

	if ctx.Err() != nil {
		markJobCancelled(jm, jobID)
		return ctx.Err()
	}

	endTime := time.Now()
	if err := jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCompleted
		j.BestParams = result.BestParams
		j.BestFitness = result.BestFitness
		j.Generation = result.Generations
		j.FrontSize = len(result.Front)
		j.EndTime = &endTime
	}); err != nil {
		return err
	}

	if checkpointStore != nil {
		cp := store.NewCheckpoint(jobID, result.BestParams, result.BestFitness, result.Generations, job.Config)
		if err := checkpointStore.SaveCheckpoint(jobID, cp); err != nil {
			slog.Error("Failed to save final checkpoint", "job_id", jobID, "error", err)
		}
	}

	elapsed := result.Elapsed
	var gps float64
	if elapsed.Seconds() > 0 {
		gps = float64(result.Generations) / elapsed.Seconds()
	}

	slog.Info("Job completed",
		"job_id", jobID,
		"elapsed", elapsed,
		"generations", result.Generations,
		"best", result.BestFitness,
		"generations_per_second", gps,
	)

	jm.broadcaster.Broadcast(ProgressEvent{
		JobID:       jobID,
		State:       StateCompleted,
		Generation:  result.Generations,
		BestFitness: result.BestFitness,
		FrontSize:   len(result.Front),
		GPS:         gps,
		Timestamp:   time.Now(),
	})

	return nil
}

// markJobFailed marks a job as failed with an error message
func markJobFailed(jm *JobManager, jobID string, err error) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateFailed
		j.Error = err.Error()
		j.EndTime = &endTime
	})
	slog.Error("Job failed", "job_id", jobID, "error", err)
}

// markJobCancelled marks a job as cancelled
func markJobCancelled(jm *JobManager, jobID string) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCancelled
		j.EndTime = &endTime
	})
	slog.Info("Job cancelled", "job_id", jobID)
}
