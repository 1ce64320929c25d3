package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cwbudde/natureopt/internal/store"
)

func TestRunJob_Success(t *testing.T) {
	jm := NewJobManager()

	job, ctx := jm.CreateJob(testConfig())

	if err := runJob(ctx, jm, nil, "", job.ID); err != nil {
		t.Errorf("runJob should succeed: %v", err)
	}

	updated, _ := jm.GetJob(job.ID)
	if updated.State != StateCompleted {
		t.Errorf("Job should be completed, got %s", updated.State)
	}

	if len(updated.BestFitness) == 0 {
		t.Error("BestFitness should be set")
	}

	if len(updated.BestParams) != 2 {
		t.Errorf("Expected 2 params, got %d", len(updated.BestParams))
	}

	if updated.Generation != 10 {
		t.Errorf("Expected 10 generations, got %d", updated.Generation)
	}

	if updated.EndTime == nil {
		t.Error("EndTime should be set")
	}
}

func TestRunJob_UnknownFunction(t *testing.T) {
	jm := NewJobManager()

	config := testConfig()
	config.Function = "nonexistent"
	job, ctx := jm.CreateJob(config)

	if err := runJob(ctx, jm, nil, "", job.ID); err == nil {
		t.Error("runJob should fail with unknown function")
	}

	updated, _ := jm.GetJob(job.ID)
	if updated.State != StateFailed {
		t.Errorf("Job should be failed, got %s", updated.State)
	}

	if updated.Error == "" {
		t.Error("Error message should be set")
	}
}

func TestRunJob_UnknownMethod(t *testing.T) {
	jm := NewJobManager()

	config := testConfig()
	config.Method = "hillclimb"
	job, ctx := jm.CreateJob(config)

	if err := runJob(ctx, jm, nil, "", job.ID); err == nil {
		t.Error("runJob should fail with unknown method")
	}

	updated, _ := jm.GetJob(job.ID)
	if updated.State != StateFailed {
		t.Errorf("Job should be failed, got %s", updated.State)
	}
}

func TestRunJob_Cancellation(t *testing.T) {
	jm := NewJobManager()

	config := testConfig()
	config.Generations = 1000000 // long-running job
	job, ctx := jm.CreateJob(config)

	done := make(chan error)
	go func() {
		done <- runJob(ctx, jm, nil, "", job.ID)
	}()

	time.Sleep(50 * time.Millisecond)

	if err := jm.CancelJob(job.ID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("runJob should return context.Canceled, got %v", err)
		}
	case <-time.After(30 * time.Second):
		t.Fatal("runJob did not observe cancellation")
	}

	updated, _ := jm.GetJob(job.ID)
	if updated.State != StateCancelled {
		t.Errorf("Job should be cancelled, got %s", updated.State)
	}
}

func TestRunJob_WritesCheckpointAndTrace(t *testing.T) {
	jm := NewJobManager()
	tmpDir := t.TempDir()

	st, err := store.NewFSStore(tmpDir)
	if err != nil {
		t.Fatal(err)
	}

	job, ctx := jm.CreateJob(testConfig())

	if err := runJob(ctx, jm, st, tmpDir, job.ID); err != nil {
		t.Fatalf("runJob failed: %v", err)
	}

	cp, err := st.LoadCheckpoint(job.ID)
	if err != nil {
		t.Fatalf("final checkpoint should exist: %v", err)
	}
	if cp.Generation != 10 {
		t.Errorf("checkpoint at generation %d, want 10", cp.Generation)
	}
	if err := cp.Validate(); err != nil {
		t.Errorf("checkpoint should be valid: %v", err)
	}

	reader, err := store.NewTraceReader(tmpDir, job.ID)
	if err != nil {
		t.Fatalf("trace should exist: %v", err)
	}
	defer reader.Close()

	entries, err := reader.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 10 {
		t.Errorf("trace holds %d entries, want 10", len(entries))
	}
}
