package server

import (
	"testing"
	"time"
)

func testConfig() JobConfig {
	return JobConfig{
		Function:    "sphere",
		Method:      "de",
		Dim:         2,
		PopSize:     20,
		Generations: 10,
		Seed:        42,
	}
}

func TestJobManager_CreateJob(t *testing.T) {
	jm := NewJobManager()

	job, ctx := jm.CreateJob(testConfig())

	if job.ID == "" {
		t.Error("Job ID should not be empty")
	}

	if job.State != StatePending {
		t.Errorf("Initial state should be pending, got %s", job.State)
	}

	if job.Config.Function != "sphere" {
		t.Errorf("Config not set correctly")
	}

	if ctx.Err() != nil {
		t.Error("Job context should start uncancelled")
	}
}

func TestJobManager_GetJob(t *testing.T) {
	jm := NewJobManager()

	job, _ := jm.CreateJob(testConfig())

	retrieved, exists := jm.GetJob(job.ID)
	if !exists {
		t.Error("Job should exist")
	}

	if retrieved.ID != job.ID {
		t.Error("Retrieved wrong job")
	}

	_, exists = jm.GetJob("nonexistent")
	if exists {
		t.Error("Should not find nonexistent job")
	}
}

func TestJobManager_ListJobs(t *testing.T) {
	jm := NewJobManager()

	if len(jm.ListJobs()) != 0 {
		t.Error("Should start with no jobs")
	}

	jm.CreateJob(testConfig())
	jm.CreateJob(testConfig())

	jobs := jm.ListJobs()
	if len(jobs) != 2 {
		t.Errorf("Expected 2 jobs, got %d", len(jobs))
	}
}

func TestJobManager_UpdateJob(t *testing.T) {
	jm := NewJobManager()

	job, _ := jm.CreateJob(testConfig())

	err := jm.UpdateJob(job.ID, func(j *Job) {
		j.State = StateRunning
		j.Generation = 10
		j.BestFitness = []float64{123.45}
	})

	if err != nil {
		t.Errorf("Update should succeed: %v", err)
	}

	updated, _ := jm.GetJob(job.ID)
	if updated.State != StateRunning {
		t.Error("State should be updated")
	}
	if updated.Generation != 10 {
		t.Error("Generation should be updated")
	}
	if updated.BestFitness[0] != 123.45 {
		t.Error("BestFitness should be updated")
	}

	err = jm.UpdateJob("nonexistent", func(j *Job) {})
	if err == nil {
		t.Error("Update of nonexistent job should fail")
	}
}

func TestJobManager_CancelJob(t *testing.T) {
	jm := NewJobManager()

	job, ctx := jm.CreateJob(testConfig())

	if err := jm.CancelJob(job.ID); err != nil {
		t.Fatalf("Cancel should succeed: %v", err)
	}

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("Job context should be cancelled")
	}

	if err := jm.CancelJob("nonexistent"); err == nil {
		t.Error("Cancel of nonexistent job should fail")
	}
}

func TestJobManager_CancelFinishedJob(t *testing.T) {
	jm := NewJobManager()

	job, _ := jm.CreateJob(testConfig())
	jm.UpdateJob(job.ID, func(j *Job) { j.State = StateCompleted })

	if err := jm.CancelJob(job.ID); err == nil {
		t.Error("Cancel of completed job should fail")
	}
}

func TestJobManager_ThreadSafety(t *testing.T) {
	jm := NewJobManager()

	job, _ := jm.CreateJob(testConfig())

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(gen int) {
			jm.UpdateJob(job.ID, func(j *Job) {
				j.State = StateRunning
				j.Generation = gen
				j.BestFitness = []float64{float64(gen)}
				time.Sleep(1 * time.Millisecond)
			})
			done <- true
		}(i)
	}

	// Readers work on snapshots, so field access must stay safe while the
	// writers above mutate the live job under the manager's lock.
	for i := 0; i < 10; i++ {
		go func() {
			snap, exists := jm.GetJob(job.ID)
			if exists {
				_ = snap.State
				_ = snap.Generation
				if len(snap.BestFitness) > 0 {
					_ = snap.BestFitness[0]
				}
			}
			for _, j := range jm.ListJobs() {
				_ = j.State
				_ = j.Generation
			}
			done <- true
		}()
	}

	for i := 0; i < 20; i++ {
		<-done
	}

	_, exists := jm.GetJob(job.ID)
	if !exists {
		t.Error("Job should still exist after concurrent updates")
	}
}
