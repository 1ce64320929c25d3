// Package store persists job checkpoints and convergence traces on the
// filesystem: one directory per job holding checkpoint.json, trace.jsonl, and
// any report artifacts.
package store

// Store defines checkpoint persistence. Implementations must be safe for
// concurrent use.
//
// Error conventions:
//   - nil on success
//   - ErrNotFound when the checkpoint does not exist (Load/Delete)
//   - wrapped errors with context for I/O and serialization failures
type Store interface {
	// SaveCheckpoint atomically writes the checkpoint for a job,
	// overwriting any previous one.
	SaveCheckpoint(jobID string, checkpoint *Checkpoint) error

	// LoadCheckpoint retrieves the checkpoint for a job.
	// Returns ErrNotFound if none exists.
	LoadCheckpoint(jobID string) (*Checkpoint, error)

	// ListCheckpoints returns metadata for all stored checkpoints; the
	// slice may be empty.
	ListCheckpoints() ([]CheckpointInfo, error)

	// DeleteCheckpoint removes the checkpoint and every artifact stored
	// alongside it (trace, report files).
	// Returns ErrNotFound if none exists.
	DeleteCheckpoint(jobID string) error
}

// ErrNotFound is returned when a requested checkpoint does not exist.
// Check with errors.Is(err, ErrNotFound).
var ErrNotFound = &NotFoundError{}

// NotFoundError represents a missing checkpoint.
type NotFoundError struct {
	JobID string
}

func (e *NotFoundError) Error() string {
	if e.JobID != "" {
		return "checkpoint not found: " + e.JobID
	}
	return "checkpoint not found"
}

func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}
