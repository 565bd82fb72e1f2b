// Package importjobs tracks asynchronous bulk-import jobs in memory. Imports
// of large files run in the background; callers poll the job until it reaches
// a terminal state. Jobs do not survive a restart, which is acceptable because
// both import pipelines are idempotent and safely re-runnable.
package importjobs

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an import job.
type Status string

const (
	StatusCreated Status = "CREATED"
	StatusRunning Status = "RUNNING"
	StatusDone    Status = "DONE"
	StatusFailed  Status = "FAILED"
)

// ErrJobNotFound is returned for unknown job ids and for jobs owned by a
// different user; callers cannot distinguish the two.
var ErrJobNotFound = errors.New("import job not found")

// Job is one tracked import run. Result and Error are set only in terminal
// states.
type Job struct {
	JobID      string      `json:"jobID"`
	Kind       string      `json:"kind"`
	OwnerID    string      `json:"-"`
	Status     Status      `json:"status"`
	Result     interface{} `json:"result,omitempty"`
	Error      string      `json:"error,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
	FinishedAt *time.Time  `json:"finishedAt,omitempty"`
}

// Runner executes the import and returns its result.
type Runner func(ctx context.Context) (interface{}, error)

// Store holds jobs in memory and prunes terminal jobs past their retention.
type Store struct {
	mu        sync.Mutex
	jobs      map[string]*Job
	retention time.Duration
	now       func() time.Time
}

// NewStore creates a job store. Terminal jobs older than retention are pruned
// lazily on each mutation.
func NewStore(retention time.Duration) *Store {
	return &Store{
		jobs:      make(map[string]*Job),
		retention: retention,
		now:       time.Now,
	}
}

// Start registers a job and launches its runner in the background. The passed
// context only carries values (logger, tracing); the job is detached from the
// request's cancellation so a closed connection cannot abort a half-applied
// import.
func (s *Store) Start(ctx context.Context, kind, ownerID string, run Runner) *Job {
	job := &Job{
		JobID:     uuid.NewString(),
		Kind:      kind,
		OwnerID:   ownerID,
		Status:    StatusCreated,
		CreatedAt: s.now().UTC(),
	}

	s.mu.Lock()
	s.pruneLocked()
	s.jobs[job.JobID] = job
	s.mu.Unlock()

	go func() {
		detached := context.WithoutCancel(ctx)

		s.mu.Lock()
		job.Status = StatusRunning
		s.mu.Unlock()

		result, err := run(detached)

		s.mu.Lock()
		defer s.mu.Unlock()
		finished := s.now().UTC()
		job.FinishedAt = &finished
		if err != nil {
			job.Status = StatusFailed
			job.Error = err.Error()
			return
		}
		job.Status = StatusDone
		job.Result = result
	}()

	return job
}

// Get retrieves a job by id, scoped to its owner.
func (s *Store) Get(jobID, ownerID string) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok || job.OwnerID != ownerID {
		return nil, ErrJobNotFound
	}
	copied := *job
	return &copied, nil
}

// ListByOwner retrieves all jobs belonging to an owner, newest first.
func (s *Store) ListByOwner(ownerID string) []Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Job
	for _, job := range s.jobs {
		if job.OwnerID == ownerID {
			out = append(out, *job)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].CreatedAt.After(out[j-1].CreatedAt); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// pruneLocked drops terminal jobs past retention. Caller holds mu.
func (s *Store) pruneLocked() {
	if s.retention <= 0 {
		return
	}
	cutoff := s.now().Add(-s.retention)
	for id, job := range s.jobs {
		if job.FinishedAt != nil && job.FinishedAt.Before(cutoff) {
			delete(s.jobs, id)
		}
	}
}
