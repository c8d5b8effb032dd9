// Package registry tracks the live state of download jobs in memory. Entries
// are never evicted; a server instance is expected to run a bounded number of
// jobs between restarts.
package registry

import (
	"sync"

	"github.com/rmartinelli/ytgrab/internal/domain"
)

type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*domain.Job
}

func New() *Registry {
	return &Registry{
		jobs: make(map[string]*domain.Job),
	}
}

// Create inserts a job in the downloading state with zero progress.
func (r *Registry) Create(id, url string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.jobs[id] = &domain.Job{
		ID:     id,
		URL:    url,
		Status: domain.JobStatusDownloading,
	}
}

// SetProgress updates the progress percentage of a running job. Updates for
// unknown or already-terminal jobs are dropped.
func (r *Registry) SetProgress(id string, progress float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok || job.Status.Terminal() {
		return
	}
	job.Progress = progress
}

// Complete moves a job to its terminal completed state. A job that already
// reached a terminal state is left untouched.
func (r *Registry) Complete(id, filename, title string, duration int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok || job.Status.Terminal() {
		return
	}
	job.Status = domain.JobStatusCompleted
	job.Progress = 100
	job.Filename = filename
	job.Title = title
	job.Duration = duration
	job.Error = ""
}

// Fail moves a job to its terminal error state.
func (r *Registry) Fail(id, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok || job.Status.Terminal() {
		return
	}
	job.Status = domain.JobStatusError
	job.Error = message
}

// Get returns a copy of the job record. An id the registry has never seen
// yields a sentinel record with status unknown, not an error.
func (r *Registry) Get(id string) domain.Job {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return domain.Job{ID: id, Status: domain.JobStatusUnknown}
	}
	return *job
}

// ActiveCount reports how many jobs are still downloading.
func (r *Registry) ActiveCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, job := range r.jobs {
		if job.Status == domain.JobStatusDownloading {
			count++
		}
	}
	return count
}
