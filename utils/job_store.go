package utils

import (
	"sync"
	"time"

	"orgmanager-backend/dtos"

	"github.com/google/uuid"
)

// JobStore keeps background import jobs in memory.
type JobStore struct {
	jobs map[uuid.UUID]*dtos.ImportJob
	mu   sync.RWMutex
}

func NewJobStore() *JobStore {
	return &JobStore{jobs: make(map[uuid.UUID]*dtos.ImportJob)}
}

// Store is the process-wide job store.
var Store = NewJobStore()

// CleanupOldJobs removes completed/failed jobs older than 1 hour.
func (js *JobStore) CleanupOldJobs() {
	js.mu.Lock()
	defer js.mu.Unlock()

	cutoff := time.Now().Add(-1 * time.Hour)
	for id, job := range js.jobs {
		if job.CompletedAt != nil && job.CompletedAt.Before(cutoff) {
			delete(js.jobs, id)
		} else if job.StartedAt.Before(cutoff) && (job.Status == dtos.JobStatusCompleted || job.Status == dtos.JobStatusFailed) {
			delete(js.jobs, id)
		}
	}
}

// CreateJob registers a pending import of entityType started by userID.
func (js *JobStore) CreateJob(entityType string, userID uint) *dtos.ImportJob {
	js.CleanupOldJobs()

	js.mu.Lock()
	defer js.mu.Unlock()

	job := &dtos.ImportJob{
		ID:        uuid.New(),
		Type:      entityType,
		Status:    dtos.JobStatusPending,
		UserID:    userID,
		StartedAt: time.Now(),
	}

	js.jobs[job.ID] = job
	return job
}

// GetJob returns a snapshot of the job so callers can read it without
// racing the worker that updates it.
func (js *JobStore) GetJob(id uuid.UUID) (dtos.ImportJob, bool) {
	js.mu.RLock()
	defer js.mu.RUnlock()

	job, exists := js.jobs[id]
	if !exists {
		return dtos.ImportJob{}, false
	}
	return *job, true
}

// UpdateJob applies updates to the job under the store lock.
func (js *JobStore) UpdateJob(id uuid.UUID, updates func(*dtos.ImportJob)) {
	js.mu.Lock()
	defer js.mu.Unlock()

	if job, exists := js.jobs[id]; exists {
		updates(job)
	}
}

// SetProcessing marks job as processing
func (js *JobStore) SetProcessing(id uuid.UUID) {
	js.UpdateJob(id, func(job *dtos.ImportJob) {
		job.Status = dtos.JobStatusProcessing
	})
}

// SetProgress records processed of total rows.
func (js *JobStore) SetProgress(id uuid.UUID, processed, total int) {
	js.UpdateJob(id, func(job *dtos.ImportJob) {
		job.Processed = processed
		job.Total = total
		if total > 0 {
			job.Progress = processed * 100 / total
		}
	})
}

// CompleteJob finishes the job with result, or marks it failed when err is set.
func (js *JobStore) CompleteJob(id uuid.UUID, result *dtos.ImportResult, err error) {
	js.UpdateJob(id, func(job *dtos.ImportJob) {
		now := time.Now()
		job.CompletedAt = &now
		job.Result = result
		if err != nil {
			job.Status = dtos.JobStatusFailed
			job.Error = err.Error()
			return
		}
		job.Status = dtos.JobStatusCompleted
		job.Progress = 100
		if result != nil {
			job.Total = result.TotalRecords
			job.Processed = result.TotalRecords
		}
	})
}
