package handlers

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/kozaktomas/lifeline/internal/clustering"
	"github.com/kozaktomas/lifeline/internal/constants"
	"github.com/kozaktomas/lifeline/internal/faces"
	"github.com/kozaktomas/lifeline/internal/timeline"
)

// JobStatus represents the status of an async job.
type JobStatus string

// JobStatus constants define the lifecycle states of an async job.
const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// PeopleJob represents an async scan-and-cluster job.
type PeopleJob struct {
	EventBroadcaster

	ID              string           `json:"id"`
	Status          JobStatus        `json:"status"`
	Progress        int              `json:"progress"`
	TotalPhotos     int              `json:"total_photos"`
	ProcessedPhotos int              `json:"processed_photos"`
	Error           string           `json:"error,omitempty"`
	StartedAt       time.Time        `json:"started_at"`
	CompletedAt     *time.Time       `json:"completed_at,omitempty"`
	Options         PeopleJobOptions `json:"options"`
	Result          *PeopleJobResult `json:"result,omitempty"`
}

// PeopleJobOptions represents people job options.
type PeopleJobOptions struct {
	From        string  `json:"from,omitempty"`
	To          string  `json:"to,omitempty"`
	Threshold   float64 `json:"threshold"`
	Concurrency int     `json:"concurrency"`
}

// PeopleJobResult is the outcome of a finished people job.
type PeopleJobResult struct {
	PhotoCount   int                        `json:"photo_count"`
	FaceCount    int                        `json:"face_count"`
	SkippedCount int                        `json:"skipped_count"`
	Skipped      []faces.SkippedPhoto       `json:"skipped,omitempty"`
	Clusters     []clustering.PersonCluster `json:"clusters"`
	People       []timeline.PersonGroup     `json:"people"`
}

// GetStatus returns the current job status (implements SSEJob).
func (j *PeopleJob) GetStatus() JobStatus {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.Status
}

// Snapshot returns a copy of the job safe to encode while it is running.
func (j *PeopleJob) Snapshot() *PeopleJob {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return &PeopleJob{
		ID:              j.ID,
		Status:          j.Status,
		Progress:        j.Progress,
		TotalPhotos:     j.TotalPhotos,
		ProcessedPhotos: j.ProcessedPhotos,
		Error:           j.Error,
		StartedAt:       j.StartedAt,
		CompletedAt:     j.CompletedAt,
		Options:         j.Options,
		Result:          j.Result,
	}
}

// Cancel cancels the job. A cancelled job never gets a result.
func (j *PeopleJob) Cancel() {
	j.mu.Lock()
	if isJobTerminal(j.Status) {
		j.mu.Unlock()
		return
	}
	j.Status = JobStatusCancelled
	now := time.Now()
	j.CompletedAt = &now
	j.mu.Unlock()
	j.EventBroadcaster.Cancel()
}

// JobEvent represents an event from a job.
type JobEvent struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// EventBroadcaster provides listener management and event broadcasting for async jobs.
// Embed this in job structs to get AddListener, RemoveListener, and SendEvent methods.
type EventBroadcaster struct {
	cancel    context.CancelFunc
	listeners []chan JobEvent
	mu        sync.RWMutex
}

// AddListener adds an event listener.
func (b *EventBroadcaster) AddListener() chan JobEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan JobEvent, constants.EventChannelBuffer)
	b.listeners = append(b.listeners, ch)
	return ch
}

// RemoveListener removes an event listener.
func (b *EventBroadcaster) RemoveListener(ch chan JobEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, listener := range b.listeners {
		if listener == ch {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
			close(ch)
			return
		}
	}
}

// SendEvent sends an event to all listeners.
func (b *EventBroadcaster) SendEvent(event JobEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, listener := range b.listeners {
		select {
		case listener <- event:
		default:
			// Listener buffer full, skip.
		}
	}
}

// Cancel cancels the job via context and sends a cancelled event.
func (b *EventBroadcaster) Cancel() {
	b.mu.RLock()
	cancel := b.cancel
	b.mu.RUnlock()
	if cancel != nil {
		cancel()
	}
	b.SendEvent(JobEvent{Type: "cancelled", Message: "Job cancelled by user"})
}

// setCancel stores the job's context cancel function.
func (b *EventBroadcaster) setCancel(cancel context.CancelFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cancel = cancel
}

// SSEJob is the interface required by streamSSEEvents to stream job events via SSE.
type SSEJob interface {
	AddListener() chan JobEvent
	RemoveListener(ch chan JobEvent)
	GetStatus() JobStatus
}

// JobManager manages async jobs. Finished jobs beyond the retention limit are
// dropped oldest first.
type JobManager struct {
	jobs      map[string]*PeopleJob
	order     []string
	retention int
	mu        sync.RWMutex
}

// NewJobManager creates a new job manager.
func NewJobManager() *JobManager {
	return &JobManager{
		jobs:      make(map[string]*PeopleJob),
		retention: constants.JobRetention,
	}
}

// CreateJob creates a new people job.
func (m *JobManager) CreateJob(id string, options PeopleJobOptions) *PeopleJob {
	job := &PeopleJob{
		ID:        id,
		Status:    JobStatusPending,
		StartedAt: time.Now(),
		Options:   options,
	}

	m.mu.Lock()
	m.jobs[id] = job
	m.order = append(m.order, id)
	m.pruneLocked()
	m.mu.Unlock()

	return job
}

// pruneLocked removes the oldest finished jobs above the retention limit.
func (m *JobManager) pruneLocked() {
	excess := len(m.order) - m.retention
	if excess <= 0 {
		return
	}
	kept := m.order[:0]
	for _, id := range m.order {
		if excess > 0 && isJobTerminal(m.jobs[id].GetStatus()) {
			delete(m.jobs, id)
			excess--
			continue
		}
		kept = append(kept, id)
	}
	m.order = kept
}

// GetJob retrieves a job by ID.
func (m *JobManager) GetJob(id string) *PeopleJob {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.jobs[id]
}

// DeleteJob removes a job.
func (m *JobManager) DeleteJob(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.jobs, id)
	m.order = slices.DeleteFunc(m.order, func(s string) bool { return s == id })
}

// ListJobs returns all jobs in creation order.
func (m *JobManager) ListJobs() []*PeopleJob {
	m.mu.RLock()
	defer m.mu.RUnlock()
	jobs := make([]*PeopleJob, 0, len(m.order))
	for _, id := range m.order {
		jobs = append(jobs, m.jobs[id])
	}
	return jobs
}

// CancelAll cancels every running job.
func (m *JobManager) CancelAll() {
	for _, job := range m.ListJobs() {
		job.Cancel()
	}
}
