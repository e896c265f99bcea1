package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kozaktomas/lifeline/internal/people"
	"github.com/kozaktomas/lifeline/internal/photo"
)

// PeopleHandler runs scan-and-cluster jobs in the background.
type PeopleHandler struct {
	pipeline   *people.Pipeline
	jobManager *JobManager
	threshold  float64
	loc        *time.Location
	log        zerolog.Logger
}

// NewPeopleHandler creates a new people handler
func NewPeopleHandler(p *people.Pipeline, jm *JobManager, threshold float64, loc *time.Location, log zerolog.Logger) *PeopleHandler {
	return &PeopleHandler{
		pipeline:   p,
		jobManager: jm,
		threshold:  threshold,
		loc:        loc,
		log:        log,
	}
}

// PeopleRequest represents a people job start request
type PeopleRequest struct {
	From      string  `json:"from" validate:"omitempty,datetime=2006-01-02"`
	To        string  `json:"to" validate:"omitempty,datetime=2006-01-02"`
	Threshold float64 `json:"threshold" validate:"gte=0"`
}

// Start starts a new people job
func (h *PeopleHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req PeopleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, requestErrorMessage(err))
		return
	}

	dr, err := parseDays(req.From, req.To, h.loc)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Threshold == 0 {
		req.Threshold = h.threshold
	}

	jobID := uuid.New().String()
	job := h.jobManager.CreateJob(jobID, PeopleJobOptions{
		From:        req.From,
		To:          req.To,
		Threshold:   req.Threshold,
		Concurrency: h.pipeline.Concurrency,
	})

	ctx, cancel := context.WithCancel(context.Background())
	job.setCancel(cancel)
	go h.runPeopleJob(ctx, cancel, job, dr)

	respondJSON(w, http.StatusAccepted, map[string]string{
		"job_id": jobID,
		"status": string(JobStatusPending),
	})
}

// Status returns the status of a people job
func (h *PeopleHandler) Status(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobId")
	if jobID == "" {
		respondError(w, http.StatusBadRequest, "missing job ID")
		return
	}

	job := h.jobManager.GetJob(jobID)
	if job == nil {
		respondError(w, http.StatusNotFound, "job not found")
		return
	}

	respondJSON(w, http.StatusOK, job.Snapshot())
}

// Events streams job events via SSE
func (h *PeopleHandler) Events(w http.ResponseWriter, r *http.Request) {
	streamSSEEvents(w, r,
		func(id string) SSEJob {
			job := h.jobManager.GetJob(id)
			if job == nil {
				return nil
			}
			return job
		},
		func(job SSEJob) any {
			return job.(*PeopleJob).Snapshot()
		},
	)
}

// Cancel cancels a people job. Its result is discarded.
func (h *PeopleHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobId")
	if jobID == "" {
		respondError(w, http.StatusBadRequest, "missing job ID")
		return
	}

	job := h.jobManager.GetJob(jobID)
	if job == nil {
		respondError(w, http.StatusNotFound, "job not found")
		return
	}

	job.Cancel()
	respondJSON(w, http.StatusOK, map[string]bool{"cancelled": true})
}

// runPeopleJob runs the people job in the background
func (h *PeopleHandler) runPeopleJob(ctx context.Context, cancel context.CancelFunc, job *PeopleJob, dr photo.DateRange) {
	defer cancel()
	log := h.log.With().Str("job_id", job.ID).Logger()

	job.mu.Lock()
	if job.Status == JobStatusCancelled {
		job.mu.Unlock()
		return
	}
	job.Status = JobStatusRunning
	job.mu.Unlock()
	job.SendEvent(JobEvent{Type: "started", Message: "People job started"})

	pipeline := *h.pipeline
	pipeline.Log = log

	report, err := pipeline.Run(ctx, dr, job.Options.Threshold, people.Events{
		Listed: func(total int) {
			job.mu.Lock()
			job.TotalPhotos = total
			job.mu.Unlock()
			job.SendEvent(JobEvent{Type: "photos_listed", Data: map[string]int{"total": total}})
		},
		Progress: func(done, total int) {
			job.mu.Lock()
			job.ProcessedPhotos = done
			if total > 0 {
				job.Progress = done * 100 / total
			}
			job.mu.Unlock()
			job.SendEvent(JobEvent{Type: "progress", Data: map[string]int{"processed": done, "total": total}})
		},
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info().Msg("people job cancelled")
			return
		}
		h.failJob(job, err)
		return
	}

	result := &PeopleJobResult{
		PhotoCount:   len(report.Photos),
		FaceCount:    len(report.Scan.Faces),
		SkippedCount: len(report.Scan.Skipped),
		Skipped:      report.Scan.Skipped,
		Clusters:     report.Clusters,
		People:       report.People,
	}

	job.mu.Lock()
	if job.Status == JobStatusCancelled {
		job.mu.Unlock()
		return
	}
	now := time.Now()
	job.Status = JobStatusCompleted
	job.Progress = 100
	job.CompletedAt = &now
	job.Result = result
	job.mu.Unlock()

	job.SendEvent(JobEvent{
		Type:    "completed",
		Message: fmt.Sprintf("Found %d people in %d photos", len(result.Clusters), result.PhotoCount),
		Data:    result,
	})
}

// failJob marks a job as failed and notifies listeners. Cancelled jobs stay cancelled.
func (h *PeopleHandler) failJob(job *PeopleJob, err error) {
	h.log.Error().Err(err).Str("job_id", job.ID).Msg("people job failed")

	job.mu.Lock()
	if job.Status == JobStatusCancelled {
		job.mu.Unlock()
		return
	}
	now := time.Now()
	job.Status = JobStatusFailed
	job.Error = err.Error()
	job.CompletedAt = &now
	job.mu.Unlock()

	job.SendEvent(JobEvent{Type: "failed", Message: err.Error()})
}
