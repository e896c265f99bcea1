package handlers

import (
	"strconv"
	"testing"
)

func TestJobManager_PrunesFinishedJobs(t *testing.T) {
	jm := NewJobManager()
	jm.retention = 3

	running := jm.CreateJob("running", PeopleJobOptions{})
	running.Status = JobStatusRunning
	for i := 0; i < 4; i++ {
		job := jm.CreateJob("done-"+strconv.Itoa(i), PeopleJobOptions{})
		job.Status = JobStatusCompleted
	}
	jm.CreateJob("latest", PeopleJobOptions{})

	if jm.GetJob("running") == nil {
		t.Error("expected running job to be kept")
	}
	if jm.GetJob("latest") == nil {
		t.Error("expected newest job to be kept")
	}
	if got := len(jm.ListJobs()); got != 3 {
		t.Errorf("expected 3 retained jobs, got %d", got)
	}
	if jm.GetJob("done-0") != nil {
		t.Error("expected oldest finished job to be pruned")
	}
}

func TestPeopleJob_CancelIsTerminal(t *testing.T) {
	jm := NewJobManager()
	job := jm.CreateJob("j", PeopleJobOptions{})
	ch := job.AddListener()
	defer job.RemoveListener(ch)

	job.Cancel()
	if job.GetStatus() != JobStatusCancelled {
		t.Errorf("expected cancelled, got %s", job.GetStatus())
	}
	if ev := <-ch; ev.Type != "cancelled" {
		t.Errorf("expected cancelled event, got %s", ev.Type)
	}

	// Cancelling again does nothing.
	job.Cancel()
	select {
	case ev := <-ch:
		t.Errorf("unexpected event %+v", ev)
	default:
	}
}

func TestJobManager_DeleteJob(t *testing.T) {
	jm := NewJobManager()
	jm.CreateJob("a", PeopleJobOptions{})
	jm.CreateJob("b", PeopleJobOptions{})
	jm.DeleteJob("a")

	jobs := jm.ListJobs()
	if len(jobs) != 1 || jobs[0].ID != "b" {
		t.Errorf("unexpected jobs after delete: %+v", jobs)
	}
}
