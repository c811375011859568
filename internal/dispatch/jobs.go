package dispatch

import (
	"context"
	"sync"
	"time"

	pkgmodels "event-checkin/pkg/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type JobState string

const (
	JobRunning   JobState = "running"
	JobCompleted JobState = "completed"
	JobCancelled JobState = "cancelled"
)

// Job is the observable record of one background broadcast.
type Job struct {
	ID         string               `json:"id"`
	State      JobState             `json:"state"`
	Report     pkgmodels.BulkReport `json:"report"`
	StartedAt  time.Time            `json:"started_at"`
	FinishedAt *time.Time           `json:"finished_at,omitempty"`
}

type job struct {
	Job
	cancel context.CancelFunc
}

// JobRunner detaches broadcasts from the request that started them. The
// initiator gets the job id immediately and polls the report later.
type JobRunner struct {
	broadcaster *Broadcaster
	notify      func(Job)
	log         zerolog.Logger

	mu   sync.Mutex
	jobs map[string]*job
}

func NewJobRunner(broadcaster *Broadcaster, log zerolog.Logger) *JobRunner {
	return &JobRunner{
		broadcaster: broadcaster,
		jobs:        make(map[string]*job),
		log:         log.With().Str("component", "jobs").Logger(),
	}
}

// SetNotify registers a hook invoked when a job finishes.
func (r *JobRunner) SetNotify(fn func(Job)) {
	r.notify = fn
}

// Start launches a broadcast in the background and returns its job id.
func (r *JobRunner) Start(rows []pkgmodels.BroadcastRow, template string) string {
	ctx, cancel := context.WithCancel(context.Background())
	j := &job{
		Job: Job{
			ID:        uuid.NewString(),
			State:     JobRunning,
			StartedAt: time.Now(),
		},
		cancel: cancel,
	}

	r.mu.Lock()
	r.jobs[j.ID] = j
	r.mu.Unlock()

	go func() {
		defer cancel()
		report := r.broadcaster.Broadcast(ctx, rows, template)

		r.mu.Lock()
		j.Report = report
		if j.State == JobRunning {
			j.State = JobCompleted
		}
		now := time.Now()
		j.FinishedAt = &now
		done := j.Job
		r.mu.Unlock()

		if r.notify != nil {
			r.notify(done)
		}
	}()

	return j.ID
}

// Get returns a copy of the job record.
func (r *JobRunner) Get(id string) (Job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return Job{}, false
	}
	return j.Job, true
}

// Cancel asks a running broadcast to stop between rows. Returns false if
// the job is unknown or already finished.
func (r *JobRunner) Cancel(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok || j.State != JobRunning {
		return false
	}
	j.State = JobCancelled
	j.cancel()
	r.log.Info().Str("job", id).Msg("Broadcast cancellation requested")
	return true
}
