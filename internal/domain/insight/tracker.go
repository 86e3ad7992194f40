package insight

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/cohortinsights/pkg/metrics"
)

// State is the lifecycle state of an insight job.
type State string

// Job states. A job moves Idle -> Loading -> Success|Error.
const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateSuccess State = "success"
	StateError   State = "error"
)

const defaultRetention = time.Hour

// Job is a snapshot of one insight generation.
type Job struct {
	ID          string    `json:"id"`
	Scope       string    `json:"scope"`
	Fingerprint string    `json:"-"`
	Owner       string    `json:"-"`
	Generation  uint64    `json:"generation"`
	State       State     `json:"state"`
	Stale       bool      `json:"stale"`
	Request     Request   `json:"-"`
	Cohort      string    `json:"cohort,omitempty"`
	Result      *Result   `json:"result,omitempty"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	CompletedAt time.Time `json:"completed_at,omitempty"`
}

// Done reports whether the job reached a terminal state.
func (j Job) Done() bool { return j.State == StateSuccess || j.State == StateError }

// Tracker stores insight jobs and enforces the per-scope generation guard:
// every submission for a scope takes the next generation, and a job that
// completes after a newer submission is marked stale and never published.
type Tracker struct {
	mu         sync.Mutex
	jobs       map[string]*Job
	generation map[string]uint64
	latest     map[string]string
	retention  time.Duration
	now        func() time.Time
}

// TrackerOption applies a configuration option to the Tracker.
type TrackerOption func(*Tracker)

// WithRetention sets how long finished jobs are kept.
func WithRetention(d time.Duration) TrackerOption {
	return func(t *Tracker) {
		if d > 0 {
			t.retention = d
		}
	}
}

// WithTrackerClock sets the time source.
func WithTrackerClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// NewTracker creates an empty tracker.
func NewTracker(opts ...TrackerOption) *Tracker {
	t := &Tracker{
		jobs:       make(map[string]*Job),
		generation: make(map[string]uint64),
		latest:     make(map[string]string),
		retention:  defaultRetention,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Begin registers a new loading job for scope. A loading job of the same
// scope with the same fingerprint yields ErrInFlight.
func (t *Tracker) Begin(scope, fingerprint, owner, cohort string, req Request) (Job, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.pruneLocked()
	for _, j := range t.jobs {
		if j.Scope == scope && j.Fingerprint == fingerprint && j.State == StateLoading &&
			j.Generation == t.generation[scope] {
			return Job{}, ErrInFlight
		}
	}

	t.generation[scope]++
	j := &Job{
		ID:          uuid.NewString(),
		Scope:       scope,
		Fingerprint: fingerprint,
		Owner:       owner,
		Generation:  t.generation[scope],
		State:       StateLoading,
		Request:     req,
		Cohort:      cohort,
		CreatedAt:   t.now(),
	}
	t.jobs[j.ID] = j
	return *j, nil
}

// Complete records the outcome of a job. It returns false when the job was
// superseded by a newer generation of its scope; such results are kept on
// the job but not published as the scope's latest.
func (t *Tracker) Complete(id string, res Result, err error) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	j, ok := t.jobs[id]
	if !ok {
		return false, ErrJobNotFound
	}
	j.CompletedAt = t.now()
	if err != nil {
		j.State = StateError
		j.Error = err.Error()
	} else {
		j.State = StateSuccess
		j.Result = &res
	}

	if j.Generation != t.generation[j.Scope] {
		j.Stale = true
		metrics.RecordStaleInsight()
		return false, nil
	}
	if err == nil {
		t.latest[j.Scope] = j.ID
	}
	return true, nil
}

// Get returns a snapshot of a job.
func (t *Tracker) Get(id string) (Job, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	j, ok := t.jobs[id]
	if !ok {
		return Job{}, ErrJobNotFound
	}
	return *j, nil
}

// Latest returns the most recent published successful job of scope.
func (t *Tracker) Latest(scope string) (Job, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	id, ok := t.latest[scope]
	if !ok {
		return Job{}, false
	}
	j, ok := t.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *j, true
}

// Current returns the current generation of scope.
func (t *Tracker) Current(scope string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.generation[scope]
}

func (t *Tracker) pruneLocked() {
	cutoff := t.now().Add(-t.retention)
	for id, j := range t.jobs {
		if j.Done() && j.CompletedAt.Before(cutoff) && t.latest[j.Scope] != id {
			delete(t.jobs, id)
		}
	}
}
