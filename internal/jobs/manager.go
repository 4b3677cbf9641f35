package jobs

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"tokenomics-lab/internal/domain"
	"tokenomics-lab/internal/idhash"
	"tokenomics-lab/internal/observability"
)

// RunFunc executes a job's simulation work. Implementations report
// progress and the terminal result through sink; a non-nil return is
// recorded as the job's failure when no terminal sink call was made.
type RunFunc func(ctx context.Context, sink domain.ProgressSink) error

// Manager owns the set of asynchronous simulation jobs: submission,
// progress subscriptions, cancellation, and retention sweeping. Each job
// runs on its own goroutine with independently owned state, so jobs never
// contend on anything but the manager's bookkeeping map.
type Manager struct {
	logger  *log.Logger
	verbose bool

	mu   sync.Mutex
	jobs map[string]*Job
}

// ManagerOptions contains configuration for creating a Manager.
type ManagerOptions struct {
	Logger  *log.Logger
	Verbose bool
}

// NewManager creates a job manager.
func NewManager(opts ManagerOptions) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "[jobs] ", log.LstdFlags)
	}
	return &Manager{
		logger:  logger,
		verbose: opts.Verbose,
		jobs:    make(map[string]*Job),
	}
}

// Submit registers a new job and starts it on its own goroutine. The
// returned Job carries the opaque identifier callers poll or subscribe
// with.
func (m *Manager) Submit(kind Kind, run RunFunc) (*Job, error) {
	id, err := idhash.NewJobID()
	if err != nil {
		return nil, fmt.Errorf("jobs: generating id: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	job := newJob(id, kind, cancel)

	m.mu.Lock()
	m.jobs[id] = job
	m.mu.Unlock()

	observability.RecordJobSubmitted(string(kind))
	m.log("job %s submitted kind=%s", id, kind)

	go func() {
		defer cancel()
		defer observability.RecordJobFinished()

		err := run(ctx, jobSink{job: job})
		if err != nil {
			job.fail(err.Error())
		} else if job.Status() == StatusRunning {
			// Defensive: a RunFunc that returns nil without a terminal
			// sink call would otherwise leave subscribers hanging.
			job.fail("job finished without a result")
		}
		m.log("job %s finished status=%s", id, job.Status())
	}()

	return job, nil
}

// Get returns a job by ID.
func (m *Manager) Get(id string) (*Job, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	return job, ok
}

// Subscribe attaches a progress channel to a job. The channel replays the
// latest percentage (and the terminal event for finished jobs), then
// streams live events until the job terminates, after which it is closed.
// The returned release function detaches an abandoned subscription; it is
// safe to call after termination.
func (m *Manager) Subscribe(id string) (<-chan Event, func(), bool) {
	job, ok := m.Get(id)
	if !ok {
		return nil, nil, false
	}

	ch, unsubscribe := job.subscribe()
	observability.RecordSubscriberChange(1)
	release := func() {
		unsubscribe()
		observability.RecordSubscriberChange(-1)
	}
	return ch, release, true
}

// Cancel requests a best-effort stop of a running job. The job's worker
// observes the cancelled context between trials or months; the job then
// terminates with a single error event and StatusCancelled. Returns false
// for unknown or already-terminal jobs.
func (m *Manager) Cancel(id string) bool {
	job, ok := m.Get(id)
	if !ok {
		return false
	}
	if !job.markCancelled() {
		return false
	}
	job.cancel()
	m.log("job %s cancel requested", id)
	return true
}

// Sweep removes terminal jobs that completed before now-maxAge and
// returns how many were dropped. Running jobs are never swept.
func (m *Manager) Sweep(maxAge time.Duration) int {
	cutoff := time.Now().UTC().Add(-maxAge)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, job := range m.jobs {
		completed := job.CompletedAt()
		if !completed.IsZero() && completed.Before(cutoff) {
			delete(m.jobs, id)
			removed++
		}
	}
	if removed > 0 {
		m.log("swept %d terminal jobs", removed)
	}
	return removed
}

// Len returns the number of tracked jobs, running and terminal.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.jobs)
}

func (m *Manager) log(format string, args ...interface{}) {
	if m.verbose {
		m.logger.Printf(format, args...)
	}
}

// jobSink adapts a Job to the domain.ProgressSink interface handed to
// orchestrators. The Job's own guards enforce monotonic progress and a
// single terminal transition.
type jobSink struct {
	job *Job
}

func (s jobSink) OnProgress(pct float64) {
	s.job.publishProgress(pct)
}

func (s jobSink) OnComplete(result interface{}) {
	s.job.complete(result)
}

func (s jobSink) OnError(msg string) {
	s.job.fail(msg)
}
