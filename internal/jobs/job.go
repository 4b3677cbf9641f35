package jobs

import (
	"context"
	"sync"
	"time"
)

// Kind identifies which simulation mode a job runs.
type Kind string

// Job kinds
const (
	KindDeterministic Kind = "deterministic"
	KindMonteCarlo    Kind = "monte_carlo"
	KindAgentBased    Kind = "agent_based"
)

// Status is a job's lifecycle state.
type Status string

// Job statuses
const (
	StatusRunning   Status = "running"
	StatusComplete  Status = "complete"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// EventType tags progress-channel messages.
type EventType string

// Event types. Every subscription sees zero or more progress events in
// non-decreasing percentage order, then exactly one complete or error
// event, after which its channel is closed.
const (
	EventProgress EventType = "progress"
	EventComplete EventType = "complete"
	EventError    EventType = "error"
)

// Event is one progress-channel message.
type Event struct {
	Type       EventType   `json:"type"`
	Percentage float64     `json:"percentage,omitempty"`
	Result     interface{} `json:"result,omitempty"`
	Message    string      `json:"message,omitempty"`
}

// subscriberBuffer bounds each subscription channel. Progress events are
// dropped for subscribers that fall this far behind; the closed channel
// still signals termination and the final state remains readable on the
// job itself.
const subscriberBuffer = 64

// Job is one asynchronous simulation run. All fields behind mu; reads go
// through snapshot accessors.
type Job struct {
	ID        string
	Kind      Kind
	CreatedAt time.Time

	cancel context.CancelFunc

	mu          sync.Mutex
	status      Status
	lastPct     float64
	result      interface{}
	errMsg      string
	cancelled   bool
	completedAt time.Time
	subscribers map[chan Event]struct{}
}

func newJob(id string, kind Kind, cancel context.CancelFunc) *Job {
	return &Job{
		ID:          id,
		Kind:        kind,
		CreatedAt:   time.Now().UTC(),
		cancel:      cancel,
		status:      StatusRunning,
		subscribers: make(map[chan Event]struct{}),
	}
}

// Status returns the job's current lifecycle state.
func (j *Job) Status() Status {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status
}

// Progress returns the last published percentage.
func (j *Job) Progress() float64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.lastPct
}

// Result returns the final result and error message once terminal.
func (j *Job) Result() (interface{}, string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result, j.errMsg
}

// CompletedAt returns the terminal timestamp, zero while running.
func (j *Job) CompletedAt() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.completedAt
}

func (j *Job) terminal() bool {
	return j.status != StatusRunning
}

// markCancelled flags the job so the eventual failure records
// StatusCancelled instead of StatusFailed. Returns false when the job is
// already terminal.
func (j *Job) markCancelled() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.terminal() {
		return false
	}
	j.cancelled = true
	return true
}

// subscribe registers a new channel and replays current state into it:
// the latest progress percentage if any, plus the terminal event when the
// job already finished.
func (j *Job) subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	j.mu.Lock()
	if j.lastPct > 0 {
		ch <- Event{Type: EventProgress, Percentage: j.lastPct}
	}
	if j.terminal() {
		ch <- j.terminalEventLocked()
		close(ch)
		j.mu.Unlock()
		return ch, func() {}
	}
	j.subscribers[ch] = struct{}{}
	j.mu.Unlock()

	unsubscribe := func() {
		j.mu.Lock()
		if _, ok := j.subscribers[ch]; ok {
			delete(j.subscribers, ch)
			close(ch)
		}
		j.mu.Unlock()
	}
	return ch, unsubscribe
}

func (j *Job) terminalEventLocked() Event {
	if j.status == StatusComplete {
		return Event{Type: EventComplete, Result: j.result}
	}
	return Event{Type: EventError, Message: j.errMsg}
}

// publishProgress fans a progress event out to subscribers. Regressing or
// duplicate percentages and anything after the terminal event are dropped,
// which keeps the ordering guarantee even with misbehaving producers.
func (j *Job) publishProgress(pct float64) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.terminal() || pct <= j.lastPct {
		return
	}
	j.lastPct = pct

	ev := Event{Type: EventProgress, Percentage: pct}
	for ch := range j.subscribers {
		select {
		case ch <- ev:
		default: // subscriber fell behind, drop
		}
	}
}

// complete transitions the job to its success state. Only the first
// terminal transition wins.
func (j *Job) complete(result interface{}) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.terminal() {
		return
	}
	j.status = StatusComplete
	j.result = result
	j.completedAt = time.Now().UTC()
	j.closeSubscribersLocked()
}

// fail transitions the job to failed, or cancelled when Cancel was
// requested first.
func (j *Job) fail(msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.terminal() {
		return
	}
	if j.cancelled {
		j.status = StatusCancelled
	} else {
		j.status = StatusFailed
	}
	j.errMsg = msg
	j.completedAt = time.Now().UTC()
	j.closeSubscribersLocked()
}

// closeSubscribersLocked delivers the terminal event and closes every
// subscription. The terminal send is best-effort for saturated buffers;
// the close itself is the hard termination signal.
func (j *Job) closeSubscribersLocked() {
	ev := j.terminalEventLocked()
	for ch := range j.subscribers {
		select {
		case ch <- ev:
		default:
		}
		close(ch)
		delete(j.subscribers, ch)
	}
}
