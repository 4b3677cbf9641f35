package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"tokenomics-lab/internal/domain"
)

// drain collects every event until the subscription channel closes.
func drain(ch <-chan Event) []Event {
	var events []Event
	for ev := range ch {
		events = append(events, ev)
	}
	return events
}

func TestManager_SubmitComplete(t *testing.T) {
	m := NewManager(ManagerOptions{})

	job, err := m.Submit(KindMonteCarlo, func(ctx context.Context, sink domain.ProgressSink) error {
		sink.OnProgress(25)
		sink.OnProgress(50)
		sink.OnProgress(100)
		sink.OnComplete("done")
		return nil
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	ch, release, ok := m.Subscribe(job.ID)
	if !ok {
		t.Fatalf("Subscribe(%q) not found", job.ID)
	}
	defer release()

	events := drain(ch)
	if len(events) == 0 {
		t.Fatal("no events delivered")
	}

	// Progress must be non-decreasing and the terminal event must come
	// last, exactly once.
	lastPct := 0.0
	for i, ev := range events {
		switch ev.Type {
		case EventProgress:
			if ev.Percentage < lastPct {
				t.Errorf("event %d: percentage %v regressed below %v", i, ev.Percentage, lastPct)
			}
			lastPct = ev.Percentage
		case EventComplete, EventError:
			if i != len(events)-1 {
				t.Errorf("terminal event at index %d of %d", i, len(events))
			}
		}
	}
	final := events[len(events)-1]
	if final.Type != EventComplete {
		t.Fatalf("final event type = %s, want %s", final.Type, EventComplete)
	}
	if final.Result != "done" {
		t.Errorf("final result = %v, want done", final.Result)
	}
	if got := job.Status(); got != StatusComplete {
		t.Errorf("job status = %s, want %s", got, StatusComplete)
	}
}

func TestManager_SubmitFailure(t *testing.T) {
	m := NewManager(ManagerOptions{})

	job, err := m.Submit(KindDeterministic, func(ctx context.Context, sink domain.ProgressSink) error {
		return errors.New("boom")
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	ch, release, ok := m.Subscribe(job.ID)
	if !ok {
		t.Fatal("Subscribe() not found")
	}
	defer release()

	events := drain(ch)
	final := events[len(events)-1]
	if final.Type != EventError {
		t.Fatalf("final event type = %s, want %s", final.Type, EventError)
	}
	if final.Message != "boom" {
		t.Errorf("final message = %q, want boom", final.Message)
	}
	if got := job.Status(); got != StatusFailed {
		t.Errorf("job status = %s, want %s", got, StatusFailed)
	}
}

func TestManager_Cancel(t *testing.T) {
	m := NewManager(ManagerOptions{})

	started := make(chan struct{})
	job, err := m.Submit(KindAgentBased, func(ctx context.Context, sink domain.ProgressSink) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	<-started

	ch, release, ok := m.Subscribe(job.ID)
	if !ok {
		t.Fatal("Subscribe() not found")
	}
	defer release()

	if !m.Cancel(job.ID) {
		t.Fatal("Cancel() = false, want true")
	}

	events := drain(ch)
	final := events[len(events)-1]
	if final.Type != EventError {
		t.Fatalf("final event type = %s, want %s", final.Type, EventError)
	}
	if got := job.Status(); got != StatusCancelled {
		t.Errorf("job status = %s, want %s", got, StatusCancelled)
	}

	// A second cancel on a terminal job is a no-op.
	if m.Cancel(job.ID) {
		t.Error("Cancel() on terminal job = true, want false")
	}
}

func TestManager_LateSubscriber(t *testing.T) {
	m := NewManager(ManagerOptions{})

	finished := make(chan struct{})
	job, err := m.Submit(KindMonteCarlo, func(ctx context.Context, sink domain.ProgressSink) error {
		sink.OnProgress(100)
		sink.OnComplete(42)
		close(finished)
		return nil
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	<-finished

	// Wait for the job record to turn terminal; the sink calls above make
	// it so before finished is closed.
	if got := job.Status(); got != StatusComplete {
		t.Fatalf("job status = %s, want %s", got, StatusComplete)
	}

	ch, release, ok := m.Subscribe(job.ID)
	if !ok {
		t.Fatal("Subscribe() not found")
	}
	defer release()

	events := drain(ch)
	final := events[len(events)-1]
	if final.Type != EventComplete {
		t.Fatalf("late subscriber final event = %s, want %s", final.Type, EventComplete)
	}
	if final.Result != 42 {
		t.Errorf("late subscriber result = %v, want 42", final.Result)
	}
}

func TestManager_MonotonicProgress(t *testing.T) {
	m := NewManager(ManagerOptions{})

	job, err := m.Submit(KindMonteCarlo, func(ctx context.Context, sink domain.ProgressSink) error {
		// Misbehaving producer: regressions and duplicates must be
		// filtered out before they reach subscribers.
		sink.OnProgress(10)
		sink.OnProgress(40)
		sink.OnProgress(30)
		sink.OnProgress(40)
		sink.OnProgress(70)
		sink.OnComplete(nil)
		return nil
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	ch, release, ok := m.Subscribe(job.ID)
	if !ok {
		t.Fatal("Subscribe() not found")
	}
	defer release()

	lastPct := -1.0
	for _, ev := range drain(ch) {
		if ev.Type != EventProgress {
			continue
		}
		if ev.Percentage <= lastPct {
			t.Errorf("progress %v did not increase past %v", ev.Percentage, lastPct)
		}
		lastPct = ev.Percentage
	}
}

func TestManager_Sweep(t *testing.T) {
	m := NewManager(ManagerOptions{})

	job, err := m.Submit(KindDeterministic, func(ctx context.Context, sink domain.ProgressSink) error {
		sink.OnComplete(nil)
		return nil
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	ch, release, _ := m.Subscribe(job.ID)
	drain(ch)
	release()

	// Negative max age sweeps everything terminal regardless of when it
	// finished.
	if removed := m.Sweep(-time.Second); removed != 1 {
		t.Fatalf("Sweep() removed %d, want 1", removed)
	}
	if _, ok := m.Get(job.ID); ok {
		t.Error("swept job still retrievable")
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0", m.Len())
	}
}

func TestManager_SubscribeUnknownJob(t *testing.T) {
	m := NewManager(ManagerOptions{})
	if _, _, ok := m.Subscribe("nope"); ok {
		t.Error("Subscribe() on unknown job = true, want false")
	}
	if m.Cancel("nope") {
		t.Error("Cancel() on unknown job = true, want false")
	}
}
