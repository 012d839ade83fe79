package pipeline

import (
	"context"
	"sync"
	"testing"
	"time"
)

type blockingRunner struct {
	mutex    sync.Mutex
	release  chan struct{}
	running  int
	overlaps int
	runs     int
}

func (runner *blockingRunner) Run(ctx context.Context) Outcome {
	runner.mutex.Lock()
	runner.running++
	if runner.running > 1 {
		runner.overlaps++
	}
	runner.mutex.Unlock()

	select {
	case <-runner.release:
	case <-ctx.Done():
	}

	runner.mutex.Lock()
	runner.running--
	runner.runs++
	runner.mutex.Unlock()
	return OutcomeWritten
}

func TestWorkerRunsTriggersSerially(t *testing.T) {
	runner := &blockingRunner{release: make(chan struct{})}
	outcomes := make(chan Outcome, 3)
	worker := NewWorker(runner, nil, WithObserver(func(outcome Outcome) { outcomes <- outcome }))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	for index := 0; index < 3; index++ {
		if !worker.Trigger() {
			t.Fatalf("trigger %d rejected", index)
		}
	}
	for index := 0; index < 3; index++ {
		runner.release <- struct{}{}
		select {
		case outcome := <-outcomes:
			if outcome != OutcomeWritten {
				t.Fatalf("unexpected outcome %v", outcome)
			}
		case <-time.After(time.Second):
			t.Fatalf("run %d did not finish", index)
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("worker returned error: %v", err)
	}
	runner.mutex.Lock()
	defer runner.mutex.Unlock()
	if runner.runs != 3 {
		t.Fatalf("expected 3 runs, got %d", runner.runs)
	}
	if runner.overlaps != 0 {
		t.Fatalf("expected serial runs, saw %d overlaps", runner.overlaps)
	}
}

func TestWorkerTriggerDoesNotBlockWhenQueueFull(t *testing.T) {
	worker := NewWorker(&blockingRunner{release: make(chan struct{})}, nil, WithQueueSize(1))
	if !worker.Trigger() {
		t.Fatalf("expected first trigger to be queued")
	}
	if worker.Trigger() {
		t.Fatalf("expected second trigger to be dropped")
	}
}

func TestWorkerWithActionNormalizesClipboard(t *testing.T) {
	channel := newFakeChannel("Hello\r\nWorld")
	outcomes := make(chan Outcome, 1)
	worker := NewWorker(NewAction(channel, nil, 0, nil), nil, WithObserver(func(outcome Outcome) { outcomes <- outcome }))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	worker.Trigger()
	select {
	case outcome := <-outcomes:
		if outcome != OutcomeWritten {
			t.Fatalf("expected written, got %v", outcome)
		}
	case <-time.After(time.Second):
		t.Fatalf("action did not run")
	}
	if text, _, _ := channel.snapshot(); text != "Hello World" {
		t.Fatalf("expected %q, got %q", "Hello World", text)
	}
}
