package pipeline

import (
	"context"

	"go.uber.org/zap"
)

// DefaultQueueSize bounds the number of triggers waiting behind a running action.
const DefaultQueueSize = 8

// Runner is one schedulable unit of work.
type Runner interface {
	Run(ctx context.Context) Outcome
}

// Worker executes triggered runs one after another on its own goroutine, so
// the caller of Trigger never waits for the delay or the clipboard.
type Worker struct {
	runner   Runner
	triggers chan struct{}
	logger   *zap.Logger
	observer func(Outcome)
}

// WorkerOption customizes a Worker.
type WorkerOption func(*Worker)

// WithQueueSize sets how many triggers may wait behind the running one.
func WithQueueSize(size int) WorkerOption {
	return func(worker *Worker) {
		if size > 0 {
			worker.triggers = make(chan struct{}, size)
		}
	}
}

// WithObserver registers a callback receiving every outcome.
func WithObserver(observer func(Outcome)) WorkerOption {
	return func(worker *Worker) {
		worker.observer = observer
	}
}

// NewWorker constructs a Worker around runner.
func NewWorker(runner Runner, logger *zap.Logger, options ...WorkerOption) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	worker := &Worker{
		runner:   runner,
		triggers: make(chan struct{}, DefaultQueueSize),
		logger:   logger,
	}
	for _, option := range options {
		option(worker)
	}
	return worker
}

// Trigger queues one run without blocking and reports whether it was accepted.
func (worker *Worker) Trigger() bool {
	select {
	case worker.triggers <- struct{}{}:
		return true
	default:
		worker.logger.Warn("normalization queue full, dropping trigger")
		return false
	}
}

// Run executes queued runs until ctx ends.
func (worker *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-worker.triggers:
			outcome := worker.runner.Run(ctx)
			if worker.observer != nil {
				worker.observer(outcome)
			}
		}
	}
}
