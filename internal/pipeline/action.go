// Package pipeline runs the clipboard normalization triggered by a double press.
package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/WXR-SEU/CtrlC-C/internal/normalize"
)

// DefaultDelay lets the clipboard update from the second copy land before it is read.
const DefaultDelay = 100 * time.Millisecond

// Outcome describes how one run ended.
type Outcome int

const (
	// OutcomeCancelled means the context ended before the clipboard was read.
	OutcomeCancelled Outcome = iota
	// OutcomeEmpty means the clipboard held no text.
	OutcomeEmpty
	// OutcomeUnchanged means normalization produced the same text and nothing was written.
	OutcomeUnchanged
	// OutcomeWritten means the normalized text replaced the clipboard content.
	OutcomeWritten
	// OutcomeWriteFailed means the normalized text could not be stored.
	OutcomeWriteFailed
)

func (outcome Outcome) String() string {
	switch outcome {
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeEmpty:
		return "empty"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeWritten:
		return "written"
	case OutcomeWriteFailed:
		return "write_failed"
	default:
		return "unknown"
	}
}

// ClipboardChannel reads and writes clipboard text.
type ClipboardChannel interface {
	Read(ctx context.Context) (string, bool)
	Write(ctx context.Context, text string) bool
}

// OptionsSource supplies the normalization options at run time.
type OptionsSource interface {
	NormalizationOptions() normalize.Options
}

// StaticOptions is an OptionsSource with fixed options.
type StaticOptions normalize.Options

// NormalizationOptions returns the fixed options.
func (options StaticOptions) NormalizationOptions() normalize.Options {
	return normalize.Options(options)
}

// Action reads the clipboard, normalizes the text and writes it back when it changed.
type Action struct {
	channel ClipboardChannel
	options OptionsSource
	delay   time.Duration
	logger  *zap.Logger
}

// NewAction constructs an Action. A negative delay is treated as zero.
func NewAction(channel ClipboardChannel, options OptionsSource, delay time.Duration, logger *zap.Logger) *Action {
	if delay < 0 {
		delay = 0
	}
	if options == nil {
		options = StaticOptions{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Action{channel: channel, options: options, delay: delay, logger: logger}
}

// Run performs one normalization pass.
func (action *Action) Run(ctx context.Context) Outcome {
	if ctx == nil {
		ctx = context.Background()
	}
	if !wait(ctx, action.delay) {
		return action.finish(OutcomeCancelled, 0, 0)
	}

	current, ok := action.channel.Read(ctx)
	if !ok || current == "" {
		return action.finish(OutcomeEmpty, 0, 0)
	}

	options := action.options.NormalizationOptions()
	processed := normalize.CollapseNewlines(current)
	if options.StripBlankspace {
		processed = normalize.CollapseBlankspace(processed)
	}
	if processed == current {
		return action.finish(OutcomeUnchanged, len(current), len(processed))
	}
	if !action.channel.Write(ctx, processed) {
		return action.finish(OutcomeWriteFailed, len(current), len(processed))
	}
	return action.finish(OutcomeWritten, len(current), len(processed))
}

func (action *Action) finish(outcome Outcome, before, after int) Outcome {
	action.logger.Debug("clipboard normalization finished",
		zap.Stringer("outcome", outcome),
		zap.Int("bytes_before", before),
		zap.Int("bytes_after", after))
	return outcome
}

// wait blocks for delay and reports false when the context ended first.
func wait(ctx context.Context, delay time.Duration) bool {
	if delay <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
