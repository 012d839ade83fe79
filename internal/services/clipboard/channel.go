package clipboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

const (
	// DefaultAttempts bounds how many times one operation tries to open the clipboard.
	DefaultAttempts = 5
	// DefaultBackoff is the pause between two attempts.
	DefaultBackoff = 30 * time.Millisecond

	readOperationName  = "read"
	writeOperationName = "write"
)

// RetryPolicy bounds the attempts made against a contended clipboard.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
}

// DefaultRetryPolicy returns five attempts spaced 30ms apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: DefaultAttempts, Backoff: DefaultBackoff}
}

func (policy RetryPolicy) backoff() retry.Backoff {
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}
	pause := policy.Backoff
	if pause <= 0 {
		pause = time.Nanosecond
	}
	return retry.WithMaxRetries(uint64(attempts-1), retry.NewConstant(pause))
}

// Channel reads and writes clipboard text, retrying while another process
// holds the clipboard. Failures are reported as values, never as panics.
type Channel struct {
	access Access
	policy RetryPolicy
	logger *zap.Logger
}

// NewChannel wraps access with the retry policy.
func NewChannel(access Access, policy RetryPolicy, logger *zap.Logger) *Channel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Channel{access: access, policy: policy, logger: logger}
}

// Read returns the clipboard text. The boolean is false when the clipboard
// holds no text or could not be opened within the retry budget.
func (channel *Channel) Read(ctx context.Context) (string, bool) {
	var text string
	err := channel.do(ctx, readOperationName, func() error {
		value, readErr := channel.access.ReadText()
		if readErr != nil {
			return readErr
		}
		text = value
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrTextUnavailable) {
			channel.logger.Debug("clipboard holds no text")
		} else {
			channel.logger.Debug("clipboard read unavailable", zap.Error(err))
		}
		return "", false
	}
	return text, true
}

// Write replaces the clipboard content with text and reports success.
func (channel *Channel) Write(ctx context.Context, text string) bool {
	err := channel.do(ctx, writeOperationName, func() error {
		return channel.access.WriteText(text)
	})
	if err != nil {
		channel.logger.Debug("clipboard write failed", zap.Error(err))
		return false
	}
	return true
}

func (channel *Channel) do(ctx context.Context, operation string, attempt func() error) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	attemptNumber := 0
	err = retry.Do(ctx, channel.policy.backoff(), func(context.Context) error {
		attemptNumber++
		attemptErr := safeAttempt(attempt)
		if attemptErr == nil {
			return nil
		}
		if isPermanent(attemptErr) {
			return attemptErr
		}
		channel.logger.Debug("clipboard busy",
			zap.String("operation", operation),
			zap.Int("attempt", attemptNumber),
			zap.Error(attemptErr))
		return retry.RetryableError(attemptErr)
	})
	if err != nil {
		return fmt.Errorf("clipboard %s after %d attempt(s): %w", operation, attemptNumber, err)
	}
	return nil
}

// safeAttempt turns a panicking backend into an ordinary, retryable error.
func safeAttempt(attempt func() error) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("clipboard backend panic: %v", recovered)
		}
	}()
	return attempt()
}
