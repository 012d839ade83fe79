//go:build !windows

package dialog

import "go.uber.org/zap"

// LogNotifier writes messages to the application log.
type LogNotifier struct {
	logger *zap.Logger
}

// NewNotifier returns a notifier backed by the logger.
func NewNotifier(logger *zap.Logger) Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return LogNotifier{logger: logger}
}

// Show logs the message at warn level.
func (notifier LogNotifier) Show(title, message string) error {
	notifier.logger.Warn(message, zap.String("title", title))
	return nil
}
