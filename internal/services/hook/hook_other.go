//go:build !windows

package hook

import "go.uber.org/zap"

type unsupportedMonitor struct{}

// NewInputMonitor returns a monitor whose Start always fails with ErrUnsupported.
func NewInputMonitor(_ *zap.Logger) InputMonitor {
	return unsupportedMonitor{}
}

func (unsupportedMonitor) Start(Handler) error {
	return ErrUnsupported
}

func (unsupportedMonitor) Stop() error {
	return nil
}
