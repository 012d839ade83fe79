// Package hook delivers global trigger-key releases to the application.
package hook

import (
	"errors"
	"time"
)

// ErrUnsupported reports a host without a global keyboard hook.
var ErrUnsupported = errors.New("hook: global keyboard monitoring is not supported on this platform")

// ErrAlreadyStarted reports a second Start on a running monitor.
var ErrAlreadyStarted = errors.New("hook: monitor already started")

// KeyEvent is one release of the trigger key.
type KeyEvent struct {
	// ModifierHeld reports whether the modifier was down when the key was released.
	ModifierHeld bool
	// At carries a monotonic reading taken when the event was observed.
	At time.Time
}

// Handler receives trigger-key releases. It is called serially on the hook
// thread and must return quickly.
type Handler func(KeyEvent)

// InputMonitor installs and removes the global keyboard hook.
type InputMonitor interface {
	Start(handler Handler) error
	Stop() error
}
