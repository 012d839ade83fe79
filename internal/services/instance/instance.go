// Package instance keeps a second copy of the application from running.
package instance

import "errors"

// DefaultName identifies the application-wide lock.
const DefaultName = "CtrlC_C_Application_Mutex"

// ErrAlreadyRunning reports that another process holds the lock.
var ErrAlreadyRunning = errors.New("instance: another instance is already running")

// Guard is held for the lifetime of the process.
type Guard interface {
	// Acquire takes the lock or returns ErrAlreadyRunning.
	Acquire() error
	// Release gives the lock up. It is safe to call without a successful Acquire.
	Release() error
}
