//go:build windows

package instance

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows"
)

// MutexGuard holds a named Win32 mutex.
type MutexGuard struct {
	name   string
	handle windows.Handle
}

// NewGuard constructs a guard for the named mutex.
func NewGuard(name string) Guard {
	return &MutexGuard{name: name}
}

// Acquire creates the named mutex and fails when it already existed.
func (guard *MutexGuard) Acquire() error {
	namePointer, err := windows.UTF16PtrFromString(guard.name)
	if err != nil {
		return fmt.Errorf("encode mutex name %q: %w", guard.name, err)
	}
	handle, createErr := windows.CreateMutex(nil, false, namePointer)
	if errors.Is(createErr, windows.ERROR_ALREADY_EXISTS) {
		if handle != 0 {
			_ = windows.CloseHandle(handle)
		}
		return ErrAlreadyRunning
	}
	if createErr != nil {
		return fmt.Errorf("create mutex %q: %w", guard.name, createErr)
	}
	guard.handle = handle
	return nil
}

// Release closes the mutex handle.
func (guard *MutexGuard) Release() error {
	if guard.handle == 0 {
		return nil
	}
	err := windows.CloseHandle(guard.handle)
	guard.handle = 0
	return err
}
