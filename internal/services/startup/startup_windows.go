//go:build windows

package startup

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

// RegistryCleaner deletes values under HKCU\...\Run.
type RegistryCleaner struct{}

// NewCleaner returns the registry-backed cleaner.
func NewCleaner() Cleaner {
	return RegistryCleaner{}
}

// Remove deletes the value. A missing value is not an error.
func (RegistryCleaner) Remove(valueName string) error {
	key, err := registry.OpenKey(registry.CURRENT_USER, RunKeyPath, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("open run key: %w", err)
	}
	defer key.Close()
	if err := key.DeleteValue(valueName); err != nil && !errors.Is(err, windows.ERROR_FILE_NOT_FOUND) {
		return fmt.Errorf("delete run value %q: %w", valueName, err)
	}
	return nil
}
