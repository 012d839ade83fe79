// Package startup removes the legacy run-on-login entry of the application.
package startup

// RunKeyPath is the per-user run-on-login registry path.
const RunKeyPath = `Software\Microsoft\Windows\CurrentVersion\Run`

// Cleaner deletes a run-on-login entry. Failures are reported but callers are
// expected to ignore them.
type Cleaner interface {
	Remove(valueName string) error
}
