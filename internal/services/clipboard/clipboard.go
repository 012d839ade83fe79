// Package clipboard provides access to the system clipboard.
package clipboard

import (
	"errors"

	"github.com/atotto/clipboard"
)

var (
	// ErrTextUnavailable reports a clipboard that holds no Unicode text.
	ErrTextUnavailable = errors.New("clipboard: no unicode text available")
	// ErrUnsupported reports a host without a usable clipboard backend.
	ErrUnsupported = errors.New("clipboard: unsupported on this host")
	// ErrInvalidText reports text that the clipboard cannot hold.
	ErrInvalidText = errors.New("clipboard: text contains a NUL character")
)

// Access performs a single exclusive clipboard operation. Implementations
// always release the clipboard before returning.
type Access interface {
	ReadText() (string, error)
	WriteText(text string) error
}

// SystemAccess implements Access using github.com/atotto/clipboard.
type SystemAccess struct{}

// NewSystemAccess constructs the portable clipboard backend.
func NewSystemAccess() *SystemAccess {
	return &SystemAccess{}
}

// ReadText reads the clipboard as text.
func (access *SystemAccess) ReadText() (string, error) {
	if clipboard.Unsupported {
		return "", ErrUnsupported
	}
	return clipboard.ReadAll()
}

// WriteText writes text to the system clipboard.
func (access *SystemAccess) WriteText(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	return clipboard.WriteAll(text)
}

// isPermanent reports errors that another attempt cannot fix.
func isPermanent(err error) bool {
	return errors.Is(err, ErrTextUnavailable) || errors.Is(err, ErrUnsupported) || errors.Is(err, ErrInvalidText)
}

var _ Access = (*SystemAccess)(nil)
