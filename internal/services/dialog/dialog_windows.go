//go:build windows

package dialog

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sys/windows"
)

const messageBoxOK = 0x00000000

// MessageBoxNotifier uses the Win32 message box.
type MessageBoxNotifier struct{}

// NewNotifier returns the message box notifier.
func NewNotifier(_ *zap.Logger) Notifier {
	return MessageBoxNotifier{}
}

// Show displays the message and waits for the user to dismiss it.
func (MessageBoxNotifier) Show(title, message string) error {
	titlePointer, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return fmt.Errorf("encode title: %w", err)
	}
	messagePointer, err := windows.UTF16PtrFromString(message)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	if _, err := windows.MessageBox(0, messagePointer, titlePointer, messageBoxOK); err != nil {
		return fmt.Errorf("show message box: %w", err)
	}
	return nil
}
