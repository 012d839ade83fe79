//go:build windows

package clipboard

import (
	"fmt"
	"runtime"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	cfUnicodeText = 13
	gmemMoveable  = 0x0002
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procOpenClipboard              = user32.NewProc("OpenClipboard")
	procCloseClipboard             = user32.NewProc("CloseClipboard")
	procEmptyClipboard             = user32.NewProc("EmptyClipboard")
	procIsClipboardFormatAvailable = user32.NewProc("IsClipboardFormatAvailable")
	procGetClipboardData           = user32.NewProc("GetClipboardData")
	procSetClipboardData           = user32.NewProc("SetClipboardData")

	procGlobalAlloc  = kernel32.NewProc("GlobalAlloc")
	procGlobalFree   = kernel32.NewProc("GlobalFree")
	procGlobalLock   = kernel32.NewProc("GlobalLock")
	procGlobalUnlock = kernel32.NewProc("GlobalUnlock")
)

// NativeAccess talks to the Win32 clipboard directly. Each call opens the
// clipboard once and closes it on every return path.
type NativeAccess struct{}

// NewPlatformAccess returns the Win32 clipboard backend.
func NewPlatformAccess() Access {
	return &NativeAccess{}
}

// ReadText returns the CF_UNICODETEXT content or ErrTextUnavailable.
func (access *NativeAccess) ReadText() (string, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if opened, _, openErr := procOpenClipboard.Call(0); opened == 0 {
		return "", fmt.Errorf("open clipboard: %w", openErr)
	}
	defer procCloseClipboard.Call()

	if available, _, _ := procIsClipboardFormatAvailable.Call(cfUnicodeText); available == 0 {
		return "", ErrTextUnavailable
	}
	handle, _, dataErr := procGetClipboardData.Call(cfUnicodeText)
	if handle == 0 {
		return "", fmt.Errorf("get clipboard data: %w", dataErr)
	}
	pointer, _, lockErr := procGlobalLock.Call(handle)
	if pointer == 0 {
		return "", fmt.Errorf("lock clipboard data: %w", lockErr)
	}
	defer procGlobalUnlock.Call(handle)

	return windows.UTF16PtrToString((*uint16)(unsafe.Pointer(pointer))), nil
}

// WriteText empties the clipboard and stores text as CF_UNICODETEXT.
func (access *NativeAccess) WriteText(text string) error {
	encoded, encodeErr := windows.UTF16FromString(text)
	if encodeErr != nil {
		return ErrInvalidText
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if opened, _, openErr := procOpenClipboard.Call(0); opened == 0 {
		return fmt.Errorf("open clipboard: %w", openErr)
	}
	defer procCloseClipboard.Call()

	if emptied, _, emptyErr := procEmptyClipboard.Call(); emptied == 0 {
		return fmt.Errorf("empty clipboard: %w", emptyErr)
	}

	size := uintptr(len(encoded)) * unsafe.Sizeof(encoded[0])
	memory, _, allocErr := procGlobalAlloc.Call(gmemMoveable, size)
	if memory == 0 {
		return fmt.Errorf("allocate clipboard memory: %w", allocErr)
	}
	pointer, _, lockErr := procGlobalLock.Call(memory)
	if pointer == 0 {
		procGlobalFree.Call(memory)
		return fmt.Errorf("lock clipboard memory: %w", lockErr)
	}
	copy(unsafe.Slice((*uint16)(unsafe.Pointer(pointer)), len(encoded)), encoded)
	procGlobalUnlock.Call(memory)

	if stored, _, setErr := procSetClipboardData.Call(cfUnicodeText, memory); stored == 0 {
		procGlobalFree.Call(memory)
		return fmt.Errorf("set clipboard data: %w", setErr)
	}
	return nil
}

var _ Access = (*NativeAccess)(nil)
