//go:build windows

package hook

import (
	"fmt"
	"runtime"
	"sync"
	"time"
	"unsafe"

	"go.uber.org/zap"
	"golang.org/x/sys/windows"
)

const (
	whKeyboardLL = 13
	wmKeyUp      = 0x0101
	wmSysKeyUp   = 0x0105
	wmQuit       = 0x0012
	hcAction     = 0

	vkControl = 0x11
	// TriggerVirtualKey is the virtual-key code of the C key.
	TriggerVirtualKey = 0x43

	keyDownMask = 0x8000
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procSetWindowsHookExW   = user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procGetMessageW         = user32.NewProc("GetMessageW")
	procPostThreadMessageW  = user32.NewProc("PostThreadMessageW")
	procGetAsyncKeyState    = user32.NewProc("GetAsyncKeyState")

	procGetCurrentThreadId = kernel32.NewProc("GetCurrentThreadId")
)

type keyboardHookStruct struct {
	VkCode      uint32
	ScanCode    uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

type message struct {
	Hwnd    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	PtX     int32
	PtY     int32
}

// LowLevelMonitor watches key releases through a WH_KEYBOARD_LL hook. The hook
// lives on a dedicated OS thread running its own message loop.
type LowLevelMonitor struct {
	logger *zap.Logger

	mutex    sync.Mutex
	threadID uintptr
	done     chan struct{}
	callback uintptr
	handler  Handler
}

// NewInputMonitor constructs the Windows keyboard monitor.
func NewInputMonitor(logger *zap.Logger) InputMonitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LowLevelMonitor{logger: logger}
}

// Start installs the hook and returns once it is active.
func (monitor *LowLevelMonitor) Start(handler Handler) error {
	monitor.mutex.Lock()
	defer monitor.mutex.Unlock()
	if monitor.done != nil {
		return ErrAlreadyStarted
	}

	// NewCallback slots are never released, so one callback serves every Start.
	monitor.handler = handler
	if monitor.callback == 0 {
		monitor.callback = windows.NewCallback(monitor.handleKeyboardEvent)
	}

	started := make(chan error, 1)
	done := make(chan struct{})
	go monitor.loop(started, done)
	if err := <-started; err != nil {
		return err
	}
	monitor.done = done
	monitor.logger.Debug("keyboard hook installed")
	return nil
}

func (monitor *LowLevelMonitor) handleKeyboardEvent(code uintptr, wParam uintptr, lParam uintptr) uintptr {
	if int32(code) == hcAction && (wParam == wmKeyUp || wParam == wmSysKeyUp) {
		event := (*keyboardHookStruct)(unsafe.Pointer(lParam))
		if event.VkCode == TriggerVirtualKey && monitor.handler != nil {
			monitor.handler(KeyEvent{ModifierHeld: isKeyDown(vkControl), At: time.Now()})
		}
	}
	next, _, _ := procCallNextHookEx.Call(0, code, wParam, lParam)
	return next
}

func (monitor *LowLevelMonitor) loop(started chan<- error, done chan<- struct{}) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(done)

	threadID, _, _ := procGetCurrentThreadId.Call()
	hookHandle, _, hookErr := procSetWindowsHookExW.Call(whKeyboardLL, monitor.callback, 0, 0)
	if hookHandle == 0 {
		started <- fmt.Errorf("install keyboard hook: %w", hookErr)
		return
	}
	monitor.threadID = threadID
	started <- nil

	var msg message
	for {
		result, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
		if int32(result) <= 0 {
			break
		}
	}
	procUnhookWindowsHookEx.Call(hookHandle)
}

// Stop removes the hook and waits until no callback can run any more.
func (monitor *LowLevelMonitor) Stop() error {
	monitor.mutex.Lock()
	defer monitor.mutex.Unlock()
	if monitor.done == nil {
		return nil
	}
	if posted, _, postErr := procPostThreadMessageW.Call(monitor.threadID, wmQuit, 0, 0); posted == 0 {
		return fmt.Errorf("stop keyboard hook: %w", postErr)
	}
	<-monitor.done
	monitor.done = nil
	monitor.threadID = 0
	monitor.logger.Debug("keyboard hook removed")
	return nil
}

func isKeyDown(virtualKey uintptr) bool {
	state, _, _ := procGetAsyncKeyState.Call(virtualKey)
	return state&keyDownMask != 0
}
