// Package dialog shows the few messages the utility ever displays.
package dialog

const (
	// AlreadyRunningTitle is the caption of the duplicate-instance message.
	AlreadyRunningTitle = "应用程序已运行"
	// AlreadyRunningMessage is the body of the duplicate-instance message.
	AlreadyRunningMessage = "CtrlC+C 应用程序已经在运行了。"
)

// Notifier presents a blocking message to the user.
type Notifier interface {
	Show(title, message string) error
}
