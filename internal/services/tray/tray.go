// Package tray renders the notification-area icon and its menu.
package tray

import (
	"errors"
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"go.uber.org/zap"
)

const (
	// ApplicationID identifies the fyne application.
	ApplicationID = "io.github.wxr-seu.ctrlcc"
	// ToggleStripBlankspaceLabel is the label of the option toggle.
	ToggleStripBlankspaceLabel = "Toggle Strip Blank Space"
	// ExitLabel is the label of the exit item.
	ExitLabel = "Exit"
)

// ErrUnsupported reports a driver without system tray support.
var ErrUnsupported = errors.New("tray: system tray is not supported by the current driver")

// Handlers connect the menu to the application.
type Handlers struct {
	ToggleStripBlankspace func() bool
	StripBlankspace       func() bool
	Exit                  func()
}

// Service owns the fyne application hosting the tray icon.
type Service struct {
	title       string
	application fyne.App
	logger      *zap.Logger
	stopOnce    sync.Once
}

// NewService creates the fyne application. It must be called on the main goroutine.
func NewService(title string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		title:       title,
		application: app.NewWithID(ApplicationID),
		logger:      logger,
	}
}

// Run installs the icon and menu and blocks until Stop is called.
func (service *Service) Run(handlers Handlers) error {
	desktopApplication, ok := service.application.(desktop.App)
	if !ok {
		return ErrUnsupported
	}
	icon, err := iconResource()
	if err != nil {
		return fmt.Errorf("render tray icon: %w", err)
	}

	var menu *fyne.Menu
	menu = buildMenu(service.title, handlers, func() { menu.Refresh() })
	desktopApplication.SetSystemTrayMenu(menu)
	desktopApplication.SetSystemTrayIcon(icon)

	service.logger.Debug("tray loop starting")
	service.application.Run()
	service.logger.Debug("tray loop stopped")
	return nil
}

// Stop ends the tray loop. Later calls are ignored.
func (service *Service) Stop() {
	service.stopOnce.Do(func() {
		fyne.Do(service.application.Quit)
	})
}

// buildMenu assembles the tray menu. refresh redraws the menu after the toggle
// changes its checked state.
func buildMenu(title string, handlers Handlers, refresh func()) *fyne.Menu {
	toggleItem := fyne.NewMenuItem(ToggleStripBlankspaceLabel, nil)
	if handlers.StripBlankspace != nil {
		toggleItem.Checked = handlers.StripBlankspace()
	}
	toggleItem.Action = func() {
		if handlers.ToggleStripBlankspace == nil {
			return
		}
		toggleItem.Checked = handlers.ToggleStripBlankspace()
		if refresh != nil {
			refresh()
		}
	}

	exitItem := fyne.NewMenuItem(ExitLabel, func() {
		if handlers.Exit != nil {
			handlers.Exit()
		}
	})
	exitItem.IsQuit = true

	return fyne.NewMenu(title, toggleItem, fyne.NewMenuItemSeparator(), exitItem)
}
