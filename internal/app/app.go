// Package app wires the background utility together and owns its lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/WXR-SEU/CtrlC-C/internal/config"
	"github.com/WXR-SEU/CtrlC-C/internal/controller"
	"github.com/WXR-SEU/CtrlC-C/internal/gesture"
	"github.com/WXR-SEU/CtrlC-C/internal/pipeline"
	"github.com/WXR-SEU/CtrlC-C/internal/services/clipboard"
	"github.com/WXR-SEU/CtrlC-C/internal/services/dialog"
	"github.com/WXR-SEU/CtrlC-C/internal/services/hook"
	"github.com/WXR-SEU/CtrlC-C/internal/services/instance"
	"github.com/WXR-SEU/CtrlC-C/internal/services/startup"
	"github.com/WXR-SEU/CtrlC-C/internal/services/tray"
	"github.com/WXR-SEU/CtrlC-C/internal/utils"
)

// TrayLoop hosts the menu. Run blocks on the calling goroutine until Stop.
type TrayLoop interface {
	Run(handlers tray.Handlers) error
	Stop()
}

// Dependencies are the host capabilities used by the application.
type Dependencies struct {
	Guard    instance.Guard
	Cleaner  startup.Cleaner
	Notifier dialog.Notifier
	Monitor  hook.InputMonitor
	Access   clipboard.Access
	Tray     TrayLoop
}

// NewPlatformDependencies returns the implementations for the current host.
// It creates the tray application and must run on the main goroutine.
func NewPlatformDependencies(logger *zap.Logger) Dependencies {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Dependencies{
		Guard:    instance.NewGuard(instance.DefaultName),
		Cleaner:  startup.NewCleaner(),
		Notifier: dialog.NewNotifier(logger),
		Monitor:  hook.NewInputMonitor(logger.Named("hook")),
		Access:   clipboard.NewPlatformAccess(),
		Tray:     tray.NewService(utils.ApplicationName, logger.Named("tray")),
	}
}

// Application is the running utility.
type Application struct {
	settings     config.Settings
	dependencies Dependencies
	logger       *zap.Logger
}

// New constructs an Application.
func New(settings config.Settings, dependencies Dependencies, logger *zap.Logger) *Application {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Application{settings: settings, dependencies: dependencies, logger: logger}
}

// Run starts monitoring and blocks until the tray exits or ctx ends. A second
// instance shows the duplicate-instance message and returns nil.
func (application *Application) Run(ctx context.Context) error {
	dependencies := application.dependencies
	logger := application.logger

	if err := dependencies.Cleaner.Remove(utils.ApplicationName); err != nil {
		logger.Debug("startup entry cleanup skipped", zap.Error(err))
	}

	if err := dependencies.Guard.Acquire(); err != nil {
		if errors.Is(err, instance.ErrAlreadyRunning) {
			if showErr := dependencies.Notifier.Show(dialog.AlreadyRunningTitle, dialog.AlreadyRunningMessage); showErr != nil {
				logger.Warn("duplicate instance notice failed", zap.Error(showErr))
			}
			return nil
		}
		return fmt.Errorf("acquire single-instance guard: %w", err)
	}
	defer func() {
		if err := dependencies.Guard.Release(); err != nil {
			logger.Warn("release single-instance guard", zap.Error(err))
		}
	}()

	channel := clipboard.NewChannel(dependencies.Access, application.settings.ClipboardRetry, logger.Named("clipboard"))
	state := controller.New(gesture.NewDetector(application.settings.DoublePressThreshold), application.settings.StripBlankspace, logger)
	action := pipeline.NewAction(channel, state, application.settings.PostCopyDelay, logger.Named("pipeline"))
	worker := pipeline.NewWorker(action, logger.Named("pipeline"))
	state.Attach(worker)

	runContext, cancel := context.WithCancel(ctx)
	defer cancel()
	group, groupContext := errgroup.WithContext(runContext)
	group.Go(func() error {
		return worker.Run(groupContext)
	})

	if err := dependencies.Monitor.Start(state.HandleKeyRelease); err != nil {
		cancel()
		_ = group.Wait()
		return fmt.Errorf("start input monitor: %w", err)
	}

	var exitOnce sync.Once
	exit := func() {
		exitOnce.Do(func() {
			dependencies.Tray.Stop()
			if err := dependencies.Monitor.Stop(); err != nil {
				logger.Warn("stop input monitor", zap.Error(err))
			}
		})
	}
	group.Go(func() error {
		<-groupContext.Done()
		exit()
		return nil
	})

	logger.Info("monitoring clipboard gesture",
		zap.Duration("threshold", application.settings.DoublePressThreshold),
		zap.Bool("strip_blankspace", state.StripBlankspace()))

	trayErr := dependencies.Tray.Run(tray.Handlers{
		ToggleStripBlankspace: state.ToggleStripBlankspace,
		StripBlankspace:       state.StripBlankspace,
		Exit:                  exit,
	})
	exit()
	cancel()
	waitErr := group.Wait()

	if trayErr != nil {
		return fmt.Errorf("run tray: %w", trayErr)
	}
	return waitErr
}
