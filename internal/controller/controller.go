// Package controller owns the gesture state and the normalization options and
// connects key releases to the normalization worker.
package controller

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/WXR-SEU/CtrlC-C/internal/gesture"
	"github.com/WXR-SEU/CtrlC-C/internal/normalize"
	"github.com/WXR-SEU/CtrlC-C/internal/services/hook"
)

// Scheduler queues one normalization run.
type Scheduler interface {
	Trigger() bool
}

// Controller is the single owner of the mutable application state.
type Controller struct {
	detector        *gesture.Detector
	scheduler       Scheduler
	stripBlankspace atomic.Bool
	logger          *zap.Logger
}

// New constructs a Controller. The scheduler may be attached later with Attach.
func New(detector *gesture.Detector, stripBlankspace bool, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	controller := &Controller{detector: detector, logger: logger}
	controller.stripBlankspace.Store(stripBlankspace)
	return controller
}

// Attach sets the scheduler invoked when a double press is recognized. It must
// be called before the input monitor starts.
func (controller *Controller) Attach(scheduler Scheduler) {
	controller.scheduler = scheduler
}

// HandleKeyRelease feeds one trigger-key release into the detector.
func (controller *Controller) HandleKeyRelease(event hook.KeyEvent) {
	if !controller.detector.Release(event.ModifierHeld, event.At) {
		return
	}
	controller.logger.Debug("double press recognized")
	if controller.scheduler != nil {
		controller.scheduler.Trigger()
	}
}

// ToggleStripBlankspace flips the option and returns the new value.
func (controller *Controller) ToggleStripBlankspace() bool {
	for {
		current := controller.stripBlankspace.Load()
		if controller.stripBlankspace.CompareAndSwap(current, !current) {
			controller.logger.Info("strip blankspace toggled", zap.Bool("enabled", !current))
			return !current
		}
	}
}

// StripBlankspace reports the current option value.
func (controller *Controller) StripBlankspace() bool {
	return controller.stripBlankspace.Load()
}

// NormalizationOptions returns the options the next run will use.
func (controller *Controller) NormalizationOptions() normalize.Options {
	return normalize.Options{StripBlankspace: controller.StripBlankspace()}
}

// GestureState exposes the detector state.
func (controller *Controller) GestureState() gesture.State {
	return controller.detector.State()
}
