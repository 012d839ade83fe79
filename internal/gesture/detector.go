// Package gesture recognizes a double press of the trigger key made while the
// modifier is held.
//
// The detector is driven purely by key-release events. It never schedules a
// timer: the threshold is evaluated when the next qualifying release arrives,
// so an expired arm simply stays in place until it is replaced.
package gesture

import (
	"sync"
	"time"
)

// DefaultThreshold is the longest gap between two qualifying releases that
// still counts as a double press.
const DefaultThreshold = time.Second

// State is a snapshot of the detector.
type State struct {
	Armed bool
	Since time.Time
}

// Idle reports whether no first press is pending.
func (state State) Idle() bool {
	return !state.Armed
}

// Detector is the double-press state machine.
type Detector struct {
	mutex     sync.Mutex
	threshold time.Duration
	state     State
}

// NewDetector constructs an idle detector. A non-positive threshold selects DefaultThreshold.
func NewDetector(threshold time.Duration) *Detector {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Detector{threshold: threshold}
}

// Threshold returns the double-press window.
func (detector *Detector) Threshold() time.Duration {
	return detector.threshold
}

// Release consumes one trigger-key release observed at the given instant and
// reports whether it completed a double press.
func (detector *Detector) Release(modifierHeld bool, at time.Time) bool {
	detector.mutex.Lock()
	defer detector.mutex.Unlock()

	if !modifierHeld {
		detector.state = State{}
		return false
	}
	if detector.state.Armed && at.Sub(detector.state.Since) <= detector.threshold {
		detector.state = State{}
		return true
	}
	detector.state = State{Armed: true, Since: at}
	return false
}

// State returns the current state.
func (detector *Detector) State() State {
	detector.mutex.Lock()
	defer detector.mutex.Unlock()
	return detector.state
}

// Reset returns the detector to idle.
func (detector *Detector) Reset() {
	detector.mutex.Lock()
	detector.state = State{}
	detector.mutex.Unlock()
}
