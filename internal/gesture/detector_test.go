package gesture

import (
	"testing"
	"time"
)

type release struct {
	modifierHeld bool
	offset       time.Duration
}

func TestDetectorSequences(t *testing.T) {
	origin := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name          string
		releases      []release
		expectedFires int
		expectedState State
	}{
		{
			name: "double_press_within_threshold_fires",
			releases: []release{
				{modifierHeld: true, offset: 0},
				{modifierHeld: true, offset: 500 * time.Millisecond},
			},
			expectedFires: 1,
			expectedState: State{},
		},
		{
			name: "slow_second_press_rearms",
			releases: []release{
				{modifierHeld: true, offset: 0},
				{modifierHeld: true, offset: 1500 * time.Millisecond},
			},
			expectedFires: 0,
			expectedState: State{Armed: true, Since: origin.Add(1500 * time.Millisecond)},
		},
		{
			name: "release_without_modifier_resets",
			releases: []release{
				{modifierHeld: false, offset: 0},
				{modifierHeld: true, offset: 200 * time.Millisecond},
				{modifierHeld: true, offset: 300 * time.Millisecond},
			},
			expectedFires: 1,
			expectedState: State{},
		},
		{
			name: "modifier_release_between_presses_cancels",
			releases: []release{
				{modifierHeld: true, offset: 0},
				{modifierHeld: false, offset: 100 * time.Millisecond},
				{modifierHeld: true, offset: 200 * time.Millisecond},
			},
			expectedFires: 0,
			expectedState: State{Armed: true, Since: origin.Add(200 * time.Millisecond)},
		},
		{
			name: "exact_threshold_fires",
			releases: []release{
				{modifierHeld: true, offset: 0},
				{modifierHeld: true, offset: time.Second},
			},
			expectedFires: 1,
			expectedState: State{},
		},
		{
			name: "third_press_needs_a_fresh_pair",
			releases: []release{
				{modifierHeld: true, offset: 0},
				{modifierHeld: true, offset: 100 * time.Millisecond},
				{modifierHeld: true, offset: 200 * time.Millisecond},
			},
			expectedFires: 1,
			expectedState: State{Armed: true, Since: origin.Add(200 * time.Millisecond)},
		},
		{
			name: "four_quick_presses_fire_twice",
			releases: []release{
				{modifierHeld: true, offset: 0},
				{modifierHeld: true, offset: 100 * time.Millisecond},
				{modifierHeld: true, offset: 200 * time.Millisecond},
				{modifierHeld: true, offset: 300 * time.Millisecond},
			},
			expectedFires: 2,
			expectedState: State{},
		},
		{
			name: "stale_arm_then_quick_pair",
			releases: []release{
				{modifierHeld: true, offset: 0},
				{modifierHeld: true, offset: 10 * time.Second},
				{modifierHeld: true, offset: 10*time.Second + 400*time.Millisecond},
			},
			expectedFires: 1,
			expectedState: State{},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			detector := NewDetector(DefaultThreshold)
			fires := 0
			for _, event := range testCase.releases {
				if detector.Release(event.modifierHeld, origin.Add(event.offset)) {
					fires++
				}
			}
			if fires != testCase.expectedFires {
				t.Fatalf("expected %d fires, got %d", testCase.expectedFires, fires)
			}
			state := detector.State()
			if state.Armed != testCase.expectedState.Armed || !state.Since.Equal(testCase.expectedState.Since) {
				t.Fatalf("expected state %+v, got %+v", testCase.expectedState, state)
			}
		})
	}
}

func TestDetectorDefaultsAndReset(t *testing.T) {
	detector := NewDetector(0)
	if detector.Threshold() != DefaultThreshold {
		t.Fatalf("expected default threshold, got %v", detector.Threshold())
	}
	if !detector.State().Idle() {
		t.Fatalf("expected idle initial state")
	}
	detector.Release(true, time.Now())
	if detector.State().Idle() {
		t.Fatalf("expected armed state after first press")
	}
	detector.Reset()
	if !detector.State().Idle() {
		t.Fatalf("expected idle state after reset")
	}
}

func TestDetectorCustomThreshold(t *testing.T) {
	origin := time.Now()
	detector := NewDetector(250 * time.Millisecond)
	detector.Release(true, origin)
	if detector.Release(true, origin.Add(300*time.Millisecond)) {
		t.Fatalf("expected no fire beyond custom threshold")
	}
	if !detector.Release(true, origin.Add(500*time.Millisecond)) {
		t.Fatalf("expected fire within custom threshold")
	}
}
