// Package flow drives one user through the journey screens.
//
// The Controller is a closed state machine over the screens of the app:
// it owns the single in-flight journey, the survey responses of the
// current round and the writing session, and persists through a
// journey.Store only when a round is completed.
package flow

import (
	"errors"
	"fmt"
)

// --- State enum ---

// State is the screen the flow is on.
type State string

const (
	StateWelcome       State = "welcome"
	StateDashboard     State = "dashboard"
	StateReviewScanner State = "review-scanner"
	StateIntro         State = "intro"
	StateSurvey        State = "survey"
	StateWriting       State = "writing"
	StateCompletion    State = "completion"
)

// ErrInvalidTransition is returned when an action is not allowed in the
// current state.
var ErrInvalidTransition = errors.New("invalid flow transition")

// transitions lists, for each state, the states it may move to.
var transitions = map[State][]State{
	StateWelcome:       {StateDashboard, StateReviewScanner},
	StateDashboard:     {StateWelcome, StateReviewScanner, StateSurvey, StateCompletion},
	StateReviewScanner: {StateIntro, StateWelcome, StateDashboard},
	StateIntro:         {StateSurvey, StateWelcome, StateDashboard},
	StateSurvey:        {StateWriting, StateWelcome, StateDashboard},
	StateWriting:       {StateCompletion, StateWelcome, StateDashboard},
	StateCompletion:    {StateDashboard},
}

// ValidateState returns an error if s is not a known state.
func ValidateState(s State) error {
	if _, ok := transitions[s]; !ok {
		return fmt.Errorf("invalid state %q", s)
	}
	return nil
}

// CanTransition reports whether the flow may move from one state to another.
// Staying in the same state is always allowed.
func CanTransition(from, to State) bool {
	if from == to {
		return true
	}
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// InFlight reports whether s holds unsaved journey data.
func (s State) InFlight() bool {
	switch s {
	case StateReviewScanner, StateIntro, StateSurvey, StateWriting:
		return true
	default:
		return false
	}
}
