// Package recorder runs the per-question recording cycle. State and Machine
// are pure and own every rule about what may happen when; Controller wires
// them to a microphone, timers and the upload path.
package recorder

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned for events that are not allowed in the
// current state.
var ErrInvalidTransition = errors.New("invalid transition")

// State is the recording state of the current question.
type State string

const (
	Idle       State = "idle"
	Recording  State = "recording"
	Processing State = "processing"
)

// Event drives a state change.
type Event string

const (
	// Start is a request to begin recording.
	Start Event = "start"
	// StartFailed reports that the microphone or recorder could not be set up.
	StartFailed Event = "start_failed"
	// Stop is a user request to end recording.
	Stop Event = "stop"
	// TimerExpired ends recording when the countdown reaches zero.
	TimerExpired Event = "timer_expired"
	// Done reports that the recording has been handled, successfully or not.
	Done Event = "done"
)

// Transition returns the state reached from s on e. Idle never moves to
// Processing directly.
func Transition(s State, e Event) (State, error) {
	switch {
	case s == Idle && e == Start:
		return Recording, nil
	case s == Recording && e == StartFailed:
		return Idle, nil
	case s == Recording && (e == Stop || e == TimerExpired):
		return Processing, nil
	case s == Processing && e == Done:
		return Idle, nil
	}
	return s, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, s, e)
}
