package recorder

import "time"

// Key names as reported by the terminal.
const (
	KeyToggle   = " "
	KeyPrevious = "left"
	KeyNext     = "right"
)

// Key is one key press.
type Key struct {
	Name     string
	Modifier bool
	Repeat   bool
}

// Action is what a key press asks the controller to do.
type Action int

const (
	ActionNone Action = iota
	ActionStart
	ActionStop
	ActionPrevious
	ActionNext
)

// Machine is the recording state plus the stop guard and countdown. It is
// not safe for concurrent use; Controller serializes access.
type Machine struct {
	state     State
	stopping  bool
	max       int
	remaining int
}

// NewMachine returns an idle machine whose recordings last at most max.
func NewMachine(maxDuration time.Duration) *Machine {
	secs := int(maxDuration / time.Second)
	if secs < 1 {
		secs = 1
	}
	return &Machine{state: Idle, max: secs, remaining: secs}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Stopping reports whether a stop is in flight.
func (m *Machine) Stopping() bool {
	return m.stopping
}

// Remaining returns the time left before the recording stops by itself.
func (m *Machine) Remaining() time.Duration {
	return time.Duration(m.remaining) * time.Second
}

// Start moves from Idle to Recording and resets the countdown.
func (m *Machine) Start() error {
	next, err := Transition(m.state, Start)
	if err != nil {
		return err
	}
	m.state = next
	m.stopping = false
	m.remaining = m.max
	return nil
}

// StartFailed returns to Idle after a failed start.
func (m *Machine) StartFailed() error {
	next, err := Transition(m.state, StartFailed)
	if err != nil {
		return err
	}
	m.state = next
	m.remaining = m.max
	return nil
}

// RequestStop moves to Processing. It reports false, changing nothing, when
// a stop is already in flight or nothing is recording.
func (m *Machine) RequestStop() bool {
	return m.stop(Stop)
}

func (m *Machine) stop(e Event) bool {
	if m.stopping {
		return false
	}
	next, err := Transition(m.state, e)
	if err != nil {
		return false
	}
	m.state = next
	m.stopping = true
	return true
}

// Tick counts down one second while recording. When the countdown reaches
// zero the machine stops itself and Tick reports expired.
func (m *Machine) Tick() (remaining time.Duration, expired bool) {
	if m.state != Recording || m.stopping {
		return m.Remaining(), false
	}
	if m.remaining <= 1 {
		m.remaining = m.max
		return 0, m.stop(TimerExpired)
	}
	m.remaining--
	return m.Remaining(), false
}

// Finish returns from Processing to Idle and clears the stop guard.
func (m *Machine) Finish() error {
	next, err := Transition(m.state, Done)
	if err != nil {
		return err
	}
	m.state = next
	m.stopping = false
	m.remaining = m.max
	return nil
}

// HandleKey maps a key press to an action for the current state. Held or
// modified keys do nothing, and navigation only works while idle.
func (m *Machine) HandleKey(k Key) Action {
	if k.Repeat || k.Modifier {
		return ActionNone
	}
	switch k.Name {
	case KeyToggle:
		switch {
		case m.state == Idle:
			return ActionStart
		case m.state == Recording && !m.stopping:
			return ActionStop
		}
	case KeyPrevious:
		if m.state == Idle {
			return ActionPrevious
		}
	case KeyNext:
		if m.state == Idle {
			return ActionNext
		}
	}
	return ActionNone
}
