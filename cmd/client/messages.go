package main

import (
	"time"

	braindump "github.com/garysheng/braindump"
	"github.com/garysheng/braindump/draft"
	"github.com/garysheng/braindump/recorder"
	"github.com/garysheng/braindump/store"
)

// Controller notifications.
type (
	stateMsg     struct{ state recorder.State }
	levelMsg     struct{ level float64 }
	warmUpMsg    struct{ on bool }
	remainingMsg struct{ remaining time.Duration }
	infoMsg      struct{ text string }
	errMsg       struct{ err error }
)

// sessionLoadedMsg carries the session the TUI works on.
type sessionLoadedMsg struct {
	session *store.Session
}

// feedOpenedMsg is sent once the realtime feed is connected.
type feedOpenedMsg struct {
	feed *feed
}

// feedEventMsg wraps one realtime event.
type feedEventMsg struct {
	event braindump.SessionEvent
}

// feedErrMsg is sent when the feed ends.
type feedErrMsg struct {
	err error
}

// keyHandledMsg is sent after the controller processed a key.
type keyHandledMsg struct{}

// draftDoneMsg carries a finished generation.
type draftDoneMsg struct {
	result draft.Result
	err    error
}

// exportDoneMsg reports where the raw export was written.
type exportDoneMsg struct {
	path string
	err  error
}

// clearInfoMsg clears the info line after a timeout.
type clearInfoMsg struct{}
