package main

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/garysheng/braindump/keystore"
	"github.com/garysheng/braindump/recorder"
	"github.com/garysheng/braindump/store"
	"github.com/garysheng/braindump/transcription"
)

// navigator is the question cursor shared by the TUI and the recording
// controller.
type navigator struct {
	mu        sync.Mutex
	sessionID string
	ids       []string
	idx       int
}

// Load replaces the question list. The cursor stays on the same question
// when it still exists and is clamped otherwise.
func (n *navigator) Load(sess *store.Session) {
	n.mu.Lock()
	defer n.mu.Unlock()

	var current string
	switch {
	case n.sessionID != sess.ID:
		n.idx = 0
	case n.idx < len(n.ids):
		current = n.ids[n.idx]
	}

	n.sessionID = sess.ID
	n.ids = n.ids[:0]
	for _, q := range sess.Questions {
		n.ids = append(n.ids, q.ID)
	}

	for i, id := range n.ids {
		if id == current {
			n.idx = i
			return
		}
	}
	n.idx = min(n.idx, max(len(n.ids)-1, 0))
}

func (n *navigator) Current() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.ids) == 0 {
		return "", true
	}
	return n.ids[n.idx], n.idx == len(n.ids)-1
}

func (n *navigator) Previous() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.idx > 0 {
		n.idx--
	}
}

func (n *navigator) Next() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.idx < len(n.ids)-1 {
		n.idx++
	}
}

func (n *navigator) Index() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.idx
}

func (n *navigator) SessionID() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.sessionID
}

// credentials is the part of the key store the client reads at runtime.
type credentials interface {
	Get(p keystore.Provider) (string, error)
	AutoAdvance() (bool, error)
	SetAutoAdvance(enabled bool) error
}

// preferences reads auto-advance from the key store, defaulting to on.
type preferences struct {
	keys credentials
}

func (p preferences) AutoAdvance() bool {
	enabled, err := p.keys.AutoAdvance()
	if err != nil {
		return true
	}
	return enabled
}

// uploader sends clips to the current session with the stored speech key.
type uploader struct {
	api  *apiClient
	keys credentials
	nav  *navigator
}

func (u uploader) Upload(ctx context.Context, questionID string, clip transcription.Clip) error {
	apiKey, err := u.keys.Get(keystore.Speech)
	if err != nil {
		return err
	}
	_, err = u.api.uploadResponse(ctx, u.nav.SessionID(), questionID, clip, apiKey)
	return err
}

// sender is satisfied by *tea.Program.
type sender interface {
	Send(msg tea.Msg)
}

// teaNotifier forwards controller notifications into the bubbletea loop.
type teaNotifier struct {
	mu sync.RWMutex
	p  sender
}

func (n *teaNotifier) attach(p sender) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.p = p
}

func (n *teaNotifier) send(msg tea.Msg) {
	n.mu.RLock()
	p := n.p
	n.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

func (n *teaNotifier) StateChanged(s recorder.State) { n.send(stateMsg{state: s}) }
func (n *teaNotifier) Level(level float64)           { n.send(levelMsg{level: level}) }
func (n *teaNotifier) WarmingUp(on bool)             { n.send(warmUpMsg{on: on}) }
func (n *teaNotifier) Remaining(d time.Duration)     { n.send(remainingMsg{remaining: d}) }
func (n *teaNotifier) Info(msg string)               { n.send(infoMsg{text: msg}) }
func (n *teaNotifier) Error(err error)               { n.send(errMsg{err: err}) }
