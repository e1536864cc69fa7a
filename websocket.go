package braindump

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/garysheng/braindump/store"
)

const (
	EventSnapshot = "snapshot"
	EventDeleted  = "deleted"
)

const writeWait = 10 * time.Second

// SessionEvent is pushed to feed subscribers. Snapshot events carry the
// whole session.
type SessionEvent struct {
	Type    string         `json:"type"`
	Session *store.Session `json:"session,omitempty"`
}

// WebConn is one realtime session feed.
type WebConn struct {
	conn      *websocket.Conn
	log       *log.Logger
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	store     *store.Store
	userID    string
	sessionID string
}

func (s *Server) handleSessionFeed(w http.ResponseWriter, r *http.Request) {
	userID, sessionID := r.PathValue("userID"), r.PathValue("sessionID")

	// Answer unknown sessions with a plain 404 before upgrading.
	if _, err := s.store.Session(r.Context(), userID, sessionID); err != nil {
		s.writeStoreError(w, "session feed", err)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 8192,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Printf("WebSocket upgrade failed: %v\n", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	webConn := &WebConn{
		conn:      conn,
		log:       s.log,
		ctx:       ctx,
		cancel:    cancel,
		store:     s.store,
		userID:    userID,
		sessionID: sessionID,
	}

	s.addConn(webConn)
	defer s.removeConn(webConn)

	webConn.Start()
}

// Start runs the feed until the client goes away, the session is deleted
// or Stop is called.
func (wc *WebConn) Start() {
	defer wc.Stop()

	wc.wg.Add(1)
	go func() {
		defer wc.wg.Done()
		wc.writer()
	}()

	wc.reader()
	wc.cancel()
	wc.wg.Wait()
}

// Stop ends the feed and closes the connection. It is safe to call more than
// once and from any goroutine.
func (wc *WebConn) Stop() {
	wc.closeOnce.Do(func() {
		wc.cancel()
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = wc.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		wc.conn.Close()
	})
}

// reader discards client messages; it exists to notice the client leaving.
func (wc *WebConn) reader() {
	for {
		if _, _, err := wc.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				wc.log.Printf("WebSocket read error: %v\n", err)
			}
			return
		}
	}
}

// writer pushes a snapshot on every change to the session.
func (wc *WebConn) writer() {
	err := wc.store.Watch(wc.ctx, wc.userID, wc.sessionID, func(sess *store.Session) error {
		return wc.write(SessionEvent{Type: EventSnapshot, Session: sess})
	})

	switch {
	case errors.Is(err, store.ErrNotFound):
		if werr := wc.write(SessionEvent{Type: EventDeleted}); werr != nil {
			wc.log.Printf("WebSocket write error: %v\n", werr)
		}
	case err != nil && !errors.Is(err, context.Canceled):
		wc.log.Printf("Session feed for %s ended: %v\n", wc.sessionID, err)
	}

	// Closing unblocks the reader.
	wc.Stop()
}

func (wc *WebConn) write(ev SessionEvent) error {
	if err := wc.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return wc.conn.WriteJSON(ev)
}
