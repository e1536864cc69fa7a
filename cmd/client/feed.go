package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/gorilla/websocket"

	braindump "github.com/garysheng/braindump"
)

// feed is the realtime session snapshot stream.
type feed struct {
	conn *websocket.Conn
}

// feedURL turns the server's http(s) base URL into the session feed URL.
func feedURL(baseURL, userID, sessionID string) string {
	u := baseURL
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return fmt.Sprintf("%s/ws/users/%s/sessions/%s", u, userID, sessionID)
}

func dialFeed(ctx context.Context, url string) (*feed, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial session feed: %w", err)
	}
	return &feed{conn: conn}, nil
}

// Next blocks until the next event. A normal close from the server is
// returned as an error like any other.
func (f *feed) Next() (braindump.SessionEvent, error) {
	var ev braindump.SessionEvent
	if err := f.conn.ReadJSON(&ev); err != nil {
		return braindump.SessionEvent{}, err
	}
	return ev, nil
}

func (f *feed) Close() error {
	return f.conn.Close()
}
