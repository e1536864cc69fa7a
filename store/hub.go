package store

import (
	"fmt"
	"sync"
)

// QuestionsTopic is published whenever the question set of a session changes,
// including when the session is created or deleted.
func QuestionsTopic(userID, sessionID string) string {
	return fmt.Sprintf("users/%s/sessions/%s/questions", userID, sessionID)
}

// ResponsesTopic is published whenever a question's responses change.
func ResponsesTopic(userID, sessionID, questionID string) string {
	return fmt.Sprintf("users/%s/sessions/%s/questions/%s/responses", userID, sessionID, questionID)
}

// Hub is an in-process broker for change notifications. Publishing never
// blocks: a subscriber whose channel is full misses the event, which is fine
// because every event only means "reload".
type Hub struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[string]map[uint64]chan<- string
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[uint64]chan<- string)}
}

// Subscribe delivers the topic name to ch on every publish until the
// returned cancel func is called. Cancel is idempotent.
func (h *Hub) Subscribe(topic string, ch chan<- string) (cancel func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	if h.subs[topic] == nil {
		h.subs[topic] = make(map[uint64]chan<- string)
	}
	h.subs[topic][id] = ch

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[topic], id)
			if len(h.subs[topic]) == 0 {
				delete(h.subs, topic)
			}
		})
	}
}

// Publish notifies every subscriber of topic.
func (h *Hub) Publish(topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs[topic] {
		select {
		case ch <- topic:
		default:
		}
	}
}

// Subscribers returns the number of live subscriptions for topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[topic])
}

// Topics returns the number of topics with at least one subscriber.
func (h *Hub) Topics() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
