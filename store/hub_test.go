package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHub_PublishSubscribe(t *testing.T) {
	h := NewHub()
	ch := make(chan string, 1)
	cancel := h.Subscribe("a", ch)

	h.Publish("a")
	h.Publish("b")
	assert.Equal(t, "a", <-ch)
	assert.Len(t, ch, 0)

	assert.Equal(t, 1, h.Subscribers("a"))
	cancel()
	cancel()
	assert.Equal(t, 0, h.Subscribers("a"))
	assert.Equal(t, 0, h.Topics())

	h.Publish("a")
	assert.Len(t, ch, 0)
}

func TestHub_FullSubscriberDoesNotBlock(t *testing.T) {
	h := NewHub()
	slow := make(chan string)
	fast := make(chan string, 1)
	defer h.Subscribe("t", slow)()
	defer h.Subscribe("t", fast)()

	h.Publish("t")
	assert.Equal(t, "t", <-fast)
}

func TestTopics(t *testing.T) {
	assert.Equal(t, "users/u/sessions/s/questions", QuestionsTopic("u", "s"))
	assert.Equal(t, "users/u/sessions/s/questions/q/responses", ResponsesTopic("u", "s", "q"))
}
