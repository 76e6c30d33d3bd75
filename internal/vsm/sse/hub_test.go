package sse

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendToUserTargetsOnlyThatUser(t *testing.T) {
	h := NewHub(nil)
	a := &Client{ID: "a1", UserID: "alice", Events: make(chan Event, 1)}
	b := &Client{ID: "b1", UserID: "bob", Events: make(chan Event, 1)}
	h.Register(a)
	h.Register(b)

	h.PublishNotification("alice", 7, "hello")

	require.Len(t, a.Events, 1)
	assert.Len(t, b.Events, 0)

	ev := <-a.Events
	assert.Equal(t, "notification", ev.EventType)
	var p NotificationPayload
	require.NoError(t, json.Unmarshal([]byte(ev.Data), &p))
	assert.Equal(t, uint(7), p.ID)
	assert.Equal(t, "hello", p.Message)
}

func TestFullBufferDoesNotBlock(t *testing.T) {
	h := NewHub(nil)
	c := &Client{ID: "c1", UserID: "u", Events: make(chan Event, 1)}
	h.Register(c)

	assert.Equal(t, 1, h.SendToUser("u", Event{EventType: "x"}))
	assert.Equal(t, 0, h.SendToUser("u", Event{EventType: "y"}))
}

func TestUnregisterClosesChannel(t *testing.T) {
	h := NewHub(nil)
	c := &Client{ID: "c1", UserID: "u", Events: make(chan Event, 1)}
	h.Register(c)
	h.Unregister("c1")
	h.Unregister("c1")

	_, ok := <-c.Events
	assert.False(t, ok)
	assert.Equal(t, 0, h.ClientCount())
}
