package services

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu       sync.Mutex
	frames   [][]byte
	closed   bool
	deadline time.Time

	// when set, writes signal writing and wait for release
	writing chan struct{}
	release chan struct{}
}

func (c *fakeConn) SetWriteDeadline(t time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deadline = t
	return nil
}

func (c *fakeConn) WriteMessage(typ int, data []byte) error {
	if c.release != nil {
		c.writing <- struct{}{}
		<-c.release
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if typ == websocket.TextMessage {
		c.frames = append(c.frames, data)
	}
	return nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

func TestRealtimeHub_PublishReachesOnlyThatUser(t *testing.T) {
	hub := NewRealtimeHub()
	mine, other := &fakeConn{}, &fakeConn{}
	hub.Register(&WSClient{UserID: "u1", Conn: mine})
	hub.Register(&WSClient{UserID: "u2", Conn: other})

	hub.Publish("u1", Event{Kind: "meal.created", ID: "m1"})

	require.Len(t, mine.frames, 1)
	assert.Empty(t, other.frames)
	var ev Event
	require.NoError(t, json.Unmarshal(mine.frames[0], &ev))
	assert.Equal(t, "meal.created", ev.Kind)
	assert.Equal(t, "m1", ev.ID)
}

func TestRealtimeHub_Unregister(t *testing.T) {
	hub := NewRealtimeHub()
	conn := &fakeConn{}
	cl := &WSClient{UserID: "u1", Conn: conn}
	hub.Register(cl)
	assert.Equal(t, 1, hub.Connected("u1"))

	hub.Unregister(cl)
	assert.Equal(t, 0, hub.Connected("u1"))
	assert.True(t, conn.closed)

	hub.Publish("u1", Event{Kind: "meal.deleted"})
	assert.Empty(t, conn.frames)
}

func TestRealtimeHub_NilIsNoop(t *testing.T) {
	var hub *RealtimeHub
	assert.NotPanics(t, func() { hub.Publish("u1", Event{Kind: "x"}) })
}

func TestRealtimeHub_WritesCarryDeadline(t *testing.T) {
	hub := NewRealtimeHub()
	conn := &fakeConn{}
	cl := &WSClient{UserID: "u1", Conn: conn}
	hub.Register(cl)

	before := time.Now()
	hub.Publish("u1", Event{Kind: "food.saved"})
	assert.True(t, conn.deadline.After(before))

	conn.deadline = time.Time{}
	require.NoError(t, cl.Ping())
	assert.False(t, conn.deadline.IsZero())
}

func TestRealtimeHub_StalledClientDoesNotBlockHub(t *testing.T) {
	hub := NewRealtimeHub()
	slow := &fakeConn{writing: make(chan struct{}), release: make(chan struct{})}
	hub.Register(&WSClient{UserID: "u1", Conn: slow})

	published := make(chan struct{})
	go func() {
		hub.Publish("u1", Event{Kind: "meal.updated"})
		close(published)
	}()
	<-slow.writing

	registered := make(chan struct{})
	go func() {
		hub.Register(&WSClient{UserID: "u2", Conn: &fakeConn{}})
		hub.Publish("u2", Event{Kind: "meal.created"})
		close(registered)
	}()
	select {
	case <-registered:
	case <-time.After(time.Second):
		t.Fatal("hub stayed locked while a write was stalled")
	}
	assert.Equal(t, 1, hub.Connected("u2"))

	close(slow.release)
	<-published
	assert.Len(t, slow.frames, 1)
}
