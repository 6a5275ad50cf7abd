package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"azellar-portal/internal/session"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Run(ctx)
	return h
}

func TestHub_PublishReachesOnlyTheSessionTopic(t *testing.T) {
	h := startHub(t)
	a1 := NewClient(h, nil, "sess-a")
	a2 := NewClient(h, nil, "sess-a")
	b := NewClient(h, nil, "sess-b")
	h.Register(a1)
	h.Register(a2)
	h.Register(b)
	require.Eventually(t, func() bool { return h.ClientCount() == 3 }, time.Second, 5*time.Millisecond)

	uid := uuid.New()
	h.Publish(session.Event{Type: session.EventSignedOut, SessionID: "sess-a", UserID: uid})

	for _, c := range []*Client{a1, a2} {
		select {
		case raw := <-c.send:
			var got map[string]any
			require.NoError(t, json.Unmarshal(raw, &got))
			assert.Equal(t, "SIGNED_OUT", got["type"])
			assert.Equal(t, uid.String(), got["user_id"])
			assert.NotContains(t, got, "SessionID")
		case <-time.After(time.Second):
			t.Fatal("expected event on session topic")
		}
	}

	select {
	case <-b.send:
		t.Fatal("other session must not receive the event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnregisterClosesSendAndDropsTopic(t *testing.T) {
	h := startHub(t)
	c := NewClient(h, nil, "sess-a")
	h.Register(c)
	require.Eventually(t, func() bool { return h.TopicCount("sess-a") == 1 }, time.Second, 5*time.Millisecond)

	h.Unregister(c)
	require.Eventually(t, func() bool { return h.TopicCount("sess-a") == 0 }, time.Second, 5*time.Millisecond)

	_, open := <-c.send
	assert.False(t, open)
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	h := startHub(t)
	c := NewClient(h, nil, "sess-a")
	h.Register(c)
	require.Eventually(t, func() bool { return h.TopicCount("sess-a") == 1 }, time.Second, 5*time.Millisecond)

	for i := 0; i < sendBuffer+1; i++ {
		h.Publish(session.Event{Type: session.EventTokenRefreshed, SessionID: "sess-a"})
	}
	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestHub_UserTopicReceivesEveryEventOfTheUser(t *testing.T) {
	h := startHub(t)
	uid := uuid.New()
	bearer := NewClient(h, nil, UserTopic(uid))
	other := NewClient(h, nil, UserTopic(uuid.New()))
	h.Register(bearer)
	h.Register(other)
	require.Eventually(t, func() bool { return h.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	h.Publish(session.Event{Type: session.EventSignedIn, SessionID: "sess-a", UserID: uid})
	h.Publish(session.Event{Type: session.EventUserUpdated, UserID: uid})

	for _, want := range []string{"SIGNED_IN", "USER_UPDATED"} {
		select {
		case raw := <-bearer.send:
			var got map[string]any
			require.NoError(t, json.Unmarshal(raw, &got))
			assert.Equal(t, want, got["type"])
		case <-time.After(time.Second):
			t.Fatalf("expected %s on user topic", want)
		}
	}

	select {
	case <-other.send:
		t.Fatal("another user must not receive the event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_RegisterAfterStopDoesNotBlock(t *testing.T) {
	h := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	finished := make(chan struct{})
	late := NewClient(h, nil, "sess-a")
	go func() {
		h.Register(late)
		for i := 0; i < 512; i++ {
			h.Unregister(NewClient(h, nil, "sess-a"))
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("register and unregister must return once the hub stopped")
	}
	_, open := <-late.send
	assert.False(t, open)
}

func TestTopicFor(t *testing.T) {
	uid := uuid.New()
	ident := &session.Identity{ID: uid}

	assert.Equal(t, "", TopicFor(session.State{}))
	assert.Equal(t, "", TopicFor(session.State{Loading: true, SessionID: "sess-a"}))
	assert.Equal(t, "sess-a", TopicFor(session.State{Authenticated: true, SessionID: "sess-a", User: ident}))
	assert.Equal(t, UserTopic(uid), TopicFor(session.State{Authenticated: true, User: ident}))
}

func TestHub_EventWithoutSessionIsIgnored(t *testing.T) {
	var h *Hub
	assert.NotPanics(t, func() { h.Publish(session.Event{Type: session.EventSignedIn}) })
	assert.Equal(t, 0, h.ClientCount())
}
