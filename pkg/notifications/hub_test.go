package notifications

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubBroadcastReachesAllClients(t *testing.T) {
	hub := NewHub()

	first, unsubFirst := hub.Subscribe()
	second, unsubSecond := hub.Subscribe()
	defer unsubFirst()
	defer unsubSecond()

	assert.Equal(t, 2, hub.ClientCount())

	n := &Notification{ID: "n-1", Title: "hello"}
	hub.Broadcast(n)

	select {
	case got := <-first:
		assert.Equal(t, "n-1", got.ID)
	case <-time.After(time.Second):
		t.Fatal("first client did not receive the notification")
	}
	select {
	case got := <-second:
		assert.Equal(t, "n-1", got.ID)
	case <-time.After(time.Second):
		t.Fatal("second client did not receive the notification")
	}
}

func TestHubUnsubscribeIsIdempotent(t *testing.T) {
	hub := NewHub()

	ch, unsubscribe := hub.Subscribe()
	unsubscribe()
	unsubscribe()

	assert.Equal(t, 0, hub.ClientCount())

	_, open := <-ch
	assert.False(t, open)

	// Broadcasting after unsubscribe must not panic.
	hub.Broadcast(&Notification{ID: "n-2"})
}

func TestHubDropsEventsForSlowClients(t *testing.T) {
	hub := NewHub()

	ch, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	// Fill the buffer past capacity; the overflow is dropped, not blocking.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < clientBufferSize+10; i++ {
			hub.Broadcast(&Notification{ID: "n"})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked on a slow client")
	}

	assert.Len(t, ch, clientBufferSize)
}

func TestHubClose(t *testing.T) {
	hub := NewHub()

	ch, _ := hub.Subscribe()
	hub.Close()

	_, open := <-ch
	require.False(t, open)
	assert.Equal(t, 0, hub.ClientCount())

	// Subscriptions after close get a closed channel.
	late, unsubscribe := hub.Subscribe()
	defer unsubscribe()
	_, open = <-late
	assert.False(t, open)
}
