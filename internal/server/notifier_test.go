package server

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_SubscribeUnsubscribe(t *testing.T) {
	n := newNotifier()

	ch := n.subscribe()
	require.NotNil(t, ch)
	assert.Equal(t, 1, n.count())

	n.unsubscribe(ch)
	assert.Equal(t, 0, n.count())

	_, open := <-ch
	assert.False(t, open, "unsubscribe closes the channel")
}

func TestNotifier_Broadcast(t *testing.T) {
	n := newNotifier()
	ch1 := n.subscribe()
	ch2 := n.subscribe()
	defer n.unsubscribe(ch1)
	defer n.unsubscribe(ch2)

	n.broadcast(Event{Type: "reload", Entities: []string{"Person"}})

	for _, ch := range []chan Event{ch1, ch2} {
		select {
		case ev := <-ch:
			assert.Equal(t, "reload", ev.Type)
			assert.Equal(t, []string{"Person"}, ev.Entities)
		case <-time.After(100 * time.Millisecond):
			t.Fatal("subscriber did not receive the event")
		}
	}
}

func TestNotifier_BroadcastNonBlocking(t *testing.T) {
	n := newNotifier()
	ch := n.subscribe()
	defer n.unsubscribe(ch)

	done := make(chan struct{})
	go func() {
		n.broadcast(Event{Type: "first"})
		n.broadcast(Event{Type: "second"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("broadcast blocked on a full subscriber")
	}
	assert.Equal(t, "first", (<-ch).Type)
}

func TestNotifier_Concurrent(t *testing.T) {
	n := newNotifier()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch := n.subscribe()
			n.broadcast(Event{Type: "reload"})
			n.unsubscribe(ch)
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, n.count())
}
