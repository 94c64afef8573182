package watch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSubscribeReceivesSnapshots(t *testing.T) {
	hub := NewHub[[]string]()

	ch, cancel := hub.Subscribe(context.Background(), "u1")
	defer cancel()

	hub.Publish("u1", []string{"a"})

	select {
	case got := <-ch:
		require.Equal(t, []string{"a"}, got)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
}

func TestPublishKeepsOnlyLatest(t *testing.T) {
	hub := NewHub[int]()

	ch, cancel := hub.Subscribe(context.Background(), "u1")
	defer cancel()

	// The subscriber is not draining; the second publish replaces the first.
	hub.Publish("u1", 1)
	hub.Publish("u1", 2)

	require.Equal(t, 2, <-ch)
}

func TestPublishIsScopedToKey(t *testing.T) {
	hub := NewHub[int]()

	ch1, cancel1 := hub.Subscribe(context.Background(), "u1")
	defer cancel1()
	ch2, cancel2 := hub.Subscribe(context.Background(), "u2")
	defer cancel2()

	hub.Publish("u1", 7)

	require.Equal(t, 7, <-ch1)
	select {
	case v := <-ch2:
		t.Fatalf("unexpected snapshot for other key: %v", v)
	default:
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub[int]()

	ch, cancel := hub.Subscribe(context.Background(), "u1")
	cancel()

	_, open := <-ch
	require.False(t, open)

	// Publishing after release must not panic.
	hub.Publish("u1", 1)

	// Releasing twice is safe.
	cancel()
}

func TestContextCancelReleasesSubscription(t *testing.T) {
	hub := NewHub[int]()

	ctx, stop := context.WithCancel(context.Background())
	ch, _ := hub.Subscribe(ctx, "u1")
	stop()

	select {
	case _, open := <-ch:
		require.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("channel not closed after context cancel")
	}
}
