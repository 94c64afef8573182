// Package watch is a small in-process subscription hub: callers subscribe to
// a key and receive full snapshots whenever a publisher pushes one. It
// replaces callback-style change listeners with an explicit acquire/release
// pair: Subscribe hands back the channel and the unsubscribe func together,
// and the subscription also dies with its context.
package watch

import (
	"context"
	"sync"
)

// Hub fans snapshots of type T out to subscribers grouped by key
// (typically a user id).
type Hub[T any] struct {
	mu   sync.Mutex
	subs map[string]map[int]chan T
	next int
}

func NewHub[T any]() *Hub[T] {
	return &Hub[T]{subs: make(map[string]map[int]chan T)}
}

// Subscribe registers a subscriber for key. The returned channel is closed
// when the subscription ends; the caller must invoke the returned func (or
// cancel ctx) to release it.
func (h *Hub[T]) Subscribe(ctx context.Context, key string) (<-chan T, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.next
	h.next++

	// Buffered by one so a slow consumer holds at most the latest snapshot.
	ch := make(chan T, 1)
	if h.subs[key] == nil {
		h.subs[key] = make(map[int]chan T)
	}
	h.subs[key][id] = ch

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if set, ok := h.subs[key]; ok {
				if c, ok := set[id]; ok {
					delete(set, id)
					close(c)
				}
				if len(set) == 0 {
					delete(h.subs, key)
				}
			}
		})
	}

	context.AfterFunc(ctx, unsubscribe)
	return ch, unsubscribe
}

// Publish delivers the snapshot to every subscriber of key. A subscriber that
// has not drained the previous snapshot gets it replaced: only the latest
// state matters to a watcher.
func (h *Hub[T]) Publish(key string, snapshot T) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs[key] {
		select {
		case ch <- snapshot:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snapshot:
			default:
			}
		}
	}
}
