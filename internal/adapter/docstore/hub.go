package docstore

import (
	"context"
	"sync"
)

// Hub fans collection snapshots out to subscribers. Backends publish while
// holding their own write lock so subscribers observe changes in order.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[chan Snapshot]struct{}
	closed bool
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan Snapshot]struct{})}
}

// Subscribe registers a subscriber and queues initial as its first snapshot.
func (h *Hub) Subscribe(ctx context.Context, collection string, initial Snapshot) (<-chan Snapshot, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrClosed
	}
	ch := make(chan Snapshot, 1)
	ch <- initial.Clone()

	set, ok := h.subs[collection]
	if !ok {
		set = make(map[chan Snapshot]struct{})
		h.subs[collection] = set
	}
	set[ch] = struct{}{}

	go func() {
		<-ctx.Done()
		h.remove(collection, ch)
	}()
	return ch, nil
}

// Publish hands snap to every subscriber of its collection, replacing any
// snapshot they have not consumed yet.
func (h *Hub) Publish(snap Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs[snap.Collection] {
		offer(ch, snap.Clone())
	}
}

// Subscribers reports how many live subscriptions a collection has.
func (h *Hub) Subscribers(collection string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[collection])
}

func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for _, set := range h.subs {
		for ch := range set {
			close(ch)
		}
	}
	h.subs = nil
}

func (h *Hub) remove(collection string, ch chan Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.subs[collection]
	if !ok {
		return
	}
	if _, ok := set[ch]; !ok {
		return
	}
	delete(set, ch)
	if len(set) == 0 {
		delete(h.subs, collection)
	}
	close(ch)
}

// offer never blocks: ch has capacity 1 and only the hub sends on it.
func offer(ch chan Snapshot, snap Snapshot) {
	select {
	case ch <- snap:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- snap:
	default:
	}
}
