package wsconn

import "sync"

// Hub is a fixed-capacity, multi-consumer broadcast channel. Every
// Subscriber observes every message published after it subscribes; a
// subscriber that falls more than capacity messages behind does not block
// the publisher and does not silently miss data — its next Recv reports how
// many messages it lagged by before resuming at the oldest message still
// buffered.
//
// Capacity never grows, and every subscriber tracks its own read cursor
// into one shared ring rather than draining a private queue, so a slow
// subscriber can detect exactly how many messages it missed.
type Hub[T any] struct {
	mu       sync.Mutex
	cond     *sync.Cond
	buf      []T
	cap      uint64
	writeSeq uint64 // total messages ever published
	closed   bool
}

// NewHub creates a hub with the given fixed capacity.
func NewHub[T any](capacity int) *Hub[T] {
	h := &Hub[T]{
		buf: make([]T, capacity),
		cap: uint64(capacity),
	}
	h.cond = sync.NewCond(&h.mu)
	return h
}

// Send publishes v to every current and future subscriber. It never blocks
// and never drops: slow subscribers fall behind in their own cursor, not in
// a shared queue that could back up the publisher.
func (h *Hub[T]) Send(v T) {
	h.mu.Lock()
	h.buf[h.writeSeq%h.cap] = v
	h.writeSeq++
	h.mu.Unlock()
	h.cond.Broadcast()
}

// Close wakes every blocked subscriber so their Recv returns closed=true.
func (h *Hub[T]) Close() {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
	h.cond.Broadcast()
}

// Subscriber reads from a Hub starting from the moment it was created.
type Subscriber[T any] struct {
	hub    *Hub[T]
	cursor uint64
}

// Subscribe returns a new independent subscriber. It only observes messages
// published after this call.
func (h *Hub[T]) Subscribe() *Subscriber[T] {
	h.mu.Lock()
	defer h.mu.Unlock()
	return &Subscriber[T]{hub: h, cursor: h.writeSeq}
}

// Recv blocks until a message is available, the hub closes, or the
// subscriber has lagged. lagged > 0 means this call did not return a
// message: the caller skipped `lagged` messages and must reconcile (e.g. by
// refreshing an orderbook snapshot) before calling Recv again to resume at
// the oldest message still buffered.
func (s *Subscriber[T]) Recv() (msg T, lagged uint64, closed bool) {
	h := s.hub
	h.mu.Lock()
	defer h.mu.Unlock()

	for s.cursor == h.writeSeq && !h.closed {
		h.cond.Wait()
	}
	if h.closed && s.cursor == h.writeSeq {
		closed = true
		return
	}

	oldest := uint64(0)
	if h.writeSeq > h.cap {
		oldest = h.writeSeq - h.cap
	}
	if s.cursor < oldest {
		lagged = oldest - s.cursor
		s.cursor = oldest
		return
	}

	msg = h.buf[s.cursor%h.cap]
	s.cursor++
	return
}
