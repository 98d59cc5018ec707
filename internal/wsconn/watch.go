package wsconn

import (
	"context"
	"sync"
)

// Watch publishes the latest value of T to any number of observers, each of
// which always sees the most recent Set — never a backlog — mirroring
// `tokio::sync::watch`. Used both for connection-state change notification
// (Watcher, below) and internally for the heartbeat's pong watermark — a
// Watch lets the heartbeat goroutine block until the watermark actually
// advances instead of
// polling on a fixed tick.
type Watch[T any] struct {
	mu   sync.Mutex
	cond *sync.Cond
	val  T
	gen  uint64
}

func NewWatch[T any](initial T) *Watch[T] {
	w := &Watch[T]{val: initial}
	w.cond = sync.NewCond(&w.mu)
	return w
}

// Set publishes a new value and wakes any goroutines blocked in Next.
func (w *Watch[T]) Set(v T) {
	w.mu.Lock()
	w.val = v
	w.gen++
	w.mu.Unlock()
	w.cond.Broadcast()
}

// Get returns the most recently published value and its generation.
func (w *Watch[T]) Get() (T, uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.val, w.gen
}

// Next blocks until the value's generation differs from lastGen, then
// returns the new value and generation.
func (w *Watch[T]) Next(lastGen uint64) (T, uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for w.gen == lastGen {
		w.cond.Wait()
	}
	return w.val, w.gen
}

// NextCtx behaves like Next but also returns (_, false) if ctx is canceled
// first. The watcher goroutine it spawns to observe ctx is torn down via
// stop as soon as NextCtx returns by either path — it never outlives the
// call the way a bare `case <-w.NextAsync(...):` inside a select would if
// no further Set ever arrives on this Watch (e.g. after the connection that
// owned it has already been torn down).
func (w *Watch[T]) NextCtx(ctx context.Context, lastGen uint64) (val T, ok bool) {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			w.mu.Unlock()
			w.cond.Broadcast()
		case <-stop:
		}
	}()

	w.mu.Lock()
	defer w.mu.Unlock()
	for w.gen == lastGen && ctx.Err() == nil {
		w.cond.Wait()
	}
	if ctx.Err() != nil {
		var zero T
		return zero, false
	}
	return w.val, true
}
