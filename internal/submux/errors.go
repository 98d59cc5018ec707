package submux

import (
	"errors"
	"fmt"
)

// ErrStreamClosed is returned by Stream.Next once the underlying connection's
// broadcast hub has been closed (the client itself was torn down).
var ErrStreamClosed = errors.New("submux: stream closed")

// LaggedError is surfaced by Stream.Next in place of the messages a slow
// consumer's ring buffer dropped. The consumer must reconcile externally — typically by re-fetching
// an orderbook snapshot — before resuming.
type LaggedError struct {
	Count uint64
}

func (e *LaggedError) Error() string {
	return fmt.Sprintf("lagged %d messages; reconcile by refreshing snapshot state before resuming", e.Count)
}
