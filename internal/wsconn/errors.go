package wsconn

import "errors"

// ErrConnectionClosed is returned by Send/SendAuthenticated once the Conn
// has been permanently stopped (Stop called, or Disconnected reached after
// exhausting MaxAttempts).
var ErrConnectionClosed = errors.New("wsconn: connection closed")

// errDuplexExit is an internal sentinel the duplex loop's three legs return
// to cancel the other two via the errgroup's derived context; it is never
// surfaced to callers. A leg exiting cleanly (e.g. a close frame) still
// needs to stop its siblings, so it wraps this sentinel rather than
// returning nil.
var errDuplexExit = errors.New("wsconn: duplex loop exited")

// errStale marks a duplex exit caused by a missed heartbeat.
var errStale = errors.New("wsconn: connection stale, no pong within heartbeat timeout")
