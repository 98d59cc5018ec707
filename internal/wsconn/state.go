// Package wsconn implements the duplex WebSocket connection manager: dial,
// heartbeat, reconnect with backoff, and a bounded broadcast fan-out that
// surfaces lag to slow consumers instead of blocking fast ones.
package wsconn

import "time"

// Phase is the coarse lifecycle phase of a Conn.
type Phase int

const (
	Disconnected Phase = iota
	Connecting
	Connected
	Reconnecting
)

func (p Phase) String() string {
	switch p {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Reconnecting:
		return "reconnecting"
	default:
		return "unknown"
	}
}

// State is a point-in-time connection state. Since is populated only when
// Phase is Connected; Attempt only when Phase is Reconnecting.
type State struct {
	Phase   Phase
	Since   time.Time
	Attempt uint32
}

func (s State) IsConnected() bool { return s.Phase == Connected }

// Watcher publishes the latest connection State to any number of observers.
type Watcher = Watch[State]

func NewWatcher(initial State) *Watcher { return NewWatch(initial) }

// GetState returns the most recently published state, discarding the generation.
func GetState(w *Watcher) State {
	v, _ := w.Get()
	return v
}
