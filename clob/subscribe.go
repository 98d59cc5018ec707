package clob

import "github.com/cloblabs/clob-go/internal/wsconn"

// UserConnectionState reports the user channel socket's current phase,
// dialing it on first use if no handle has subscribed yet.
func (a authBase) UserConnectionState() wsconn.State {
	a.inner.ensureUser()
	return a.inner.userConn.State()
}
