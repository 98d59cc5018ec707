package submux

import (
	"context"
	"sync"

	"github.com/cloblabs/clob-go/internal/errs"
	"github.com/cloblabs/clob-go/internal/interest"
	"github.com/cloblabs/clob-go/internal/signer"
	"github.com/cloblabs/clob-go/internal/wsconn"
)

// Multiplexer is the refcounted subscription registry for one channel. It
// collapses overlapping consumer demands into at-most-one server
// subscription per key, and re-subscribes the full key set whenever
// the underlying connection completes a reconnect.
type Multiplexer struct {
	kind     ChannelKind
	conn     Conn
	interest *interest.AtomicSet

	// mu guards refcounts AND the subscribe/unsubscribe send decision as one
	// critical section: A decrementing to zero and sending unsubscribe while
	// B increments from zero and skips its subscribe cannot interleave,
	// because both paths hold mu for the whole "check refcount, maybe send"
	// sequence.
	mu        sync.Mutex
	refcounts map[string]int

	// credMu guards creds independently of mu: resubscribeAll needs the
	// latest credentials without contending with ordinary subscribe/
	// unsubscribe traffic.
	credMu sync.Mutex
	creds  *signer.Credentials

	cancelWatch context.CancelFunc
	watchDone   chan struct{}
}

// New builds a Multiplexer for one channel over conn, sharing interestSet
// with the connection's parser (internal/interest.Parser) so a subscribe
// here immediately widens what the read loop decodes.
func New(kind ChannelKind, conn Conn, interestSet *interest.AtomicSet) *Multiplexer {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Multiplexer{
		kind:        kind,
		conn:        conn,
		interest:    interestSet,
		refcounts:   make(map[string]int),
		cancelWatch: cancel,
		watchDone:   make(chan struct{}),
	}
	go m.watchReconnect(ctx)
	return m
}

// Close stops this multiplexer's reconnect watcher. It does not tear down
// the underlying connection, which may be shared with other multiplexers.
func (m *Multiplexer) Close() {
	m.cancelWatch()
	<-m.watchDone
}

// Subscribe registers req's keys, sending a single subscribe frame for
// whichever keys were not already referenced, and returns a Stream yielding
// only messages matching req's interest and keys.
func (m *Multiplexer) Subscribe(req SubscribeRequest) (*Stream, error) {
	if len(req.Keys) == 0 {
		return nil, errs.Validation("subscribe requires at least one key")
	}
	if m.kind == UserChannel && req.Credentials == nil {
		return nil, errs.Validation("user channel subscribe requires credentials")
	}

	m.interest.Add(req.Want)

	if m.kind == UserChannel {
		m.credMu.Lock()
		m.creds = req.Credentials
		m.credMu.Unlock()
	}

	var newKeys []string
	m.mu.Lock()
	for _, k := range req.Keys {
		if m.refcounts[k] == 0 {
			newKeys = append(newKeys, k)
		}
		m.refcounts[k]++
	}
	var sendErr error
	if len(newKeys) > 0 {
		frame := m.buildFrame("subscribe", newKeys, req.InitialDump, req.CustomFeatureEnabled, req.Credentials)
		sendErr = m.conn.Send(frame)
	}
	m.mu.Unlock()

	if sendErr != nil {
		return nil, &errs.WebSocketError{Reason: "send subscribe frame", Cause: sendErr}
	}

	keySet := make(map[string]struct{}, len(req.Keys))
	for _, k := range req.Keys {
		keySet[k] = struct{}{}
	}
	return newStream(m.conn.SubscribeMessages(), keySet, req.Want), nil
}

// Unsubscribe decrements refcounts for keys, sending a single unsubscribe
// frame for whichever keys reached zero. A key not currently referenced is
// silently skipped; unsubscribing twice is not an error.
func (m *Multiplexer) Unsubscribe(keys []string) error {
	if len(keys) == 0 {
		return errs.Validation("unsubscribe requires at least one key")
	}

	var toSend []string
	m.mu.Lock()
	for _, k := range keys {
		count, ok := m.refcounts[k]
		if !ok {
			continue
		}
		count--
		if count <= 0 {
			delete(m.refcounts, k)
			toSend = append(toSend, k)
		} else {
			m.refcounts[k] = count
		}
	}
	var sendErr error
	if len(toSend) > 0 {
		frame := m.buildFrame("unsubscribe", toSend, false, nil, nil)
		sendErr = m.conn.Send(frame)
	}
	m.mu.Unlock()

	if sendErr != nil {
		return &errs.WebSocketError{Reason: "send unsubscribe frame", Cause: sendErr}
	}
	return nil
}

// resubscribeAll re-emits a single subscribe frame carrying every key
// currently held at refcount >= 1, using the last-known credentials for the
// user channel.
func (m *Multiplexer) resubscribeAll() {
	m.mu.Lock()
	keys := make([]string, 0, len(m.refcounts))
	for k := range m.refcounts {
		keys = append(keys, k)
	}
	m.mu.Unlock()

	if len(keys) == 0 {
		return
	}

	var creds *signer.Credentials
	if m.kind == UserChannel {
		m.credMu.Lock()
		creds = m.creds
		m.credMu.Unlock()
		if creds == nil {
			return // deauthenticated since the last subscribe; nothing to resubscribe with
		}
	}

	frame := m.buildFrame("subscribe", keys, false, nil, creds)
	_ = m.conn.Send(frame) // best-effort: a dropped resubscribe self-heals on the next reconnect
}

// watchReconnect watches for a Connected -> (Connecting|Reconnecting) -> Connected
// transition and calls resubscribeAll exactly once per such cycle.
func (m *Multiplexer) watchReconnect(ctx context.Context) {
	defer close(m.watchDone)

	watcher := m.conn.StateChanges()
	_, gen := watcher.Get()
	sawDrop := false

	for {
		val, ok := watcher.NextCtx(ctx, gen)
		if !ok {
			return
		}
		_, gen = watcher.Get()

		switch val.Phase {
		case wsconn.Connected:
			if sawDrop {
				sawDrop = false
				m.resubscribeAll()
			}
		case wsconn.Disconnected:
			sawDrop = false
		default: // Connecting, Reconnecting
			sawDrop = true
		}
	}
}

// buildFrame assembles the wire-level subscribe/unsubscribe frame for this
// channel.
func (m *Multiplexer) buildFrame(operation string, keys []string, initialDump bool, customFeature *bool, creds *signer.Credentials) SubscribeFrame {
	f := SubscribeFrame{
		Type:      m.kind.wireType(),
		Operation: operation,
		Markets:   []string{},
		AssetsIDs: []string{},
	}

	switch m.kind {
	case MarketChannel:
		f.AssetsIDs = keys
		if initialDump {
			v := true
			f.InitialDump = &v
		}
		f.CustomFeatureEnabled = customFeature
	case UserChannel:
		f.Markets = keys
		if creds != nil {
			f.Auth = &AuthPayload{APIKey: creds.Key, Secret: creds.Secret, Passphrase: creds.Passphrase}
		}
	}
	return f
}
