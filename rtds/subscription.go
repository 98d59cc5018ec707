package rtds

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/cloblabs/clob-go/internal/errs"
	"github.com/cloblabs/clob-go/internal/signer"
	"github.com/cloblabs/clob-go/internal/wsconn"
)

// TopicType identifies one (topic, message type) subscription on the wire.
// The message type may be TypeWildcard to cover every event on the topic.
type TopicType struct {
	Topic string
	Type  string
}

// Subscription is one consumer's demand: a topic/type pair plus optional
// server-side filters and optional CLOB credentials (comments only).
type Subscription struct {
	Topic   string
	Type    string
	Filters string
	Auth    *signer.Credentials
}

// CryptoPrices subscribes to Binance price updates, optionally narrowed to
// a symbol list (lowercase concatenated pairs, e.g. "btcusdt").
func CryptoPrices(symbols []string) Subscription {
	var filters string
	if len(symbols) > 0 {
		// The server expects filters as a JSON array rendered into a string.
		raw, _ := json.Marshal(symbols)
		filters = string(raw)
	}
	return Subscription{Topic: TopicCryptoPrices, Type: TypeUpdate, Filters: filters}
}

// ChainlinkPrices subscribes to Chainlink oracle updates, optionally
// narrowed to one slash-separated symbol (e.g. "eth/usd").
func ChainlinkPrices(symbol string) Subscription {
	var filters string
	if symbol != "" {
		raw, _ := json.Marshal(map[string]string{"symbol": symbol})
		filters = string(raw)
	}
	return Subscription{Topic: TopicChainlinkPrices, Type: TypeWildcard, Filters: filters}
}

// Comments subscribes to comment events, optionally narrowed to one event
// type.
func Comments(commentType CommentType) Subscription {
	t := TypeWildcard
	if commentType != "" {
		t = string(commentType)
	}
	return Subscription{Topic: TopicComments, Type: t}
}

// WithAuth attaches CLOB credentials to the subscription's wire frame.
// These must only traverse secured transport.
func (s Subscription) WithAuth(creds signer.Credentials) Subscription {
	s.Auth = &creds
	return s
}

func (s Subscription) topicType() TopicType {
	return TopicType{Topic: s.Topic, Type: s.Type}
}

// authPayload mirrors the CLOB user channel's credential side field.
type authPayload struct {
	Key        string `json:"key"`
	Secret     string `json:"secret"`
	Passphrase string `json:"passphrase"`
}

// wireSubscription is one element of a subscribe/unsubscribe frame. Filters
// carrying valid JSON travel as the string the caller supplied; the server
// parses it out-of-band.
type wireSubscription struct {
	Topic    string       `json:"topic"`
	Type     string       `json:"type"`
	Filters  string       `json:"filters,omitempty"`
	ClobAuth *authPayload `json:"clob_auth,omitempty"`
}

// SubscriptionRequest is the outbound wire frame.
type SubscriptionRequest struct {
	Action        string             `json:"action"`
	Subscriptions []wireSubscription `json:"subscriptions"`
}

func buildRequest(action string, subs []Subscription) SubscriptionRequest {
	wire := make([]wireSubscription, 0, len(subs))
	for _, s := range subs {
		w := wireSubscription{Topic: s.Topic, Type: s.Type, Filters: s.Filters}
		if s.Auth != nil {
			w.ClobAuth = &authPayload{Key: s.Auth.Key, Secret: s.Auth.Secret, Passphrase: s.Auth.Passphrase}
		}
		wire = append(wire, w)
	}
	return SubscriptionRequest{Action: action, Subscriptions: wire}
}

// Conn is the subset of *wsconn.Conn[Message] the subscription manager
// needs, expressed as an interface so tests can substitute a fake
// connection without standing up a real socket.
type Conn interface {
	Send(request any) error
	SubscribeMessages() Receiver
	State() wsconn.State
	StateChanges() *wsconn.Watcher
}

// Receiver is the subset of *wsconn.Subscriber[Message] a Stream reads
// from.
type Receiver interface {
	Recv() (msg Message, lagged uint64, closed bool)
}

type wsconnAdapter struct {
	c *wsconn.Conn[Message]
}

// WrapConn adapts a realtime wsconn.Conn for use as a manager's Conn.
func WrapConn(c *wsconn.Conn[Message]) Conn { return wsconnAdapter{c} }

func (a wsconnAdapter) Send(request any) error        { return a.c.Send(request) }
func (a wsconnAdapter) SubscribeMessages() Receiver   { return a.c.SubscribeMessages() }
func (a wsconnAdapter) State() wsconn.State           { return a.c.State() }
func (a wsconnAdapter) StateChanges() *wsconn.Watcher { return a.c.StateChanges() }

// subscriptionManager refcounts (topic, type) demand across concurrently
// held streams: the first reference sends a subscribe frame, the last
// release sends the unsubscribe, and a reconnect replays every live
// subscription with the last-known credentials for those that carried any.
type subscriptionManager struct {
	conn Conn

	// mu guards refcounts, the per-topic subscription records, AND the
	// subscribe/unsubscribe send decision as one critical section, the same
	// discipline the CLOB multiplexer uses.
	mu        sync.Mutex
	refcounts map[TopicType]int
	active    map[TopicType]Subscription

	credMu   sync.Mutex
	lastAuth *signer.Credentials

	cancelWatch context.CancelFunc
	watchDone   chan struct{}
}

func newSubscriptionManager(conn Conn) *subscriptionManager {
	ctx, cancel := context.WithCancel(context.Background())
	m := &subscriptionManager{
		conn:        conn,
		refcounts:   make(map[TopicType]int),
		active:      make(map[TopicType]Subscription),
		cancelWatch: cancel,
		watchDone:   make(chan struct{}),
	}
	go m.watchReconnect(ctx)
	return m
}

func (m *subscriptionManager) close() {
	m.cancelWatch()
	<-m.watchDone
}

// subscribe registers sub, sending a subscribe frame only when its
// (topic, type) was not already referenced, and returns a Stream yielding
// matching messages.
func (m *subscriptionManager) subscribe(sub Subscription) (*Stream, error) {
	if sub.Topic == "" {
		return nil, errs.Validation("subscription topic must not be empty")
	}
	if sub.Type == "" {
		sub.Type = TypeWildcard
	}

	if sub.Auth != nil {
		m.credMu.Lock()
		m.lastAuth = sub.Auth
		m.credMu.Unlock()
	}

	tt := sub.topicType()

	m.mu.Lock()
	if m.refcounts[tt] == 0 {
		if err := m.conn.Send(buildRequest("subscribe", []Subscription{sub})); err != nil {
			m.mu.Unlock()
			return nil, &errs.WebSocketError{Reason: "send subscribe frame", Cause: err}
		}
	}
	m.refcounts[tt]++
	m.active[tt] = sub
	m.mu.Unlock()

	return newStream(m.conn.SubscribeMessages(), tt), nil
}

// unsubscribe decrements refcounts for the given topics, sending a single
// unsubscribe frame for those reaching zero. A topic not currently
// referenced is silently skipped; unsubscribing twice is not an error.
func (m *subscriptionManager) unsubscribe(topics []TopicType) error {
	if len(topics) == 0 {
		return errs.Validation("unsubscribe requires at least one topic")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var toSend []Subscription
	for _, tt := range topics {
		count, ok := m.refcounts[tt]
		if !ok {
			continue
		}
		if count > 1 {
			m.refcounts[tt] = count - 1
			continue
		}
		delete(m.refcounts, tt)
		delete(m.active, tt)
		toSend = append(toSend, Subscription{Topic: tt.Topic, Type: tt.Type})
	}

	if len(toSend) == 0 {
		return nil
	}
	if err := m.conn.Send(buildRequest("unsubscribe", toSend)); err != nil {
		return &errs.WebSocketError{Reason: "send unsubscribe frame", Cause: err}
	}
	return nil
}

// resubscribeAll replays every live subscription in one frame, reapplying
// the last-known credentials to those that originally carried any.
func (m *subscriptionManager) resubscribeAll() {
	m.credMu.Lock()
	auth := m.lastAuth
	m.credMu.Unlock()

	m.mu.Lock()
	subs := make([]Subscription, 0, len(m.active))
	for _, sub := range m.active {
		if sub.Auth != nil && auth != nil {
			sub.Auth = auth
		}
		subs = append(subs, sub)
	}
	m.mu.Unlock()

	if len(subs) == 0 {
		return
	}
	_ = m.conn.Send(buildRequest("subscribe", subs)) // best-effort: a dropped resubscribe self-heals on the next reconnect
}

func (m *subscriptionManager) subscriptionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.active)
}

// watchReconnect watches for a Connected -> (Connecting|Reconnecting) ->
// Connected transition and calls resubscribeAll exactly once per such
// cycle.
func (m *subscriptionManager) watchReconnect(ctx context.Context) {
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
