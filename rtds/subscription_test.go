package rtds

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cloblabs/clob-go/internal/signer"
	"github.com/cloblabs/clob-go/internal/wsconn"
)

type fakeConn struct {
	mu    sync.Mutex
	sent  []SubscriptionRequest
	hub   *wsconn.Hub[Message]
	state *wsconn.Watcher
}

func newFakeConn(capacity int) *fakeConn {
	return &fakeConn{
		hub:   wsconn.NewHub[Message](capacity),
		state: wsconn.NewWatcher(wsconn.State{Phase: wsconn.Connected}),
	}
}

func (f *fakeConn) Send(request any) error {
	req, ok := request.(SubscriptionRequest)
	if !ok {
		return fmt.Errorf("unexpected frame type %T", request)
	}
	f.mu.Lock()
	f.sent = append(f.sent, req)
	f.mu.Unlock()
	return nil
}

func (f *fakeConn) SubscribeMessages() Receiver   { return f.hub.Subscribe() }
func (f *fakeConn) State() wsconn.State           { return wsconn.GetState(f.state) }
func (f *fakeConn) StateChanges() *wsconn.Watcher { return f.state }

func (f *fakeConn) framesSent() []SubscriptionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]SubscriptionRequest, len(f.sent))
	copy(out, f.sent)
	return out
}

// TestTopicRefcounting: a second stream on the same (topic, type) must not
// send a second subscribe frame, and only the last unsubscribe reaches the
// wire.
func TestTopicRefcounting(t *testing.T) {
	conn := newFakeConn(16)
	m := newSubscriptionManager(conn)
	defer m.close()

	if _, err := m.subscribe(CryptoPrices(nil)); err != nil {
		t.Fatalf("first subscribe: %v", err)
	}
	if _, err := m.subscribe(CryptoPrices([]string{"btcusdt"})); err != nil {
		t.Fatalf("second subscribe: %v", err)
	}

	if frames := conn.framesSent(); len(frames) != 1 {
		t.Fatalf("frames sent = %d, want 1 (second subscribe multiplexes)", len(frames))
	}

	topic := []TopicType{{Topic: TopicCryptoPrices, Type: TypeUpdate}}
	if err := m.unsubscribe(topic); err != nil {
		t.Fatalf("first unsubscribe: %v", err)
	}
	if frames := conn.framesSent(); len(frames) != 1 {
		t.Fatalf("frames sent = %d after refcount 2->1, want still 1", len(frames))
	}

	if err := m.unsubscribe(topic); err != nil {
		t.Fatalf("second unsubscribe: %v", err)
	}
	frames := conn.framesSent()
	if len(frames) != 2 {
		t.Fatalf("frames sent = %d after refcount 1->0, want 2", len(frames))
	}
	if frames[1].Action != "unsubscribe" || frames[1].Subscriptions[0].Topic != TopicCryptoPrices {
		t.Errorf("final frame = %+v, want unsubscribe for crypto_prices", frames[1])
	}
}

func TestUnsubscribeRequiresTopics(t *testing.T) {
	conn := newFakeConn(16)
	m := newSubscriptionManager(conn)
	defer m.close()

	if err := m.unsubscribe(nil); err == nil {
		t.Fatal("expected an error for an empty topic list")
	}
}

// TestResubscribeOnReconnect: after a Connected -> Reconnecting ->
// Connected cycle, the manager replays every live subscription in one
// frame, reapplying the stored credentials where the original carried any.
func TestResubscribeOnReconnect(t *testing.T) {
	conn := newFakeConn(16)
	m := newSubscriptionManager(conn)
	defer m.close()

	creds := signer.Credentials{Key: "k1", Secret: "s1", Passphrase: "p1"}
	if _, err := m.subscribe(CryptoPrices(nil)); err != nil {
		t.Fatalf("subscribe prices: %v", err)
	}
	if _, err := m.subscribe(Comments("").WithAuth(creds)); err != nil {
		t.Fatalf("subscribe comments: %v", err)
	}

	conn.state.Set(wsconn.State{Phase: wsconn.Reconnecting, Attempt: 1})
	conn.state.Set(wsconn.State{Phase: wsconn.Connected})

	deadline := time.Now().Add(2 * time.Second)
	var frames []SubscriptionRequest
	for {
		frames = conn.framesSent()
		if len(frames) >= 3 || time.Now().After(deadline) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if len(frames) != 3 {
		t.Fatalf("frames sent = %d, want 3 (two subscribes + one resubscribe)", len(frames))
	}

	resub := frames[2]
	if resub.Action != "subscribe" || len(resub.Subscriptions) != 2 {
		t.Fatalf("resubscribe frame = %+v, want both topics in one subscribe", resub)
	}
	var sawAuth bool
	for _, s := range resub.Subscriptions {
		if s.Topic == TopicComments {
			if s.ClobAuth == nil || s.ClobAuth.Key != "k1" {
				t.Errorf("comments resubscribe lost its credentials: %+v", s)
			}
			sawAuth = true
		}
		if s.Topic == TopicCryptoPrices && s.ClobAuth != nil {
			t.Errorf("price resubscribe gained credentials it never had: %+v", s)
		}
	}
	if !sawAuth {
		t.Error("resubscribe frame is missing the comments topic")
	}
}

func TestSubscriptionRequestWireShape(t *testing.T) {
	creds := signer.Credentials{Key: "key", Secret: "sec", Passphrase: "pp"}
	req := buildRequest("subscribe", []Subscription{
		CryptoPrices([]string{"btcusdt", "ethusdt"}),
		Comments(CommentCreated).WithAuth(creds),
	})

	raw, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	var decoded struct {
		Action        string `json:"action"`
		Subscriptions []struct {
			Topic    string `json:"topic"`
			Type     string `json:"type"`
			Filters  string `json:"filters"`
			ClobAuth *struct {
				Key        string `json:"key"`
				Secret     string `json:"secret"`
				Passphrase string `json:"passphrase"`
			} `json:"clob_auth"`
		} `json:"subscriptions"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal request: %v", err)
	}

	if decoded.Action != "subscribe" {
		t.Errorf("action = %q, want subscribe", decoded.Action)
	}
	prices := decoded.Subscriptions[0]
	if prices.Topic != "crypto_prices" || prices.Type != "update" {
		t.Errorf("prices subscription = %+v", prices)
	}
	// Filters travel as a JSON array rendered into a string.
	if prices.Filters != `["btcusdt","ethusdt"]` {
		t.Errorf("filters = %q, want [\"btcusdt\",\"ethusdt\"]", prices.Filters)
	}
	comments := decoded.Subscriptions[1]
	if comments.Type != "comment_created" {
		t.Errorf("comments type = %q, want comment_created", comments.Type)
	}
	if comments.ClobAuth == nil || comments.ClobAuth.Secret != "sec" {
		t.Errorf("comments auth = %+v, want full credential triple", comments.ClobAuth)
	}
}

// TestStreamFiltersByTopicAndType: a stream yields only its own topic, with
// the wildcard type matching every event on that topic.
func TestStreamFiltersByTopicAndType(t *testing.T) {
	conn := newFakeConn(16)
	m := newSubscriptionManager(conn)
	defer m.close()

	stream, err := m.subscribe(Comments(CommentCreated))
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	conn.hub.Send(Message{Topic: TopicCryptoPrices, Type: TypeUpdate})
	conn.hub.Send(Message{Topic: TopicComments, Type: "reaction_created"})
	conn.hub.Send(Message{Topic: TopicComments, Type: "comment_created", Payload: json.RawMessage(`{"id":"c1"}`)})

	msg, err := stream.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if msg.Type != "comment_created" {
		t.Errorf("message type = %q, want comment_created (others filtered)", msg.Type)
	}
	comment, ok := msg.AsComment()
	if !ok || comment.ID != "c1" {
		t.Errorf("AsComment() = %+v, %v", comment, ok)
	}
}
