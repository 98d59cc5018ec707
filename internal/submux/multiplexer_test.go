package submux

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cloblabs/clob-go/internal/interest"
	"github.com/cloblabs/clob-go/internal/model"
	"github.com/cloblabs/clob-go/internal/signer"
	"github.com/cloblabs/clob-go/internal/wsconn"
)

type fakeConn struct {
	mu    sync.Mutex
	sent  []SubscribeFrame
	hub   *wsconn.Hub[model.Message]
	state *wsconn.Watcher
}

func newFakeConn(capacity int) *fakeConn {
	return &fakeConn{
		hub:   wsconn.NewHub[model.Message](capacity),
		state: wsconn.NewWatcher(wsconn.State{Phase: wsconn.Connected}),
	}
}

func (f *fakeConn) Send(request any) error {
	frame, ok := request.(SubscribeFrame)
	if !ok {
		return fmt.Errorf("unexpected frame type %T", request)
	}
	f.mu.Lock()
	f.sent = append(f.sent, frame)
	f.mu.Unlock()
	return nil
}

func (f *fakeConn) SubscribeMessages() Receiver   { return f.hub.Subscribe() }
func (f *fakeConn) State() wsconn.State           { return wsconn.GetState(f.state) }
func (f *fakeConn) StateChanges() *wsconn.Watcher { return f.state }

func (f *fakeConn) framesSent() []SubscribeFrame {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]SubscribeFrame, len(f.sent))
	copy(out, f.sent)
	return out
}

// TestRefcountMultiplexing: two overlapping subscribes send exactly one subscribe frame per first
// reference, and unsubscribes only send a frame for keys reaching zero.
func TestRefcountMultiplexing(t *testing.T) {
	conn := newFakeConn(16)
	var iset interest.AtomicSet
	m := New(MarketChannel, conn, &iset)
	defer m.Close()

	if _, err := m.Subscribe(SubscribeRequest{Keys: []string{"A", "B"}, Want: interest.Trade}); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if _, err := m.Subscribe(SubscribeRequest{Keys: []string{"B", "C"}, Want: interest.Trade}); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	sentKeys := map[string]int{}
	for _, f := range conn.framesSent() {
		if f.Operation != "subscribe" {
			continue
		}
		for _, k := range f.AssetsIDs {
			sentKeys[k]++
		}
	}
	want := map[string]int{"A": 1, "B": 1, "C": 1}
	for k, c := range want {
		if sentKeys[k] != c {
			t.Fatalf("key %q sent %d times, want %d (%v)", k, sentKeys[k], c, sentKeys)
		}
	}

	// Unsubscribe B alone: refcount 2 -> 1, no frame.
	framesBefore := len(conn.framesSent())
	if err := m.Unsubscribe([]string{"B"}); err != nil {
		t.Fatalf("Unsubscribe: %v", err)
	}
	if got := len(conn.framesSent()); got != framesBefore {
		t.Fatalf("unsubscribe of a still-referenced key sent a frame: before=%d after=%d", framesBefore, got)
	}

	// Unsubscribe A and B: both reach zero, one frame naming both.
	if err := m.Unsubscribe([]string{"A", "B"}); err != nil {
		t.Fatalf("Unsubscribe: %v", err)
	}
	last := conn.framesSent()[len(conn.framesSent())-1]
	if last.Operation != "unsubscribe" {
		t.Fatalf("expected an unsubscribe frame, got operation %q", last.Operation)
	}
	gotUnsub := map[string]bool{}
	for _, k := range last.AssetsIDs {
		gotUnsub[k] = true
	}
	if !gotUnsub["A"] || !gotUnsub["B"] {
		t.Fatalf("unsubscribe frame missing keys, got %v", last.AssetsIDs)
	}
}

func TestSubscribeRequiresKeys(t *testing.T) {
	conn := newFakeConn(16)
	var iset interest.AtomicSet
	m := New(MarketChannel, conn, &iset)
	defer m.Close()

	if _, err := m.Subscribe(SubscribeRequest{Want: interest.Trade}); err == nil {
		t.Fatal("expected validation error for empty key list")
	}
}

func TestUserChannelRequiresCredentials(t *testing.T) {
	conn := newFakeConn(16)
	var iset interest.AtomicSet
	m := New(UserChannel, conn, &iset)
	defer m.Close()

	if _, err := m.Subscribe(SubscribeRequest{Keys: []string{"0xabc"}, Want: interest.Trade}); err == nil {
		t.Fatal("expected validation error for missing credentials")
	}
}

func TestUserChannelSubscribeCarriesAuth(t *testing.T) {
	conn := newFakeConn(16)
	var iset interest.AtomicSet
	m := New(UserChannel, conn, &iset)
	defer m.Close()

	creds := &signer.Credentials{Key: "key1", Secret: "secret1", Passphrase: "pass1"}
	if _, err := m.Subscribe(SubscribeRequest{Keys: []string{"0xabc"}, Want: interest.Trade, Credentials: creds}); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	frames := conn.framesSent()
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(frames))
	}
	auth := frames[0].Auth
	if auth == nil || auth.APIKey != "key1" || auth.Secret != "secret1" || auth.Passphrase != "pass1" {
		t.Fatalf("auth payload = %+v, want matching creds", auth)
	}
}

// TestResubscribeOnReconnect: after a
// Connected -> Reconnecting -> Connected cycle, the multiplexer re-emits a
// subscribe frame naming the full current key set.
func TestResubscribeOnReconnect(t *testing.T) {
	conn := newFakeConn(16)
	var iset interest.AtomicSet
	m := New(MarketChannel, conn, &iset)
	defer m.Close()

	if _, err := m.Subscribe(SubscribeRequest{Keys: []string{"A", "B"}, Want: interest.Trade}); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	conn.state.Set(wsconn.State{Phase: wsconn.Reconnecting, Attempt: 1})
	conn.state.Set(wsconn.State{Phase: wsconn.Connected, Since: time.Now()})

	deadline := time.After(time.Second)
	for {
		frames := conn.framesSent()
		if len(frames) >= 2 {
			last := frames[len(frames)-1]
			if last.Operation != "subscribe" {
				t.Fatalf("resubscribe frame had operation %q", last.Operation)
			}
			got := map[string]bool{}
			for _, k := range last.AssetsIDs {
				got[k] = true
			}
			if !got["A"] || !got["B"] {
				t.Fatalf("resubscribe frame missing keys: %v", last.AssetsIDs)
			}
			return
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for resubscribe frame")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestStreamFiltersByKindAndKey(t *testing.T) {
	conn := newFakeConn(16)
	var iset interest.AtomicSet
	m := New(MarketChannel, conn, &iset)
	defer m.Close()

	stream, err := m.Subscribe(SubscribeRequest{Keys: []string{"A"}, Want: interest.Trade})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	// Uninteresting kind for asset A: filtered out.
	conn.hub.Send(model.BestBidAskEvent{AssetID: "A", Market: "mA"})
	// Interesting kind, wrong key: filtered out.
	conn.hub.Send(model.TradeEvent{Market: "B"})
	// Interesting kind, matching key: delivered.
	conn.hub.Send(model.TradeEvent{Market: "A", OrderID: "o1"})

	msg, err := stream.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	trade, ok := msg.(model.TradeEvent)
	if !ok || trade.OrderID != "o1" {
		t.Fatalf("Next() = %+v, want trade o1", msg)
	}
}

func TestStreamSurfacesLag(t *testing.T) {
	conn := newFakeConn(2)
	var iset interest.AtomicSet
	m := New(MarketChannel, conn, &iset)
	defer m.Close()

	stream, err := m.Subscribe(SubscribeRequest{Keys: []string{"A"}, Want: interest.Trade})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	for i := 0; i < 5; i++ {
		conn.hub.Send(model.TradeEvent{Market: "A", OrderID: fmt.Sprintf("o%d", i)})
	}

	_, err = stream.Next()
	if err == nil {
		t.Fatal("expected a LaggedError")
	}
	if _, ok := err.(*LaggedError); !ok {
		t.Fatalf("err = %v (%T), want *LaggedError", err, err)
	}
}
