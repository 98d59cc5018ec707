package wsconn

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/cloblabs/clob-go/internal/signer"
)

// Parser turns one inbound text frame into zero or more messages. A parser
// returning an empty, nil-error batch is valid — it means "this frame
// carried nothing of interest," not a failure.
type Parser[M any] interface {
	Parse(data []byte) ([]M, error)
}

// AuthenticatedRequest is a request that can render itself into a signed,
// L2-authenticated wire frame. Built by the clob package's typestate client;
// wsconn only needs to invoke it.
type AuthenticatedRequest interface {
	AsAuthenticated(creds signer.Credentials, address string) (string, error)
}

// Conn is a single managed WebSocket connection: automatic dial, heartbeat,
// reconnect with backoff, and a bounded broadcast of parsed messages. At most
// one socket is active at a time; consumers attach via SubscribeMessages and
// observe liveness via StateChanges.
type Conn[M any] struct {
	cfg    Config
	parser Parser[M]
	logger *slog.Logger

	out   *outboundQueue
	hub   *Hub[M]
	state *Watcher

	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
}

// New creates a Conn and starts its background connection loop immediately.
func New[M any](cfg Config, parser Parser[M], logger *slog.Logger) *Conn[M] {
	cfg.applyDefaults()
	if logger == nil {
		logger = slog.Default()
	}

	c := &Conn[M]{
		cfg:    cfg,
		parser: parser,
		logger: logger,
		out:    newOutboundQueue(),
		hub:    NewHub[M](BroadcastCapacity),
		state:  NewWatcher(State{Phase: Disconnected}),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}

	go c.connectionLoop()
	return c
}

// Send enqueues request as a JSON text frame. It never blocks.
func (c *Conn[M]) Send(request any) error {
	select {
	case <-c.stopCh:
		return ErrConnectionClosed
	default:
	}
	payload, err := json.Marshal(request)
	if err != nil {
		return err
	}
	c.out.push(string(payload))
	return nil
}

// SendAuthenticated signs request for the L2 channel before enqueueing it.
func (c *Conn[M]) SendAuthenticated(request AuthenticatedRequest, creds signer.Credentials, address string) error {
	select {
	case <-c.stopCh:
		return ErrConnectionClosed
	default:
	}
	payload, err := request.AsAuthenticated(creds, address)
	if err != nil {
		return err
	}
	c.out.push(payload)
	return nil
}

// State returns the current connection state.
func (c *Conn[M]) State() State { return GetState(c.state) }

// StateChanges returns the Watcher for observing reconnects.
func (c *Conn[M]) StateChanges() *Watcher { return c.state }

// SubscribeMessages returns a new independent message subscriber.
func (c *Conn[M]) SubscribeMessages() *Subscriber[M] { return c.hub.Subscribe() }

// Stop permanently halts reconnection and closes the broadcast hub.
func (c *Conn[M]) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
		c.out.close()
	})
	<-c.done
}

// connectionLoop is the top-level lifecycle: Connecting -> dial ->
// Connected -> duplex loop -> Reconnecting -> backoff -> retry, terminating
// at Disconnected once MaxAttempts is exhausted.
func (c *Conn[M]) connectionLoop() {
	defer close(c.done)
	defer c.hub.Close()

	var attempt uint32
	backoff := c.cfg.ReconnectBaseDelay

	for {
		select {
		case <-c.stopCh:
			c.state.Set(State{Phase: Disconnected})
			return
		default:
		}

		c.state.Set(State{Phase: Connecting})

		conn, _, err := websocket.DefaultDialer.Dial(c.cfg.URL, http.Header{})
		if err != nil {
			c.logger.Warn("wsconn: dial failed", "error", err, "attempt", attempt)
			attempt++
		} else {
			attempt = 0
			backoff = c.cfg.ReconnectBaseDelay
			c.state.Set(State{Phase: Connected, Since: time.Now()})

			if err := c.duplexLoop(conn); err != nil {
				c.logger.Debug("wsconn: duplex loop exited", "error", err)
			}
			_ = conn.Close()
		}

		if c.cfg.MaxAttempts > 0 && attempt >= c.cfg.MaxAttempts {
			c.state.Set(State{Phase: Disconnected})
			return
		}

		c.state.Set(State{Phase: Reconnecting, Attempt: attempt})

		select {
		case <-c.stopCh:
			c.state.Set(State{Phase: Disconnected})
			return
		case <-time.After(backoff):
		}
		backoff = nextBackoff(backoff, c.cfg.ReconnectMaxDelay)
	}
}

func nextBackoff(cur, max time.Duration) time.Duration {
	next := time.Duration(math.Min(float64(cur)*2, float64(max)))
	if next <= 0 {
		return max
	}
	return next
}

// duplexLoop runs the read, write, and heartbeat legs concurrently under one
// errgroup: whichever leg exits first cancels the other
// two via the group's derived context, so a stale connection or a write
// failure tears down the whole duplex session instead of leaking goroutines.
func (c *Conn[M]) duplexLoop(conn *websocket.Conn) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pong := NewWatch(time.Now())

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return c.readLoop(ctx, conn, pong) })
	g.Go(func() error { return c.writeLoop(ctx, conn) })
	g.Go(func() error { return c.heartbeatLoop(ctx, pong) })

	return g.Wait()
}

func (c *Conn[M]) readLoop(ctx context.Context, conn *websocket.Conn, pong *Watch[time.Time]) error {
	for {
		if err := ctx.Err(); err != nil {
			return errDuplexExit
		}

		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if msgType != websocket.TextMessage {
			continue
		}

		if string(data) == PongToken {
			pong.Set(time.Now())
			continue
		}

		messages, err := c.parser.Parse(data)
		if err != nil {
			c.logger.Warn("wsconn: failed to parse message", "error", err)
			continue
		}
		for _, m := range messages {
			c.hub.Send(m)
		}
	}
}

func (c *Conn[M]) writeLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		frame, ok := c.out.popCtx(ctx)
		if !ok {
			return errDuplexExit
		}

		_ = conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
			return err
		}
	}
}

// heartbeatLoop marks the pong watermark
// observed, send a ping, then wait up to HeartbeatTimeout for the watermark
// to advance past the instant the ping was sent. Staleness (no advance, or
// an advance to a timestamp older than the send) ends the duplex loop.
func (c *Conn[M]) heartbeatLoop(ctx context.Context, pong *Watch[time.Time]) error {
	ticker := time.NewTicker(c.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return errDuplexExit
		case <-ticker.C:
		}

		_, watermarkGen := pong.Get()
		pingSent := time.Now()
		c.out.push(PingToken)

		hbCtx, hbCancel := context.WithTimeout(ctx, c.cfg.HeartbeatTimeout)
		last, ok := pong.NextCtx(hbCtx, watermarkGen)
		hbCancel()
		if !ok {
			if ctx.Err() != nil {
				return errDuplexExit
			}
			return errStale // heartbeat timeout: no pong within HeartbeatTimeout
		}
		if last.Before(pingSent) {
			return errStale
		}
	}
}
