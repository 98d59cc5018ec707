package rtds

import (
	"log/slog"
	"sync/atomic"

	"github.com/cloblabs/clob-go/internal/errs"
	"github.com/cloblabs/clob-go/internal/signer"
	"github.com/cloblabs/clob-go/internal/wsconn"
)

// inner is the state every handle co-owns: the managed connection and the
// refcounted subscription registry, plus the credentials an authenticated
// handle attaches to comment subscriptions.
type inner struct {
	refcount int64 // atomic; 1 for the handle that created it

	conn *wsconn.Conn[Message]
	subs *subscriptionManager

	address     string
	credentials *signer.Credentials
}

func (in *inner) clone() *inner {
	atomic.AddInt64(&in.refcount, 1)
	return in
}

func (in *inner) release() {
	atomic.AddInt64(&in.refcount, -1)
}

func (in *inner) requireExclusive() error {
	if atomic.LoadInt64(&in.refcount) != 1 {
		return &errs.SynchronisationError{}
	}
	return nil
}

// Client streams crypto prices and public comment events. Authenticate
// promotes it to an AuthenticatedClient whose comment subscriptions carry
// CLOB credentials.
type Client struct {
	inner *inner
}

// DefaultEndpoint is the production data socket.
const DefaultEndpoint = "wss://ws-live-data.polymarket.com"

// NewDefault dials the production data socket with default connection
// policy.
func NewDefault(logger *slog.Logger) *Client {
	return New(wsconn.DefaultConfig(DefaultEndpoint), logger)
}

// New dials the data socket named by cfg.URL and starts its connection
// loop. logger may be nil to take the default.
func New(cfg wsconn.Config, logger *slog.Logger) *Client {
	conn := wsconn.New[Message](cfg, parser{}, logger)
	return &Client{inner: &inner{
		refcount: 1,
		conn:     conn,
		subs:     newSubscriptionManager(WrapConn(conn)),
	}}
}

// Clone returns a peer handle co-owning the same underlying state, blocking
// the other handle's state transitions until every clone is released.
func (c *Client) Clone() *Client {
	return &Client{inner: c.inner.clone()}
}

// Close releases this handle's ownership share. The last handle to close
// stops the subscription watcher and the socket.
func (c *Client) Close() {
	c.inner.release()
	if atomic.LoadInt64(&c.inner.refcount) == 0 {
		c.inner.subs.close()
		c.inner.conn.Stop()
	}
}

// Authenticate attaches CLOB credentials for comment subscriptions and
// returns an AuthenticatedClient sharing this handle's state. Requires
// exclusive ownership.
func (c *Client) Authenticate(address string, creds signer.Credentials) (*AuthenticatedClient, error) {
	if err := c.inner.requireExclusive(); err != nil {
		return nil, err
	}
	c.inner.address = address
	c.inner.credentials = &creds
	return &AuthenticatedClient{Client{c.inner}}, nil
}

// SubscribeCryptoPrices streams Binance price updates, optionally narrowed
// to a symbol list.
func (c *Client) SubscribeCryptoPrices(symbols []string) (*Stream, error) {
	return c.inner.subs.subscribe(CryptoPrices(symbols))
}

// UnsubscribeCryptoPrices releases one reference to the Binance price
// topic; the server-side unsubscribe goes out only when no stream is left.
func (c *Client) UnsubscribeCryptoPrices() error {
	return c.inner.subs.unsubscribe([]TopicType{{Topic: TopicCryptoPrices, Type: TypeUpdate}})
}

// SubscribeChainlinkPrices streams Chainlink oracle updates, optionally
// narrowed to one symbol.
func (c *Client) SubscribeChainlinkPrices(symbol string) (*Stream, error) {
	return c.inner.subs.subscribe(ChainlinkPrices(symbol))
}

// UnsubscribeChainlinkPrices releases one reference to the Chainlink
// topic.
func (c *Client) UnsubscribeChainlinkPrices() error {
	return c.inner.subs.unsubscribe([]TopicType{{Topic: TopicChainlinkPrices, Type: TypeWildcard}})
}

// SubscribeComments streams public comment events, optionally narrowed to
// one event type.
func (c *Client) SubscribeComments(commentType CommentType) (*Stream, error) {
	return c.inner.subs.subscribe(Comments(commentType))
}

// UnsubscribeComments releases one reference to the comments topic for the
// given event type (empty for the wildcard).
func (c *Client) UnsubscribeComments(commentType CommentType) error {
	t := TypeWildcard
	if commentType != "" {
		t = string(commentType)
	}
	return c.inner.subs.unsubscribe([]TopicType{{Topic: TopicComments, Type: t}})
}

// SubscribeRaw streams messages for a caller-assembled subscription.
func (c *Client) SubscribeRaw(sub Subscription) (*Stream, error) {
	return c.inner.subs.subscribe(sub)
}

// Unsubscribe releases one reference per topic.
func (c *Client) Unsubscribe(topics []TopicType) error {
	return c.inner.subs.unsubscribe(topics)
}

// ConnectionState reports the socket's current phase.
func (c *Client) ConnectionState() wsconn.State {
	return c.inner.conn.State()
}

// SubscriptionCount reports how many (topic, type) subscriptions are live.
func (c *Client) SubscriptionCount() int {
	return c.inner.subs.subscriptionCount()
}

// AuthenticatedClient additionally signs comment subscriptions with the
// stored CLOB credentials.
type AuthenticatedClient struct {
	Client
}

// Clone returns a peer handle co-owning the same underlying state.
func (c *AuthenticatedClient) Clone() *AuthenticatedClient {
	return &AuthenticatedClient{Client{c.inner.clone()}}
}

// SubscribeComments streams comment events with the stored credentials
// attached to the subscribe frame.
func (c *AuthenticatedClient) SubscribeComments(commentType CommentType) (*Stream, error) {
	return c.inner.subs.subscribe(Comments(commentType).WithAuth(*c.inner.credentials))
}

// Deauthenticate discards the stored credentials and returns the handle to
// its unauthenticated state. Requires exclusive ownership.
func (c *AuthenticatedClient) Deauthenticate() (*Client, error) {
	if err := c.inner.requireExclusive(); err != nil {
		return nil, err
	}
	c.inner.address = ""
	c.inner.credentials = nil
	return &Client{c.inner}, nil
}
