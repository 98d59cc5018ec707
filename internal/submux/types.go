package submux

import (
	"github.com/cloblabs/clob-go/internal/interest"
	"github.com/cloblabs/clob-go/internal/model"
	"github.com/cloblabs/clob-go/internal/signer"
	"github.com/cloblabs/clob-go/internal/wsconn"
)

// ChannelKind distinguishes the two subscription topics: the public
// market-data channel (keyed by asset id) and the authenticated user channel
// (keyed by market/condition id, carrying credentials).
type ChannelKind int

const (
	MarketChannel ChannelKind = iota
	UserChannel
)

func (k ChannelKind) wireType() string {
	if k == UserChannel {
		return "user"
	}
	return "market"
}

// AuthPayload is the side field carrying credentials on a user-channel
// subscribe frame.
// These must only traverse secured transport.
type AuthPayload struct {
	APIKey     string `json:"apiKey"`
	Secret     string `json:"secret"`
	Passphrase string `json:"passphrase"`
}

// SubscribeFrame is the outbound wire frame for both channels.
// Market and Assets fields are always present as arrays (never null) to
// match the server's documented shape even when one side is empty.
type SubscribeFrame struct {
	Type                 string       `json:"type"`
	Operation            string       `json:"operation"`
	Markets              []string     `json:"markets"`
	AssetsIDs            []string     `json:"assets_ids"`
	InitialDump          *bool        `json:"initial_dump,omitempty"`
	CustomFeatureEnabled *bool        `json:"custom_feature_enabled,omitempty"`
	Auth                 *AuthPayload `json:"auth,omitempty"`
}

// Conn is the subset of *wsconn.Conn[model.Message] the multiplexer needs.
// Expressed as an interface so tests can substitute a fake connection
// without standing up a real socket.
type Conn interface {
	Send(request any) error
	SubscribeMessages() Receiver
	State() wsconn.State
	StateChanges() *wsconn.Watcher
}

// Receiver is the subset of *wsconn.Subscriber[model.Message] a Stream reads
// from.
type Receiver interface {
	Recv() (msg model.Message, lagged uint64, closed bool)
}

// wsconnAdapter adapts a *wsconn.Conn[model.Message] to the Conn interface:
// the connection's own methods return the concrete *wsconn.Subscriber, not
// the Receiver interface, so a thin wrapper is needed at the boundary.
type wsconnAdapter struct {
	c *wsconn.Conn[model.Message]
}

// WrapConn adapts a realtime wsconn.Conn for use as a Multiplexer's Conn.
func WrapConn(c *wsconn.Conn[model.Message]) Conn { return wsconnAdapter{c} }

func (a wsconnAdapter) Send(request any) error         { return a.c.Send(request) }
func (a wsconnAdapter) SubscribeMessages() Receiver    { return a.c.SubscribeMessages() }
func (a wsconnAdapter) State() wsconn.State            { return a.c.State() }
func (a wsconnAdapter) StateChanges() *wsconn.Watcher  { return a.c.StateChanges() }

// SubscribeRequest is one consumer's demand for a set of keys.
type SubscribeRequest struct {
	// Keys is the asset-id list (market channel) or market-id list (user
	// channel) this consumer wants. Must be non-empty.
	Keys []string
	// Want is the set of message kinds this consumer's stream should yield;
	// OR'd into the shared interest.Set the connection's parser reads.
	Want interest.Set
	// InitialDump requests the server replay a snapshot immediately after
	// subscribing. Market channel only.
	InitialDump bool
	// CustomFeatureEnabled is an optional server-side feature toggle carried
	// verbatim on market-channel subscribe frames.
	CustomFeatureEnabled *bool
	// Credentials is required for UserChannel subscribes; ignored otherwise.
	Credentials *signer.Credentials
}
