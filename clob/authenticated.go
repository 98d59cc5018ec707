package clob

import (
	"context"
	"math/big"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cloblabs/clob-go/internal/errs"
	"github.com/cloblabs/clob-go/internal/orderutils"
	"github.com/cloblabs/clob-go/internal/signer"
	"github.com/cloblabs/clob-go/internal/submux"
)

// authBase is embedded by every typestate handle that holds API credentials:
// AuthenticatedClient and BuilderClient (which inherits the full
// authenticated operation set).
type authBase struct {
	base
}

// SubscribeUser subscribes req on the user channel, dialing it on first use
// and filling in this handle's credentials when req.Credentials is nil.
func (a authBase) SubscribeUser(req submux.SubscribeRequest) (*submux.Stream, error) {
	a.inner.ensureUser()
	if req.Credentials == nil {
		req.Credentials = a.inner.storedCredentials()
	}
	return a.inner.userMux.Subscribe(req)
}

// UnsubscribeUser releases req's keys on the user channel.
func (a authBase) UnsubscribeUser(keys []string) error {
	a.inner.ensureUser()
	return a.inner.userMux.Unsubscribe(keys)
}

// StartHeartbeat (re)starts the background heartbeat task.
func (a authBase) StartHeartbeat(interval time.Duration, fn func(ctx context.Context) error) {
	a.inner.StartHeartbeat(interval, fn)
}

// StopHeartbeat cancels and awaits the background heartbeat task.
func (a authBase) StopHeartbeat() { a.inner.StopHeartbeat() }

// AuthenticatedClient holds API-key credentials: it can sign and build
// orders, subscribe to the user channel, and transition to a BuilderClient
// or back to an UnauthenticatedClient.
type AuthenticatedClient struct {
	authBase
}

// Clone returns a peer handle co-owning the same underlying state.
func (c *AuthenticatedClient) Clone() *AuthenticatedClient {
	return &AuthenticatedClient{authBase{base{c.inner.clone()}}}
}

// Close releases this handle's ownership share.
func (c *AuthenticatedClient) Close() { c.inner.release() }

// Deauthenticate discards API credentials, tears down the user channel
// entirely, and returns an UnauthenticatedClient sharing this handle's
// Inner. Requires exclusive ownership.
func (c *AuthenticatedClient) Deauthenticate() (*UnauthenticatedClient, error) {
	if err := c.inner.requireExclusive(); err != nil {
		return nil, err
	}
	c.inner.stopHeartbeatTask()

	c.inner.stateMu.Lock()
	c.inner.credentials = nil
	c.inner.builderCredentials = nil
	c.inner.remoteBuilderSigner = nil
	c.inner.stateMu.Unlock()

	c.inner.teardownUser()
	c.inner.restartHeartbeatIfConfigured()

	return &UnauthenticatedClient{base{c.inner}}, nil
}

// PromoteToBuilderParams selects exactly one of a local builder credential
// set or a remote signing delegate.
type PromoteToBuilderParams struct {
	Credentials  *signer.Credentials
	RemoteSigner RemoteBuilderSigner
}

// PromoteToBuilder adds builder-extension signing capability and returns a
// BuilderClient sharing this handle's Inner. Requires exclusive ownership.
func (c *AuthenticatedClient) PromoteToBuilder(p PromoteToBuilderParams) (*BuilderClient, error) {
	if err := c.inner.requireExclusive(); err != nil {
		return nil, err
	}
	if (p.Credentials == nil) == (p.RemoteSigner == nil) {
		return nil, errs.Validation("promote to builder requires exactly one of local credentials or a remote signer")
	}
	c.inner.stopHeartbeatTask()

	c.inner.stateMu.Lock()
	if p.Credentials != nil {
		c.inner.builderCredentials = p.Credentials
		c.inner.remoteBuilderSigner = LocalBuilderSigner{Credentials: *p.Credentials}
	} else {
		c.inner.remoteBuilderSigner = p.RemoteSigner
	}
	c.inner.stateMu.Unlock()

	c.inner.restartHeartbeatIfConfigured()
	return &BuilderClient{authBase{base{c.inner}}}, nil
}

// NewLimitOrder starts building a limit order against this handle's stored
// funder/signature-type.
func (a authBase) NewLimitOrder(tokenID *big.Int, side orderutils.Side, price, size decimal.Decimal) *LimitOrderBuilder {
	funder, sigType := a.inner.authSnapshot()
	return &LimitOrderBuilder{
		inner:   a.inner,
		tokenID: tokenID,
		side:    side,
		price:   price,
		size:    size,
		funder:  funder,
		sigType: sigType,
	}
}

// NewMarketOrder starts building a market order against this handle's
// stored funder/signature-type.
func (a authBase) NewMarketOrder(tokenID *big.Int, side orderutils.Side, amount orderutils.Amount) *MarketOrderBuilder {
	funder, sigType := a.inner.authSnapshot()
	return &MarketOrderBuilder{
		inner:     a.inner,
		tokenID:   tokenID,
		side:      side,
		amount:    amount,
		orderType: orderutils.OrderFAK,
		funder:    funder,
		sigType:   sigType,
	}
}
