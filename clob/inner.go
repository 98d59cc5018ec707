package clob

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cloblabs/clob-go/internal/chainconfig"
	"github.com/cloblabs/clob-go/internal/config"
	"github.com/cloblabs/clob-go/internal/errs"
	"github.com/cloblabs/clob-go/internal/interest"
	"github.com/cloblabs/clob-go/internal/model"
	"github.com/cloblabs/clob-go/internal/orderutils"
	"github.com/cloblabs/clob-go/internal/signer"
	"github.com/cloblabs/clob-go/internal/submux"
	"github.com/cloblabs/clob-go/internal/wsconn"
)

// Inner is the state every typestate handle co-owns. Handles are peer co-owners via clone/release;
// state-transition operations require the refcount to be exactly 1.
type Inner struct {
	refcount int64 // atomic; 1 for the handle that created Inner

	cfg        config.ClientConfig
	chain      chainconfig.Chain
	signer     signer.Signer
	logger     *slog.Logger
	httpClient *http.Client
	timeSource TimeSource

	stateMu             sync.RWMutex
	credentials         *signer.Credentials
	builderCredentials  *signer.Credentials
	remoteBuilderSigner RemoteBuilderSigner
	funder              string
	sigType             signer.SignatureType

	tickSizes sync.Map // token id -> orderutils.TickSize
	negRisks  sync.Map // token id -> bool
	feeRates  sync.Map // token id -> orderutils.FeeRate

	marketMu       sync.Mutex
	marketConn     *wsconn.Conn[model.Message]
	marketInterest *interest.AtomicSet
	marketMux      *submux.Multiplexer

	userMu       sync.Mutex
	userConn     *wsconn.Conn[model.Message]
	userInterest *interest.AtomicSet
	userMux      *submux.Multiplexer

	heartbeatMu       sync.Mutex
	heartbeat         *heartbeatTask
	heartbeatInterval time.Duration
	heartbeatFn       func(ctx context.Context) error
}

// clone increments the co-owner count and returns the same Inner.
func (in *Inner) clone() *Inner {
	atomic.AddInt64(&in.refcount, 1)
	return in
}

// release decrements the co-owner count. Handles never free the underlying
// sockets on release alone — only an explicit Deauthenticate/Stop tears
// those down, matching "the connection remains alive as long as the client
// does".
func (in *Inner) release() {
	atomic.AddInt64(&in.refcount, -1)
}

// requireExclusive enforces the transition precondition that no other
// handles to this Inner are outstanding.
func (in *Inner) requireExclusive() error {
	if atomic.LoadInt64(&in.refcount) != 1 {
		return &errs.SynchronisationError{}
	}
	return nil
}

func (in *Inner) wsConfig(url string) wsconn.Config {
	ws := in.cfg.WebSocket
	return wsconn.Config{
		URL:                url,
		HandshakeTimeout:   ws.HandshakeTimeout,
		HeartbeatInterval:  ws.HeartbeatInterval,
		HeartbeatTimeout:   ws.HeartbeatTimeout,
		WriteTimeout:       ws.WriteTimeout,
		ReconnectBaseDelay: ws.ReconnectBaseDelay,
		ReconnectMaxDelay:  ws.ReconnectMaxDelay,
		MaxAttempts:        ws.MaxAttempts,
	}
}

// ensureMarket lazily dials the market channel the first time any handle
// subscribes to it. The market channel is public, so it is
// available regardless of authentication state.
func (in *Inner) ensureMarket() {
	in.marketMu.Lock()
	defer in.marketMu.Unlock()
	if in.marketConn != nil {
		return
	}
	in.marketInterest = &interest.AtomicSet{}
	parser := interest.NewParser(in.marketInterest)
	in.marketConn = wsconn.New[model.Message](in.wsConfig(in.cfg.Hosts.MarketWSURL), parser, in.logger)
	in.marketMux = submux.New(submux.MarketChannel, submux.WrapConn(in.marketConn), in.marketInterest)
}

// ensureUser lazily dials the user channel. Unlike the market channel this
// is torn down on Deauthenticate (teardownUser) since the channel requires
// credentials to mean anything.
func (in *Inner) ensureUser() {
	in.userMu.Lock()
	defer in.userMu.Unlock()
	if in.userConn != nil {
		return
	}
	in.userInterest = &interest.AtomicSet{}
	parser := interest.NewParser(in.userInterest)
	in.userConn = wsconn.New[model.Message](in.wsConfig(in.cfg.Hosts.UserWSURL), parser, in.logger)
	in.userMux = submux.New(submux.UserChannel, submux.WrapConn(in.userConn), in.userInterest)
}

// teardownUser stops the user channel's socket and multiplexer entirely.
func (in *Inner) teardownUser() {
	in.userMu.Lock()
	defer in.userMu.Unlock()
	if in.userMux != nil {
		in.userMux.Close()
	}
	if in.userConn != nil {
		in.userConn.Stop()
	}
	in.userConn = nil
	in.userMux = nil
	in.userInterest = nil
}

func (in *Inner) storedCredentials() *signer.Credentials {
	in.stateMu.RLock()
	defer in.stateMu.RUnlock()
	return in.credentials
}

func (in *Inner) authSnapshot() (funder string, sigType signer.SignatureType) {
	in.stateMu.RLock()
	defer in.stateMu.RUnlock()
	return in.funder, in.sigType
}

// base is embedded by every typestate handle. It carries the operations
// visible in every state: per-token cache access and public market-channel
// subscription.
type base struct {
	inner *Inner
}

// Address is the signer's EVM address this client authenticates and signs
// orders as.
func (b base) Address() string { return b.inner.signer.Address }

// SetTickSize pre-populates the tick-size cache for tokenID.
func (b base) SetTickSize(tokenID string, ts orderutils.TickSize) {
	b.inner.tickSizes.Store(tokenID, ts)
}

// TickSize returns the cached tick size for tokenID, if any.
func (b base) TickSize(tokenID string) (orderutils.TickSize, bool) {
	v, ok := b.inner.tickSizes.Load(tokenID)
	if !ok {
		return 0, false
	}
	return v.(orderutils.TickSize), true
}

// InvalidateTickSize drops the cached tick size for tokenID.
func (b base) InvalidateTickSize(tokenID string) { b.inner.tickSizes.Delete(tokenID) }

// SetNegRisk pre-populates the neg-risk cache for tokenID.
func (b base) SetNegRisk(tokenID string, negRisk bool) { b.inner.negRisks.Store(tokenID, negRisk) }

// NegRisk returns the cached neg-risk flag for tokenID, if any.
func (b base) NegRisk(tokenID string) (bool, bool) {
	v, ok := b.inner.negRisks.Load(tokenID)
	if !ok {
		return false, false
	}
	return v.(bool), true
}

// InvalidateNegRisk drops the cached neg-risk flag for tokenID.
func (b base) InvalidateNegRisk(tokenID string) { b.inner.negRisks.Delete(tokenID) }

// SetFeeRate pre-populates the fee-rate cache for tokenID.
func (b base) SetFeeRate(tokenID string, rate orderutils.FeeRate) {
	b.inner.feeRates.Store(tokenID, rate)
}

// FeeRate returns the cached fee rate for tokenID, if any.
func (b base) FeeRate(tokenID string) (orderutils.FeeRate, bool) {
	v, ok := b.inner.feeRates.Load(tokenID)
	if !ok {
		return orderutils.FeeRate{}, false
	}
	return v.(orderutils.FeeRate), true
}

// InvalidateFeeRate drops the cached fee rate for tokenID.
func (b base) InvalidateFeeRate(tokenID string) { b.inner.feeRates.Delete(tokenID) }

// InvalidateAllCaches drops every cached tick size, neg-risk flag, and fee
// rate.
func (b base) InvalidateAllCaches() {
	clearSyncMap(&b.inner.tickSizes)
	clearSyncMap(&b.inner.negRisks)
	clearSyncMap(&b.inner.feeRates)
}

func clearSyncMap(m *sync.Map) {
	m.Range(func(k, _ any) bool {
		m.Delete(k)
		return true
	})
}

// SubscribeMarket subscribes req on the public market-data channel, dialing
// it on first use.
func (b base) SubscribeMarket(req submux.SubscribeRequest) (*submux.Stream, error) {
	b.inner.ensureMarket()
	return b.inner.marketMux.Subscribe(req)
}

// UnsubscribeMarket releases req's keys on the market channel.
func (b base) UnsubscribeMarket(keys []string) error {
	b.inner.ensureMarket()
	return b.inner.marketMux.Unsubscribe(keys)
}

// MarketConnectionState reports the market channel socket's current phase.
func (b base) MarketConnectionState() wsconn.State {
	b.inner.ensureMarket()
	return b.inner.marketConn.State()
}
