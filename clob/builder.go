package clob

import "context"

// BuilderClient holds both API-key credentials and a builder signing
// delegate, inheriting every AuthenticatedClient operation plus the ability
// to sign builder-extension requests.
type BuilderClient struct {
	authBase
}

// Clone returns a peer handle co-owning the same underlying state.
func (c *BuilderClient) Clone() *BuilderClient {
	return &BuilderClient{authBase{base{c.inner.clone()}}}
}

// Close releases this handle's ownership share.
func (c *BuilderClient) Close() { c.inner.release() }

// SignBuilderRequest signs a builder-extension request via whichever
// RemoteBuilderSigner was installed at PromoteToBuilder time (local HMAC or
// a delegated HTTP call).
func (c *BuilderClient) SignBuilderRequest(ctx context.Context, method, path, body string, timestamp int64) (BuilderHeaders, error) {
	c.inner.stateMu.RLock()
	s := c.inner.remoteBuilderSigner
	c.inner.stateMu.RUnlock()
	return s.SignBuilderRequest(ctx, method, path, body, timestamp)
}

// DemoteFromBuilder discards the builder signing delegate and returns an
// AuthenticatedClient sharing this handle's Inner. Requires exclusive
// ownership.
func (c *BuilderClient) DemoteFromBuilder() (*AuthenticatedClient, error) {
	if err := c.inner.requireExclusive(); err != nil {
		return nil, err
	}
	c.inner.stopHeartbeatTask()

	c.inner.stateMu.Lock()
	c.inner.builderCredentials = nil
	c.inner.remoteBuilderSigner = nil
	c.inner.stateMu.Unlock()

	c.inner.restartHeartbeatIfConfigured()
	return &AuthenticatedClient{authBase{base{c.inner}}}, nil
}
