package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultCLOBRestURL   = "https://clob.polymarket.com"
	DefaultBridgeRestURL = "https://bridge.polymarket.com"
	DefaultDataRestURL   = "https://data-api.polymarket.com"
	DefaultGammaRestURL  = "https://gamma-api.polymarket.com"
	DefaultMarketWSURL   = "wss://ws-subscriptions-clob.polymarket.com/ws/market"
	DefaultUserWSURL     = "wss://ws-subscriptions-clob.polymarket.com/ws/user"
	DefaultRTDSWSURL     = "wss://ws-live-data.polymarket.com"

	DefaultHTTPTimeout = 30 * time.Second
	DefaultMaxRetries  = 3

	DefaultHandshakeTimeout   = 10 * time.Second
	DefaultHeartbeatInterval  = 30 * time.Second
	DefaultHeartbeatTimeout   = 10 * time.Second
	DefaultWriteTimeout       = 5 * time.Second
	DefaultReconnectBaseDelay = 1 * time.Second
	DefaultReconnectMaxDelay  = 60 * time.Second

	DefaultDBPort    = 5432
	DefaultDBSSLMode = "prefer"
	DefaultMaxConns  = 10
	DefaultMinConns  = 2
)

// DefaultClientConfig returns a ClientConfig with every optional field
// populated, for chainID (which must be one of chainconfig's two supported
// chains; Validate catches the rest).
func DefaultClientConfig(chainID int64) ClientConfig {
	return ClientConfig{
		Chain: ChainConfig{ID: chainID},
		Hosts: HostsConfig{
			CLOBRestURL:   DefaultCLOBRestURL,
			BridgeRestURL: DefaultBridgeRestURL,
			DataRestURL:   DefaultDataRestURL,
			GammaRestURL:  DefaultGammaRestURL,
			MarketWSURL:   DefaultMarketWSURL,
			UserWSURL:     DefaultUserWSURL,
			RTDSWSURL:     DefaultRTDSWSURL,
		},
		HTTP: HTTPConfig{
			Timeout:    DefaultHTTPTimeout,
			MaxRetries: DefaultMaxRetries,
		},
		WebSocket: WebSocketConfig{
			HandshakeTimeout:   DefaultHandshakeTimeout,
			HeartbeatInterval:  DefaultHeartbeatInterval,
			HeartbeatTimeout:   DefaultHeartbeatTimeout,
			WriteTimeout:       DefaultWriteTimeout,
			ReconnectBaseDelay: DefaultReconnectBaseDelay,
			ReconnectMaxDelay:  DefaultReconnectMaxDelay,
		},
	}
}

func (c *ClientConfig) applyDefaults() {
	d := DefaultClientConfig(c.Chain.ID)

	if c.Hosts.CLOBRestURL == "" {
		c.Hosts.CLOBRestURL = d.Hosts.CLOBRestURL
	}
	if c.Hosts.BridgeRestURL == "" {
		c.Hosts.BridgeRestURL = d.Hosts.BridgeRestURL
	}
	if c.Hosts.DataRestURL == "" {
		c.Hosts.DataRestURL = d.Hosts.DataRestURL
	}
	if c.Hosts.GammaRestURL == "" {
		c.Hosts.GammaRestURL = d.Hosts.GammaRestURL
	}
	if c.Hosts.MarketWSURL == "" {
		c.Hosts.MarketWSURL = d.Hosts.MarketWSURL
	}
	if c.Hosts.UserWSURL == "" {
		c.Hosts.UserWSURL = d.Hosts.UserWSURL
	}
	if c.Hosts.RTDSWSURL == "" {
		c.Hosts.RTDSWSURL = d.Hosts.RTDSWSURL
	}

	if c.HTTP.Timeout == 0 {
		c.HTTP.Timeout = d.HTTP.Timeout
	}
	if c.HTTP.MaxRetries == 0 {
		c.HTTP.MaxRetries = d.HTTP.MaxRetries
	}

	if c.WebSocket.HandshakeTimeout == 0 {
		c.WebSocket.HandshakeTimeout = d.WebSocket.HandshakeTimeout
	}
	if c.WebSocket.HeartbeatInterval == 0 {
		c.WebSocket.HeartbeatInterval = d.WebSocket.HeartbeatInterval
	}
	if c.WebSocket.HeartbeatTimeout == 0 {
		c.WebSocket.HeartbeatTimeout = d.WebSocket.HeartbeatTimeout
	}
	if c.WebSocket.WriteTimeout == 0 {
		c.WebSocket.WriteTimeout = d.WebSocket.WriteTimeout
	}
	if c.WebSocket.ReconnectBaseDelay == 0 {
		c.WebSocket.ReconnectBaseDelay = d.WebSocket.ReconnectBaseDelay
	}
	if c.WebSocket.ReconnectMaxDelay == 0 {
		c.WebSocket.ReconnectMaxDelay = d.WebSocket.ReconnectMaxDelay
	}
}

func (db *DBConfig) applyDefaults() {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
