// Package config implements the SDK's YAML configuration ladder: a
// Load/LoadWithDefaults/LoadAndValidate sequence over gopkg.in/yaml.v3 with
// ${VAR} environment
// expansion, applyDefaults()/Validate() methods, and Default*Config()
// constructors.
package config

import "time"

// ClientConfig is the root configuration for a Client (clob package):
// which chain to sign for, which hosts to talk to, and the HTTP/WebSocket
// policy knobs.
type ClientConfig struct {
	Chain     ChainConfig     `yaml:"chain"`
	Hosts     HostsConfig     `yaml:"hosts"`
	HTTP      HTTPConfig      `yaml:"http"`
	WebSocket WebSocketConfig `yaml:"websocket"`
}

// ChainConfig selects which of the two supported chains the client signs orders and L1 envelopes for.
type ChainConfig struct {
	ID int64 `yaml:"id"`
}

// HostsConfig names the REST and WebSocket endpoints for the four surfaces
// (CLOB, Bridge, Data, Gamma) plus the two realtime
// channels.
type HostsConfig struct {
	CLOBRestURL   string `yaml:"clob_rest_url"`
	BridgeRestURL string `yaml:"bridge_rest_url"`
	DataRestURL   string `yaml:"data_rest_url"`
	GammaRestURL  string `yaml:"gamma_rest_url"`
	MarketWSURL   string `yaml:"market_ws_url"`
	UserWSURL     string `yaml:"user_ws_url"`
	RTDSWSURL     string `yaml:"rtds_ws_url"`
}

// HTTPConfig holds REST request policy.
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	MaxRetries    int           `yaml:"max_retries"`
	UseServerTime bool          `yaml:"use_server_time"` // query server clock per request instead of local time
}

// WebSocketConfig holds the duplex connection's heartbeat and reconnect
// policy, passed straight through to wsconn.Config.
type WebSocketConfig struct {
	HandshakeTimeout   time.Duration `yaml:"handshake_timeout"`
	HeartbeatInterval  time.Duration `yaml:"heartbeat_interval"`
	HeartbeatTimeout   time.Duration `yaml:"heartbeat_timeout"`
	WriteTimeout       time.Duration `yaml:"write_timeout"`
	ReconnectBaseDelay time.Duration `yaml:"reconnect_base_delay"`
	ReconnectMaxDelay  time.Duration `yaml:"reconnect_max_delay"`
	MaxAttempts        uint32        `yaml:"max_attempts"` // 0 = unbounded
}

// SnapshotCacheConfig holds the optional local orderbook-snapshot store a
// lagged consumer reconciles against.
type SnapshotCacheConfig struct {
	Enabled bool     `yaml:"enabled"`
	DB      DBConfig `yaml:"db"`
}

// DBConfig holds the connection settings for the optional snapshot store.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}
