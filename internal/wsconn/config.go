package wsconn

import "time"

// PongToken is the sentinel text frame the server sends in reply to a ping.
// It is a plain text frame equal to this token, not a protocol-level
// WebSocket pong control frame.
const PongToken = "PONG"

// PingToken is the outbound text frame the heartbeat timer enqueues.
const PingToken = "PING"

// BroadcastCapacity bounds the incoming-message fan-out ring.
const BroadcastCapacity = 1024

// Config configures a Conn's dial, heartbeat, and reconnect behavior.
type Config struct {
	URL               string        // WebSocket endpoint, e.g. wss://ws-subscriptions-clob.example.com/ws/
	HandshakeTimeout  time.Duration // Dial handshake deadline
	HeartbeatInterval time.Duration // How often to ping
	HeartbeatTimeout  time.Duration // Max time to wait for a pong before the connection is stale
	WriteTimeout      time.Duration // Write deadline for outbound frames

	ReconnectBaseDelay time.Duration // First backoff wait
	ReconnectMaxDelay  time.Duration // Backoff ceiling
	MaxAttempts        uint32        // 0 = unbounded reconnection attempts
}

// DefaultConfig returns sensible defaults for url.
func DefaultConfig(url string) Config {
	return Config{
		URL:               url,
		HandshakeTimeout:  10 * time.Second,
		HeartbeatInterval: 30 * time.Second,
		HeartbeatTimeout:  10 * time.Second,
		WriteTimeout:      5 * time.Second,

		ReconnectBaseDelay: 1 * time.Second,
		ReconnectMaxDelay:  60 * time.Second,
		MaxAttempts:        0,
	}
}

func (c *Config) applyDefaults() {
	d := DefaultConfig(c.URL)
	if c.HandshakeTimeout == 0 {
		c.HandshakeTimeout = d.HandshakeTimeout
	}
	if c.HeartbeatInterval == 0 {
		c.HeartbeatInterval = d.HeartbeatInterval
	}
	if c.HeartbeatTimeout == 0 {
		c.HeartbeatTimeout = d.HeartbeatTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.ReconnectBaseDelay == 0 {
		c.ReconnectBaseDelay = d.ReconnectBaseDelay
	}
	if c.ReconnectMaxDelay == 0 {
		c.ReconnectMaxDelay = d.ReconnectMaxDelay
	}
}
