package config

import (
	"fmt"

	"github.com/cloblabs/clob-go/internal/chainconfig"
)

// Validate checks that a ClientConfig is usable: the chain id is one of the
// two this SDK supports, and every
// timing/retry knob is in a sane range.
func (c *ClientConfig) Validate() error {
	if !chainconfig.Supported(chainconfig.ChainID(c.Chain.ID)) {
		return fmt.Errorf("chain.id %d is not supported", c.Chain.ID)
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be positive")
	}
	if c.HTTP.MaxRetries < 0 {
		return fmt.Errorf("http.max_retries must be >= 0")
	}
	if c.WebSocket.HeartbeatInterval <= 0 {
		return fmt.Errorf("websocket.heartbeat_interval must be positive")
	}
	if c.WebSocket.HeartbeatTimeout <= 0 {
		return fmt.Errorf("websocket.heartbeat_timeout must be positive")
	}
	if c.WebSocket.ReconnectBaseDelay <= 0 {
		return fmt.Errorf("websocket.reconnect_base_delay must be positive")
	}
	if c.WebSocket.ReconnectMaxDelay < c.WebSocket.ReconnectBaseDelay {
		return fmt.Errorf("websocket.reconnect_max_delay must be >= reconnect_base_delay")
	}
	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}

// Validate checks a SnapshotCacheConfig when enabled.
func (c *SnapshotCacheConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	return c.DB.validate("snapshot_cache.db")
}
