package engine

import "time"

// Config is the engine's fixed construction-time configuration. Every field
// has the value the engine uses when the caller leaves it at its zero value,
// via DefaultConfig.
type Config struct {
	MaxReconnectAttempts int
	ReconnectBaseDelay   time.Duration
	ReconnectCapDelay    time.Duration
	HeartbeatStaleness   time.Duration
	HeartbeatCheckPeriod time.Duration
	ActionTimeout        time.Duration
	CompletedWindowSize  int
	ProtocolVersion      string
	HeartbeatCloseCode   int
	HeartbeatCloseReason string
}

// DefaultConfig returns the engine configuration enumerated by the
// specification: 10 reconnect attempts, 1s/10s backoff bounds, a 15s
// heartbeat staleness threshold checked every second, an 8s per-action
// timeout, and a 500-entry duplicate-suppression window.
func DefaultConfig() Config {
	return Config{
		MaxReconnectAttempts: 10,
		ReconnectBaseDelay:   time.Second,
		ReconnectCapDelay:    10 * time.Second,
		HeartbeatStaleness:   15 * time.Second,
		HeartbeatCheckPeriod: time.Second,
		ActionTimeout:        8 * time.Second,
		CompletedWindowSize:  500,
		ProtocolVersion:      "1.0",
		HeartbeatCloseCode:   4000,
		HeartbeatCloseReason: "Heartbeat timeout",
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxReconnectAttempts <= 0 {
		c.MaxReconnectAttempts = d.MaxReconnectAttempts
	}
	if c.ReconnectBaseDelay <= 0 {
		c.ReconnectBaseDelay = d.ReconnectBaseDelay
	}
	if c.ReconnectCapDelay <= 0 {
		c.ReconnectCapDelay = d.ReconnectCapDelay
	}
	if c.HeartbeatStaleness <= 0 {
		c.HeartbeatStaleness = d.HeartbeatStaleness
	}
	if c.HeartbeatCheckPeriod <= 0 {
		c.HeartbeatCheckPeriod = d.HeartbeatCheckPeriod
	}
	if c.ActionTimeout <= 0 {
		c.ActionTimeout = d.ActionTimeout
	}
	if c.CompletedWindowSize <= 0 {
		c.CompletedWindowSize = d.CompletedWindowSize
	}
	if c.ProtocolVersion == "" {
		c.ProtocolVersion = d.ProtocolVersion
	}
	if c.HeartbeatCloseCode == 0 {
		c.HeartbeatCloseCode = d.HeartbeatCloseCode
	}
	if c.HeartbeatCloseReason == "" {
		c.HeartbeatCloseReason = d.HeartbeatCloseReason
	}
	return c
}
