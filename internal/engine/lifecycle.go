package engine

// Backgrounded implements §4.I: suspend the reconnect scheduler, tear down
// heartbeat and pending-action timers, close the transport, and force state
// to DISCONNECTED. The target URL is retained so Foregrounded can resume.
func (e *Engine) Backgrounded() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.suspended = true
	e.cancelReconnectLocked()
	e.cancelHeartbeatLocked()
	e.clearPendingLocked()
	e.adapter.Disconnect(1000, "backgrounded")
	e.transitionLocked(Disconnected)
}

// Foregrounded implements §4.I: if a target URL is remembered, clear the
// suspended flag, reset the attempt counter, and open a fresh CONNECTING
// transport. Otherwise it is a no-op.
func (e *Engine) Foregrounded() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.targetURL == "" {
		return
	}
	e.suspended = false
	e.reconnectAttempt = 0
	e.transitionLocked(Connecting)
	e.adapter.Connect(e.targetURL)
}
