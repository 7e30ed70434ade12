package engine

import (
	"math"
	"time"
)

// handleTransportOpen implements the §4.J "on transport-opened" contract.
func (e *Engine) handleTransportOpen() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.reconnectAttempt = 0
	switch e.sm.get() {
	case Connecting, Reconnecting:
		e.transitionLocked(Connected)
	default:
		// A stray open after the engine moved elsewhere (e.g. Disconnect raced
		// with an in-flight dial) is not a protocol violation; ignore it.
		return
	}
	e.observer.connected()
	e.armHeartbeatLocked()

	if e.haveAuth {
		e.sendAuthLocked()
	}
}

// handleTransportClosed implements the §4.J "on transport-closed" contract.
func (e *Engine) handleTransportClosed(code int, reason string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cancelHeartbeatLocked()
	e.observer.disconnected()

	if e.suspended {
		e.transitionLocked(Disconnected)
		return
	}
	e.scheduleReconnectLocked()
}

// handleTransportError implements the §4.J "on transport-errored" contract.
func (e *Engine) handleTransportError() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.emitErrorLocked(socketError("WebSocket connection error."))
	e.transitionLocked(Error)
}

// scheduleReconnectLocked implements the §4.F Reconnect Scheduler. Must be
// called with e.mu held.
func (e *Engine) scheduleReconnectLocked() {
	if e.targetURL == "" {
		e.transitionLocked(Disconnected)
		return
	}
	if e.reconnectAttempt >= e.cfg.MaxReconnectAttempts {
		e.emitErrorLocked(clientError("Reconnect failed after 10 attempts."))
		e.transitionLocked(Error)
		return
	}

	e.reconnectAttempt++
	delay := e.backoffDelay(e.reconnectAttempt)
	e.transitionLocked(Reconnecting)

	e.cancelReconnectLocked()
	e.reconnectTimer = e.timers.schedule(delay, func() {
		e.mu.Lock()
		url := e.targetURL
		suspended := e.suspended
		e.mu.Unlock()
		if suspended || url == "" {
			return
		}
		e.adapter.Connect(url)
	})
}

// backoffDelay computes min(base * 2^(attempt-1), cap).
func (e *Engine) backoffDelay(attempt int) time.Duration {
	shift := attempt - 1
	multiplier := math.Pow(2, float64(shift))
	d := time.Duration(float64(e.cfg.ReconnectBaseDelay) * multiplier)
	if d > e.cfg.ReconnectCapDelay {
		d = e.cfg.ReconnectCapDelay
	}
	return d
}

// cancelReconnectLocked cancels any armed reconnect timer. Must be called
// with e.mu held.
func (e *Engine) cancelReconnectLocked() {
	if e.reconnectTimer != nil {
		e.timers.cancel(e.reconnectTimer)
		e.reconnectTimer = nil
	}
}
