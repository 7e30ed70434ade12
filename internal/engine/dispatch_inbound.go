package engine

import (
	"time"

	"github.com/tapvolt/connect-engine/internal/protocol"
	"github.com/tapvolt/connect-engine/pkg/logging"
)

// handleInboundMessage implements the Message Codec + dispatcher wiring of
// §4.B: parse the frame, then route by server message type.
func (e *Engine) handleInboundMessage(frame string) {
	msg, err := protocol.Decode(frame)
	if err != nil {
		logging.Debug().Str("frame", frame).Msg("engine: invalid server message")
		e.mu.Lock()
		e.emitErrorLocked(invalidServerMessageError("Received an unrecognized or malformed message from the desktop host."))
		e.mu.Unlock()
		return
	}

	switch msg.Type {
	case protocol.ServerPing:
		e.handlePing()
	case protocol.ServerAuthSuccess:
		e.mu.Lock()
		e.observer.authSuccess()
		e.mu.Unlock()
	case protocol.ServerAuthFailure:
		e.mu.Lock()
		e.observer.authFailure()
		e.mu.Unlock()
	case protocol.ServerError:
		e.mu.Lock()
		if msg.AuthFailure {
			e.observer.authFailure()
		} else {
			e.emitErrorLocked(*msg.Error)
		}
		e.mu.Unlock()
	case protocol.ServerActionResult:
		e.mu.Lock()
		e.handleActionResult(*msg.ActionResult)
		e.mu.Unlock()
	}
}

// handlePing implements the liveness-and-PONG half of §4.G: every PING
// resets liveness and is answered with a PONG carrying the current time.
func (e *Engine) handlePing() {
	e.mu.Lock()
	e.markLivenessLocked()
	e.mu.Unlock()

	frame, err := protocol.EncodePong(time.Now().UnixMilli())
	if err != nil {
		return
	}
	e.adapter.Send(frame)
}
