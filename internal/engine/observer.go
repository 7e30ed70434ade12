package engine

import "github.com/tapvolt/connect-engine/internal/protocol"

// Observer is the single mutable subscriber record the façade notifies.
// There is no multi-subscriber requirement, so unlike the transport layer's
// listenerRegistry a single struct of optional callbacks is sufficient.
// Any nil field is simply not invoked.
type Observer struct {
	OnStateChange  func(state State, reconnectAttempt int)
	OnConnected    func()
	OnDisconnected func()
	OnAuthSuccess  func()
	OnAuthFailure  func()
	OnActionResult func(result protocol.ExecutionResult)
	OnActionTimeout func(id string)
	OnError        func(payload protocol.ErrorPayload)
	OnWarning      func(message string) // empty message clears a prior warning
	OnHeartbeat    func(timestampMs int64)
}

func (o *Observer) stateChange(state State, attempt int) {
	if o != nil && o.OnStateChange != nil {
		o.OnStateChange(state, attempt)
	}
}

func (o *Observer) connected() {
	if o != nil && o.OnConnected != nil {
		o.OnConnected()
	}
}

func (o *Observer) disconnected() {
	if o != nil && o.OnDisconnected != nil {
		o.OnDisconnected()
	}
}

func (o *Observer) authSuccess() {
	if o != nil && o.OnAuthSuccess != nil {
		o.OnAuthSuccess()
	}
}

func (o *Observer) authFailure() {
	if o != nil && o.OnAuthFailure != nil {
		o.OnAuthFailure()
	}
}

func (o *Observer) actionResult(result protocol.ExecutionResult) {
	if o != nil && o.OnActionResult != nil {
		o.OnActionResult(result)
	}
}

func (o *Observer) actionTimeout(id string) {
	if o != nil && o.OnActionTimeout != nil {
		o.OnActionTimeout(id)
	}
}

func (o *Observer) errorEvent(payload protocol.ErrorPayload) {
	if o != nil && o.OnError != nil {
		o.OnError(payload)
	}
}

func (o *Observer) warning(message string) {
	if o != nil && o.OnWarning != nil {
		o.OnWarning(message)
	}
}

func (o *Observer) heartbeat(ts int64) {
	if o != nil && o.OnHeartbeat != nil {
		o.OnHeartbeat(ts)
	}
}

func clientError(message string) protocol.ErrorPayload {
	return protocol.ErrorPayload{Code: "CLIENT_ERROR", Message: message}
}

func socketError(message string) protocol.ErrorPayload {
	return protocol.ErrorPayload{Code: "SOCKET_ERROR", Message: message}
}

func invalidServerMessageError(message string) protocol.ErrorPayload {
	return protocol.ErrorPayload{Code: "INVALID_SERVER_MESSAGE", Message: message}
}
