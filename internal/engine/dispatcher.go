package engine

import (
	"fmt"
	"time"

	"github.com/tapvolt/connect-engine/internal/protocol"
)

// SendAction implements §4.H sendAction(step) -> id | null.
func (e *Engine) SendAction(step protocol.Step) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextActionID()
	action := protocol.Action{ID: id, Steps: []protocol.Step{step}}

	if fail := protocol.Validate(action); fail != nil {
		e.emitErrorLocked(protocol.ErrorPayload{Code: fail.Code, Message: fail.Message})
		return "", false
	}

	if protocol.HasCommandStep(action) {
		e.emitWarningLocked("Command execution may be disabled on desktop.")
	} else {
		e.emitWarningLocked("")
	}

	frame, err := protocol.EncodeExecuteAction(action, time.Now().UnixMilli())
	if err != nil {
		e.emitErrorLocked(clientError("Failed to encode action."))
		return "", false
	}

	if !e.adapter.Send(frame) {
		e.emitErrorLocked(clientError("WebSocket is not connected."))
		return "", false
	}

	e.pending[id] = e.timers.schedule(e.cfg.ActionTimeout, func() { e.handleActionTimeout(id) })
	return id, true
}

func (e *Engine) handleActionTimeout(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, stillPending := e.pending[id]; !stillPending {
		return // already resolved by a result or cleared by disconnect/background
	}
	delete(e.pending, id)
	e.completed.insert(id)

	e.observer.actionTimeout(id)
	timeoutMs := float64(e.cfg.ActionTimeout / time.Millisecond)
	e.observer.actionResult(protocol.ExecutionResult{
		ID:            id,
		Status:        protocol.StatusError,
		ExecutionTime: timeoutMs,
		Error:         "Action timed out after 8 seconds.",
	})
	e.emitErrorLocked(clientError(fmt.Sprintf("Action %s timed out after 8 seconds.", id)))
}

// handleActionResult implements the §4.H inbound ACTION_RESULT contract.
func (e *Engine) handleActionResult(result protocol.ExecutionResult) {
	if e.completed.has(result.ID) {
		return // duplicate suppression
	}

	handle, ok := e.pending[result.ID]
	if !ok {
		e.emitErrorLocked(clientError(fmt.Sprintf("Unknown ACTION_RESULT id: %s", result.ID)))
		return
	}

	delete(e.pending, result.ID)
	e.completed.insert(result.ID)
	e.timers.cancel(handle)
	e.observer.actionResult(result)
}

// clearPendingLocked cancels every pending action timer and drops the
// pending map, used by disconnect() and by backgrounding. Must be called
// with e.mu held.
func (e *Engine) clearPendingLocked() {
	for _, handle := range e.pending {
		e.timers.cancel(handle)
	}
	e.pending = make(map[string]*timerHandle)
}
