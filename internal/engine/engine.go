package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tapvolt/connect-engine/internal/protocol"
	"github.com/tapvolt/connect-engine/internal/transport"
)

// Engine is the single public surface (§4.J Engine Façade). It owns the
// transport adapter, the state machine, the reconnect scheduler, the
// heartbeat monitor, and the action dispatcher, and serializes every
// mutation of its own state behind one mutex so callbacks arriving from
// timers and the transport's goroutines never overlap — the single logical
// thread of control the rest of the package assumes.
type Engine struct {
	cfg      Config
	adapter  transport.Adapter
	identity IdentityProvider
	timers   *timerService

	mu sync.Mutex

	sm               *stateMachine
	reconnectAttempt int
	targetURL        string
	suspended        bool

	reconnectTimer  *timerHandle
	heartbeatTimer  *timerHandle
	lastHeartbeatMs int64

	pending   map[string]*timerHandle
	completed *completedWindow
	nonce     int64

	clientName string
	deviceID   string
	haveAuth   bool

	warning string

	observer *Observer
}

// New constructs an Engine. adapter and identity are required collaborators;
// cfg.withDefaults fills in any zero-valued field with the spec's defaults.
func New(adapter transport.Adapter, identity IdentityProvider, cfg Config) *Engine {
	e := &Engine{
		cfg:       cfg.withDefaults(),
		adapter:   adapter,
		identity:  identity,
		timers:    newTimerService(),
		sm:        newStateMachine(),
		pending:   make(map[string]*timerHandle),
		completed: newCompletedWindow(cfg.withDefaults().CompletedWindowSize),
	}
	adapter.On(transport.EventOpen, func(payload interface{}) { e.handleTransportOpen() })
	adapter.On(transport.EventClose, func(payload interface{}) {
		evt, _ := payload.(*transport.CloseEvent)
		if evt == nil {
			evt = &transport.CloseEvent{}
		}
		e.handleTransportClosed(evt.Code, evt.Reason)
	})
	adapter.On(transport.EventError, func(payload interface{}) { e.handleTransportError() })
	adapter.On(transport.EventMessage, func(payload interface{}) {
		evt, _ := payload.(*transport.MessageEvent)
		if evt == nil {
			return
		}
		e.handleInboundMessage(evt.Text)
	})
	return e
}

// SetObservers performs the one-time wiring of the observer record.
func (e *Engine) SetObservers(o Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observer = &o
}

// GetState returns the current connection state.
func (e *Engine) GetState() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sm.get()
}

// GetReconnectAttempt returns the current reconnect attempt ordinal.
func (e *Engine) GetReconnectAttempt() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reconnectAttempt
}

// GetLastHeartbeat returns the epoch-millisecond timestamp of the most
// recent liveness mark, or 0 if none has occurred yet.
func (e *Engine) GetLastHeartbeat() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastHeartbeatMs
}

// normalizeURL prefixes ws:// onto any input lacking a ws:// or wss:// scheme.
func normalizeURL(raw string) string {
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "ws://") || strings.HasPrefix(lower, "wss://") {
		return raw
	}
	return "ws://" + raw
}

// Connect implements §4.J connect(rawAddress).
func (e *Engine) Connect(rawAddress string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	trimmed := strings.TrimSpace(rawAddress)
	if trimmed == "" {
		e.emitErrorLocked(clientError("IP address is required."))
		e.transitionLocked(Error)
		return
	}

	e.targetURL = normalizeURL(trimmed)
	e.reconnectAttempt = 0
	e.suspended = false
	e.cancelReconnectLocked()
	e.clearPendingLocked()

	e.transitionLocked(Connecting)
	e.adapter.Connect(e.targetURL)
}

// Disconnect implements §4.J disconnect().
func (e *Engine) Disconnect() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.suspended = true
	e.cancelReconnectLocked()
	e.cancelHeartbeatLocked()
	e.clearPendingLocked()
	e.targetURL = ""
	e.adapter.Disconnect(1000, "client disconnect")
	e.transitionLocked(Disconnected)
}

// Authenticate implements §4.J authenticate(clientName). Identity resolution
// is the engine's one documented suspension point: engine state may have
// changed by the time it resumes, so the resumed path re-checks state.
func (e *Engine) Authenticate(ctx context.Context, clientName string) bool {
	trimmed := strings.TrimSpace(clientName)

	e.mu.Lock()
	if trimmed == "" {
		e.emitErrorLocked(clientError("Client ID is required."))
		e.mu.Unlock()
		return false
	}
	if e.sm.get() != Connected {
		e.emitErrorLocked(clientError("WebSocket is not connected."))
		e.mu.Unlock()
		return false
	}
	e.mu.Unlock()

	deviceID, err := e.identity.ResolveOrCreateDeviceID(ctx)
	if err != nil {
		e.mu.Lock()
		e.emitErrorLocked(clientError("Failed to load device identity."))
		e.mu.Unlock()
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sm.get() != Connected {
		e.emitErrorLocked(clientError("WebSocket is not connected."))
		return false
	}
	e.clientName = trimmed
	e.deviceID = deviceID
	e.haveAuth = true
	return e.sendAuthLocked()
}

func (e *Engine) sendAuthLocked() bool {
	frame, err := protocol.EncodeAuth(e.clientName, e.deviceID)
	if err != nil {
		e.emitErrorLocked(clientError("Failed to encode AUTH message."))
		return false
	}
	return e.adapter.Send(frame)
}

// nextActionID mints <epochMillis>-<monotonic-nonce>, unique for this
// engine instance's lifetime.
func (e *Engine) nextActionID() string {
	n := atomic.AddInt64(&e.nonce, 1)
	return fmt.Sprintf("%d-%d", time.Now().UnixMilli(), n)
}

// transitionLocked attempts the transition and, on success, notifies the
// observer; on failure it emits CLIENT_ERROR and leaves state untouched.
// Must be called with e.mu held.
func (e *Engine) transitionLocked(to State) {
	newState, err := e.sm.transition(to)
	if err != nil {
		e.emitErrorLocked(clientError(err.Error()))
		return
	}
	e.observer.stateChange(newState, e.reconnectAttempt)
}

func (e *Engine) emitErrorLocked(payload protocol.ErrorPayload) {
	e.observer.errorEvent(payload)
}

func (e *Engine) emitWarningLocked(message string) {
	if e.warning == message {
		return
	}
	e.warning = message
	e.observer.warning(message)
}

