package transport

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tapvolt/connect-engine/pkg/logging"
)

// Adapter is the interface the engine façade drives; WebSocketAdapter is the
// production implementation and FakeAdapter is the deterministic test double.
type Adapter interface {
	// Connect is idempotent: it disconnects any live instance first.
	Connect(url string)
	Disconnect(code int, reason string)
	// Send returns false without raising if the channel is not open.
	Send(text string) bool
	IsOpen() bool
	On(event EventType, handler Listener)
}

// dialTimeout bounds how long the initial handshake may take.
const dialTimeout = 10 * time.Second

// WebSocketAdapter implements Adapter over gorilla/websocket.
type WebSocketAdapter struct {
	dialer    *websocket.Dialer
	listeners *listenerRegistry

	mu     sync.Mutex
	conn   *websocket.Conn
	cancel context.CancelFunc
	open   bool
}

// NewWebSocketAdapter constructs a production adapter.
func NewWebSocketAdapter() *WebSocketAdapter {
	return &WebSocketAdapter{
		dialer:    websocket.DefaultDialer,
		listeners: newListenerRegistry(),
	}
}

func (a *WebSocketAdapter) On(event EventType, handler Listener) {
	a.listeners.On(event, handler)
}

// Connect performs disconnect-before-connect, dials in a background
// goroutine, and runs the read loop until the connection closes or errors.
func (a *WebSocketAdapter) Connect(url string) {
	a.Disconnect(websocket.CloseNormalClosure, "")

	ctx, cancel := context.WithCancel(context.Background())
	a.mu.Lock()
	a.cancel = cancel
	a.mu.Unlock()

	go a.dial(ctx, url)
}

func (a *WebSocketAdapter) dial(ctx context.Context, url string) {
	dialCtx, dialCancel := context.WithTimeout(ctx, dialTimeout)
	defer dialCancel()

	conn, _, err := a.dialer.DialContext(dialCtx, url, nil)
	if err != nil {
		a.listeners.emit(EventError, &ErrorEvent{Err: err})
		a.listeners.emit(EventClose, &CloseEvent{Code: websocket.CloseAbnormalClosure, Reason: err.Error()})
		return
	}

	a.mu.Lock()
	a.conn = conn
	a.open = true
	a.mu.Unlock()

	a.listeners.emit(EventOpen, &OpenEvent{})
	a.readLoop(ctx, conn)
}

func (a *WebSocketAdapter) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		msgType, data, err := conn.ReadMessage()
		if err != nil {
			a.mu.Lock()
			wasOpen := a.open
			a.open = false
			a.mu.Unlock()
			if !wasOpen {
				return
			}
			code, reason := closeCodeFromError(err)
			a.listeners.emit(EventClose, &CloseEvent{Code: code, Reason: reason})
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		a.listeners.emit(EventMessage, &MessageEvent{Text: string(data)})
	}
}

func closeCodeFromError(err error) (int, string) {
	if ce, ok := err.(*websocket.CloseError); ok {
		return ce.Code, ce.Text
	}
	return websocket.CloseAbnormalClosure, err.Error()
}

// Disconnect detaches handlers before closing so no event can fire from the
// prior instance once this call returns.
func (a *WebSocketAdapter) Disconnect(code int, reason string) {
	a.mu.Lock()
	conn := a.conn
	cancel := a.cancel
	wasOpen := a.open
	a.conn = nil
	a.cancel = nil
	a.open = false
	a.mu.Unlock()

	if !wasOpen && conn == nil {
		return
	}
	if cancel != nil {
		cancel()
	}
	if conn != nil {
		deadline := time.Now().Add(writeWait)
		msg := websocket.FormatCloseMessage(code, reason)
		_ = conn.WriteControl(websocket.CloseMessage, msg, deadline)
		if err := conn.Close(); err != nil {
			logging.Debug().Err(err).Msg("transport: error closing connection")
		}
	}
}

const writeWait = 2 * time.Second

// Send writes a text frame; it never raises, returning false if the channel
// is not currently open.
func (a *WebSocketAdapter) Send(text string) bool {
	a.mu.Lock()
	conn := a.conn
	open := a.open
	a.mu.Unlock()

	if !open || conn == nil {
		return false
	}
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return false
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
		return false
	}
	return true
}

// IsOpen reports whether the channel currently has a live connection.
func (a *WebSocketAdapter) IsOpen() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.open
}
