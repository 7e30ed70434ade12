package transport

import "sync"

// FakeAdapter is a deterministic Adapter double for engine tests. Tests drive
// it by calling the Emit* methods instead of a real socket.
type FakeAdapter struct {
	listeners *listenerRegistry

	mu        sync.Mutex
	open      bool
	lastURL   string
	SentFrames []string
	ConnectCalls int
}

// NewFakeAdapter returns a FakeAdapter with no live connection.
func NewFakeAdapter() *FakeAdapter {
	return &FakeAdapter{listeners: newListenerRegistry()}
}

func (f *FakeAdapter) On(event EventType, handler Listener) { f.listeners.On(event, handler) }

// Connect records the call; it does not open automatically. Tests call
// EmitOpen to simulate a successful handshake.
func (f *FakeAdapter) Connect(url string) {
	f.Disconnect(1000, "")
	f.mu.Lock()
	f.lastURL = url
	f.ConnectCalls++
	f.mu.Unlock()
}

// Disconnect is the caller-initiated close path: like the production
// adapter, it does not itself emit EventClose (handlers are considered
// detached before close). Use EmitClose to simulate a server-initiated or
// network-induced close that the engine's transport-closed handler reacts to.
func (f *FakeAdapter) Disconnect(code int, reason string) {
	f.mu.Lock()
	f.open = false
	f.mu.Unlock()
}

func (f *FakeAdapter) Send(text string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.open {
		return false
	}
	f.SentFrames = append(f.SentFrames, text)
	return true
}

func (f *FakeAdapter) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

// EmitOpen simulates a successful handshake.
func (f *FakeAdapter) EmitOpen() {
	f.mu.Lock()
	f.open = true
	f.mu.Unlock()
	f.listeners.emit(EventOpen, &OpenEvent{})
}

// EmitMessage simulates an inbound text frame.
func (f *FakeAdapter) EmitMessage(text string) {
	f.listeners.emit(EventMessage, &MessageEvent{Text: text})
}

// EmitClose simulates a server-initiated or network-induced close.
func (f *FakeAdapter) EmitClose(code int, reason string) {
	f.mu.Lock()
	f.open = false
	f.mu.Unlock()
	f.listeners.emit(EventClose, &CloseEvent{Code: code, Reason: reason})
}

// EmitError simulates a transport-level error.
func (f *FakeAdapter) EmitError(err error) {
	f.listeners.emit(EventError, &ErrorEvent{Err: err})
}

// LastURL returns the most recent url passed to Connect.
func (f *FakeAdapter) LastURL() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastURL
}
