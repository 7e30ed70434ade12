package engine

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tapvolt/connect-engine/internal/protocol"
	"github.com/tapvolt/connect-engine/internal/transport"
)

// fakeIdentity returns a fixed device id without touching disk.
type fakeIdentity struct {
	id  string
	err error
}

func (f *fakeIdentity) ResolveOrCreateDeviceID(ctx context.Context) (string, error) {
	return f.id, f.err
}

// recorder captures every observer callback invocation for assertions.
type recorder struct {
	mu             sync.Mutex
	states         []State
	errors         []protocol.ErrorPayload
	warnings       []string
	results        []protocol.ExecutionResult
	timeouts       []string
	authSuccesses  int
	authFailures   int
	connectedCount int
}

func (r *recorder) observer() Observer {
	return Observer{
		OnStateChange: func(s State, attempt int) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.states = append(r.states, s)
		},
		OnConnected: func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.connectedCount++
		},
		OnAuthSuccess: func() { r.mu.Lock(); defer r.mu.Unlock(); r.authSuccesses++ },
		OnAuthFailure: func() { r.mu.Lock(); defer r.mu.Unlock(); r.authFailures++ },
		OnActionResult: func(res protocol.ExecutionResult) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.results = append(r.results, res)
		},
		OnActionTimeout: func(id string) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.timeouts = append(r.timeouts, id)
		},
		OnError: func(p protocol.ErrorPayload) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.errors = append(r.errors, p)
		},
		OnWarning: func(msg string) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.warnings = append(r.warnings, msg)
		},
	}
}

func newTestEngine(t *testing.T) (*Engine, *transport.FakeAdapter, *recorder) {
	t.Helper()
	return newTestEngineWithConfig(t, DefaultConfig())
}

func newTestEngineWithConfig(t *testing.T, cfg Config) (*Engine, *transport.FakeAdapter, *recorder) {
	t.Helper()
	adapter := transport.NewFakeAdapter()
	id := &fakeIdentity{id: "11111111-1111-1111-1111-111111111111"}
	eng := New(adapter, id, cfg)
	rec := &recorder{}
	eng.SetObservers(rec.observer())
	return eng, adapter, rec
}

// waitFor polls cond until it returns true or timeout elapses, failing the
// test otherwise. Used for the timer-driven behaviors (action timeout,
// heartbeat staleness) that resolve on a background goroutine.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	if !cond() {
		t.Fatal("condition not met before timeout")
	}
}

func TestUT_Engine_01_ConnectNormalizesURL(t *testing.T) {
	eng, adapter, _ := newTestEngine(t)
	eng.Connect("192.168.1.20:8080")
	assert.Equal(t, "ws://192.168.1.20:8080", adapter.LastURL())
	assert.Equal(t, Connecting, eng.GetState())
}

func TestUT_Engine_02_ConnectEmptyAddress_TransitionsToError(t *testing.T) {
	eng, _, rec := newTestEngine(t)
	eng.Connect("   ")
	assert.Equal(t, Error, eng.GetState())
	assert.Contains(t, rec.errors[0].Message, "IP address is required.")
}

func TestUT_Engine_03_HappyPath_ConnectAuthenticateAction(t *testing.T) {
	eng, adapter, rec := newTestEngine(t)
	eng.Connect("localhost:9000")
	adapter.EmitOpen()
	assert.Equal(t, Connected, eng.GetState())
	assert.Equal(t, 1, rec.connectedCount)

	ok := eng.Authenticate(context.Background(), "tapvolt-mobile")
	assert.True(t, ok)
	assert.Len(t, adapter.SentFrames, 1)
	assert.Contains(t, adapter.SentFrames[0], `"clientId":"tapvolt-mobile"`)
	assert.Contains(t, adapter.SentFrames[0], `"protocolVersion":"1.0"`)

	adapter.EmitMessage(`{"type":"AUTH_SUCCESS"}`)
	assert.Equal(t, 1, rec.authSuccesses)

	id, ok := eng.SendAction(protocol.Text("hi\n"))
	assert.True(t, ok)
	assert.NotEmpty(t, id)

	adapter.EmitMessage(fmt.Sprintf(`{"type":"ACTION_RESULT","payload":{"id":%q,"status":"success","executionTime":42}}`, id))
	assert.Len(t, rec.results, 1)
	assert.Equal(t, protocol.StatusSuccess, rec.results[0].Status)
	assert.Empty(t, rec.errors)
}

func TestUT_Engine_04_AuthenticateWhileNotConnected_Fails(t *testing.T) {
	eng, _, rec := newTestEngine(t)
	ok := eng.Authenticate(context.Background(), "tapvolt-mobile")
	assert.False(t, ok)
	assert.Contains(t, rec.errors[0].Message, "WebSocket is not connected.")
}

func TestUT_Engine_05_DuplicateActionResult_SilentlyDropped(t *testing.T) {
	eng, adapter, rec := newTestEngine(t)
	eng.Connect("localhost:9000")
	adapter.EmitOpen()

	id, _ := eng.SendAction(protocol.Key("a"))
	payload := fmt.Sprintf(`{"type":"ACTION_RESULT","payload":{"id":%q,"status":"success","executionTime":10}}`, id)
	adapter.EmitMessage(payload)
	adapter.EmitMessage(payload)

	assert.Len(t, rec.results, 1)
}

func TestUT_Engine_06_ServerErrorMapping_CommandExecutionDisabled(t *testing.T) {
	eng, adapter, rec := newTestEngine(t)
	eng.Connect("localhost:9000")
	adapter.EmitOpen()

	adapter.EmitMessage(`{"type":"ERROR","payload":{"code":"COMMAND_EXECUTION_DISABLED"}}`)
	assert.Len(t, rec.errors, 1)
	assert.Equal(t, "COMMAND_EXECUTION_DISABLED", rec.errors[0].Code)
	assert.Equal(t, "Terminal commands are disabled on the desktop.", rec.errors[0].Message)
}

func TestUT_Engine_07_ServerErrorMapping_UnauthorizedMessage_RoutesToAuthFailure(t *testing.T) {
	eng, adapter, rec := newTestEngine(t)
	eng.Connect("localhost:9000")
	adapter.EmitOpen()

	adapter.EmitMessage(`{"type":"ERROR","message":"unauthorized device"}`)
	assert.Equal(t, 1, rec.authFailures)
	assert.Empty(t, rec.errors)
}

func TestUT_Engine_08_IllegalTransition_EmitsClientErrorWithoutMutatingState(t *testing.T) {
	eng, _, rec := newTestEngine(t)
	// DISCONNECTED -> CONNECTED is not in the allowed table.
	eng.transitionLocked(Connected)
	assert.Equal(t, Disconnected, eng.GetState())
	assert.Contains(t, rec.errors[0].Message, "Illegal state transition")
}

func TestUT_Engine_09_DisconnectClearsStateAndTimers(t *testing.T) {
	eng, adapter, _ := newTestEngine(t)
	eng.Connect("localhost:9000")
	adapter.EmitOpen()
	_, _ = eng.SendAction(protocol.Key("a"))

	eng.Disconnect()
	assert.Equal(t, Disconnected, eng.GetState())
	assert.Equal(t, 0, eng.GetReconnectAttempt())
	assert.Empty(t, eng.pending)
}

func TestUT_Engine_10_BackgroundThenForeground(t *testing.T) {
	eng, adapter, _ := newTestEngine(t)
	eng.Connect("localhost:9000")
	adapter.EmitOpen()
	_, _ = eng.SendAction(protocol.Key("a"))

	eng.Backgrounded()
	assert.Equal(t, Disconnected, eng.GetState())
	assert.Empty(t, eng.pending)

	eng.Foregrounded()
	assert.Equal(t, Connecting, eng.GetState())
	assert.Equal(t, 0, eng.GetReconnectAttempt())
}

func TestUT_Engine_11_ForegroundWithoutRememberedURL_NoOp(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	eng.Foregrounded()
	assert.Equal(t, Disconnected, eng.GetState())
}

func TestUT_Engine_12_ReconnectBackoffSequence(t *testing.T) {
	eng, adapter, _ := newTestEngine(t)
	eng.Connect("localhost:9000")
	adapter.EmitOpen()

	adapter.EmitClose(1006, "dropped")
	assert.Equal(t, Reconnecting, eng.GetState())
	assert.Equal(t, 1, eng.GetReconnectAttempt())
	assert.Equal(t, time.Second, eng.backoffDelay(1))
	assert.Equal(t, 2*time.Second, eng.backoffDelay(2))
	assert.Equal(t, 4*time.Second, eng.backoffDelay(3))
	assert.Equal(t, 10*time.Second, eng.backoffDelay(5))
	assert.Equal(t, 10*time.Second, eng.backoffDelay(10))
}

func TestUT_Engine_13_ReconnectExhaustion_TransitionsToError(t *testing.T) {
	eng, _, rec := newTestEngine(t)
	eng.mu.Lock()
	eng.targetURL = "ws://localhost:9000"
	eng.reconnectAttempt = DefaultConfig().MaxReconnectAttempts
	eng.scheduleReconnectLocked()
	eng.mu.Unlock()

	assert.Equal(t, Error, eng.GetState())
	assert.Contains(t, rec.errors[len(rec.errors)-1].Message, "Reconnect failed after 10 attempts.")
}

func TestUT_Engine_14_CompletedWindowEvictsFIFO(t *testing.T) {
	w := newCompletedWindow(3)
	w.insert("a")
	w.insert("b")
	w.insert("c")
	w.insert("d")
	assert.False(t, w.has("a"))
	assert.True(t, w.has("b"))
	assert.True(t, w.has("d"))
	assert.Equal(t, 3, w.len())
}

func TestUT_Engine_15_ValidationFailure_SendActionReturnsFalse(t *testing.T) {
	eng, adapter, rec := newTestEngine(t)
	eng.Connect("localhost:9000")
	adapter.EmitOpen()

	_, ok := eng.SendAction(protocol.Shortcut())
	assert.False(t, ok)
	assert.NotEmpty(t, rec.errors)
}

func TestUT_Engine_16_CommandStep_EmitsWarning(t *testing.T) {
	eng, adapter, rec := newTestEngine(t)
	eng.Connect("localhost:9000")
	adapter.EmitOpen()

	_, ok := eng.SendAction(protocol.Command("ls -la"))
	assert.True(t, ok)
	assert.Contains(t, rec.warnings, "Command execution may be disabled on desktop.")
}

func TestUT_Engine_17_ActionTimeout_FiresExactlyOnce(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ActionTimeout = 20 * time.Millisecond
	eng, adapter, rec := newTestEngineWithConfig(t, cfg)
	eng.Connect("localhost:9000")
	adapter.EmitOpen()

	id, ok := eng.SendAction(protocol.Key("a"))
	assert.True(t, ok)

	waitFor(t, time.Second, func() bool {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		return len(rec.timeouts) == 1
	})

	rec.mu.Lock()
	assert.Equal(t, []string{id}, rec.timeouts)
	assert.Len(t, rec.results, 1)
	assert.Equal(t, id, rec.results[0].ID)
	assert.Equal(t, protocol.StatusError, rec.results[0].Status)
	assert.NotEmpty(t, rec.errors)
	assert.Contains(t, rec.errors[len(rec.errors)-1].Message, id)
	rec.mu.Unlock()

	eng.mu.Lock()
	_, stillPending := eng.pending[id]
	eng.mu.Unlock()
	assert.False(t, stillPending, "timed-out action must be removed from pending")

	// A late result arriving after the timeout must be dropped by duplicate
	// suppression, not delivered a second time.
	adapter.EmitMessage(fmt.Sprintf(`{"type":"ACTION_RESULT","payload":{"id":%q,"status":"success","executionTime":1}}`, id))
	rec.mu.Lock()
	assert.Len(t, rec.results, 1)
	rec.mu.Unlock()
}

func TestUT_Engine_18_HeartbeatStaleness_ClosesAndReconnects(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HeartbeatStaleness = 20 * time.Millisecond
	cfg.HeartbeatCheckPeriod = 5 * time.Millisecond
	eng, adapter, rec := newTestEngineWithConfig(t, cfg)
	eng.Connect("localhost:9000")
	adapter.EmitOpen()
	assert.Equal(t, Connected, eng.GetState())

	waitFor(t, time.Second, func() bool {
		return eng.GetState() == Reconnecting
	})

	assert.Equal(t, 1, eng.GetReconnectAttempt())

	rec.mu.Lock()
	defer rec.mu.Unlock()
	found := false
	for _, e := range rec.errors {
		if e.Message == "Heartbeat timeout. Reconnecting." {
			found = true
			break
		}
	}
	assert.True(t, found, "expected a heartbeat timeout error to have been emitted")
}
